package main

import (
	"log"

	"github.com/dotEthan/Recipeasy-backend-sub000/cmd/config"
	migration "github.com/dotEthan/Recipeasy-backend-sub000/cmd/database/migrate"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("app setup failed: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
