package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils"
)

// ConnectDB opens the database handle used by every repository. The
// connect itself is retried with backoff; nothing downstream is.
func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	var db *gorm.DB
	err := utils.Retry(5, time.Second, func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return openErr
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
