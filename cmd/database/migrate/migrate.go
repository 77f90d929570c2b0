package migration

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils"
)

var migrated bool

// Migrate runs schema and index maintenance once per process. Safe to
// call again; subsequent calls are no-ops.
func Migrate(db *gorm.DB) error {
	if migrated {
		return nil
	}

	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	err := utils.Retry(3, time.Second, func() error {
		if err := db.AutoMigrate(&entities.User{}); err != nil {
			log.Printf("Error migrating user database: %v", err)
			return err
		}
		if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
			log.Printf("Error migrating recipe database: %v", err)
			return err
		}
		if err := db.AutoMigrate(&entities.UserRecipe{}); err != nil {
			log.Printf("Error migrating user recipe database: %v", err)
			return err
		}
		if err := db.AutoMigrate(&entities.VerificationCode{}); err != nil {
			log.Printf("Error migrating verification code database: %v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	migrated = true
	fmt.Println("Database migration complete")
	return nil
}
