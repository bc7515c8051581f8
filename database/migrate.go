package database

import (
	"stockage-api/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.LoginLog{},
		&models.Material{},
		&models.Movement{},
	)
}
