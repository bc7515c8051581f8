package database

import (
	"errors"
	"log"

	"stockage-api/config"
	"stockage-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin profile if no admin exists yet. The
// system requires at least one admin profile at all times.
func SeedAdmin(db *gorm.DB) {
	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Unexpected DB error: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		FullName: "Administrateur",
		Email:    config.AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to seed admin profile: %v", err)
	}
	log.Println("Seeded admin profile:", admin.Email)
}
