package repositories

import (
	"path/filepath"
	"testing"

	"stockage-api/controllers/idgen"
	"stockage-api/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	idgen.Init()

	dbPath := filepath.Join(t.TempDir(), "stockage_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.LoginLog{},
		&models.Material{},
		&models.Movement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func createProfile(t *testing.T, db *gorm.DB, email, role, company string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		FullName:    "Test " + email,
		CompanyName: company,
		Email:       email,
		Password:    string(hashed),
		Role:        role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create profile %s: %v", email, err)
	}
	return user
}
