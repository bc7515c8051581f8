package repositories

import (
	"errors"
	"testing"

	"stockage-api/models"

	"golang.org/x/crypto/bcrypt"
)

func TestDeleteLastAdminRejected(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")

	users := NewUserRepository(db)

	if err := users.DeleteProfile(admin.ID); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}

	count, err := users.AdminCount()
	if err != nil {
		t.Fatalf("admin count: %v", err)
	}
	if count != 1 {
		t.Fatalf("admin should survive the rejected delete, count %d", count)
	}
}

func TestDeleteNonLastAdminSucceeds(t *testing.T) {
	db := setupTestDB(t)
	first := createProfile(t, db, "first@test", models.RoleAdmin, "")
	createProfile(t, db, "second@test", models.RoleAdmin, "")

	users := NewUserRepository(db)

	if err := users.DeleteProfile(first.ID); err != nil {
		t.Fatalf("deleting a non-last admin should succeed: %v", err)
	}

	count, err := users.AdminCount()
	if err != nil {
		t.Fatalf("admin count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 admin left, got %d", count)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")
	client := createProfile(t, db, "client@test", models.RoleClient, "Doomed Co")

	materials := NewMaterialRepository(db)
	movements := NewMovementRepository(db)
	users := NewUserRepository(db)

	material, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Chromium", MaterialType: "metal", Quantity: 9, Unit: "kg", ClientID: &client.ID,
	})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if _, err := movements.RecordMovement(admin.ID, admin.Role, material.ID, models.MovementExit, 2, ""); err != nil {
		t.Fatalf("record exit: %v", err)
	}

	if err := users.DeleteProfile(client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	var materialCount, movementCount int64
	if err := db.Model(&models.Material{}).Unscoped().Where("client_id = ?", client.ID).Count(&materialCount).Error; err != nil {
		t.Fatalf("count materials: %v", err)
	}
	if err := db.Model(&models.Movement{}).Where("material_id = ?", material.ID).Count(&movementCount).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if materialCount != 0 || movementCount != 0 {
		t.Fatalf("cascade left %d materials and %d movements", materialCount, movementCount)
	}
}

func TestCreateProfileHashesPasswordAndRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)

	users := NewUserRepository(db)

	created, err := users.CreateProfile(0, ProfileInput{
		FullName: "Jean Valjean",
		Email:    "jean@test",
		Password: "plaintext-secret",
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if created.Role != models.RoleClient {
		t.Fatalf("expected default role client, got %q", created.Role)
	}

	var stored models.User
	if err := db.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("load stored profile: %v", err)
	}
	if stored.Password == "plaintext-secret" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("plaintext-secret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if _, err := users.CreateProfile(0, ProfileInput{
		FullName: "Imposter",
		Email:    "jean@test",
		Password: "whatever-secret",
	}); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestListProfilesScrubsPasswords(t *testing.T) {
	db := setupTestDB(t)
	createProfile(t, db, "b@test", models.RoleClient, "Beta")
	createProfile(t, db, "a@test", models.RoleClient, "Alpha")

	users := NewUserRepository(db)

	profiles, err := users.ListProfiles()
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].CompanyName != "Alpha" {
		t.Fatalf("expected company-name ordering, got %q first", profiles[0].CompanyName)
	}
	for _, p := range profiles {
		if p.Password != "" {
			t.Fatalf("password leaked for %s", p.Email)
		}
	}
}
