package repositories

import (
	"errors"
	"testing"
	"time"

	"stockage-api/models"

	"gorm.io/gorm"
)

func TestListMaterialsIsRoleScoped(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")
	clientA := createProfile(t, db, "a@test", models.RoleClient, "A Corp")
	clientB := createProfile(t, db, "b@test", models.RoleClient, "B Corp")

	materials := NewMaterialRepository(db)

	if _, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Brass rod", MaterialType: "metal", Quantity: 5, Unit: "kg", ClientID: &clientA.ID,
	}); err != nil {
		t.Fatalf("create material for A: %v", err)
	}
	if _, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Zinc sheet", MaterialType: "metal", Quantity: 8, Unit: "kg", ClientID: &clientB.ID,
	}); err != nil {
		t.Fatalf("create material for B: %v", err)
	}

	adminView, err := materials.ListMaterials(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminView) != 2 {
		t.Fatalf("admin should see all materials, got %d", len(adminView))
	}

	clientView, err := materials.ListMaterials(clientA.ID, clientA.Role)
	if err != nil {
		t.Fatalf("client list: %v", err)
	}
	if len(clientView) != 1 {
		t.Fatalf("client A should see exactly its own material, got %d", len(clientView))
	}
	if clientView[0].ClientID == nil || *clientView[0].ClientID != clientA.ID {
		t.Fatalf("client A sees a material it does not own: %+v", clientView[0])
	}
}

func TestListMaterialsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")

	materials := NewMaterialRepository(db)

	first, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Older", MaterialType: "metal", Quantity: 1, Unit: "kg",
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Newer", MaterialType: "metal", Quantity: 1, Unit: "kg",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := materials.ListMaterials(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got IDs %d, %d", list[0].ID, list[1].ID)
	}
}

func TestCreateMaterialRejectsUnknownOwner(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")

	materials := NewMaterialRepository(db)

	ghost := uint(9999)
	_, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Orphan", MaterialType: "metal", Quantity: 1, Unit: "kg", ClientID: &ghost,
	})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestClientCreationDefaultsToSelf(t *testing.T) {
	db := setupTestDB(t)
	client := createProfile(t, db, "client@test", models.RoleClient, "Self Co")
	other := createProfile(t, db, "other@test", models.RoleClient, "Other Co")

	materials := NewMaterialRepository(db)

	// A client attributing the material to someone else is overridden:
	// clients always own what they register.
	material, err := materials.CreateMaterial(client.ID, client.Role, MaterialInput{
		MaterialName: "Tin can", MaterialType: "metal", Quantity: 2, Unit: "pcs", ClientID: &other.ID,
	})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if material.ClientID == nil || *material.ClientID != client.ID {
		t.Fatalf("expected owner %d, got %+v", client.ID, material.ClientID)
	}
}

func TestUpdateMaterialOwnershipRules(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")
	owner := createProfile(t, db, "owner@test", models.RoleClient, "Owner Co")
	other := createProfile(t, db, "other@test", models.RoleClient, "Other Co")

	materials := NewMaterialRepository(db)

	material, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Nickel", MaterialType: "metal", Quantity: 4, Unit: "kg", ClientID: &owner.ID,
	})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}

	input := MaterialInput{
		MaterialName: "Nickel", MaterialType: "metal", Quantity: 4, Unit: "kg", ClientID: &owner.ID,
	}

	// A non-owner client cannot touch the material at all.
	if _, err := materials.UpdateMaterial(other.ID, other.Role, material.ID, input); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// The owner cannot hand the material to another client.
	reassigned := input
	reassigned.ClientID = &other.ID
	if _, err := materials.UpdateMaterial(owner.ID, owner.Role, material.ID, reassigned); !errors.Is(err, ErrOwnerChange) {
		t.Fatalf("expected ErrOwnerChange, got %v", err)
	}

	// The admin can.
	updated, err := materials.UpdateMaterial(admin.ID, admin.Role, material.ID, reassigned)
	if err != nil {
		t.Fatalf("admin reassign: %v", err)
	}
	if updated.ClientID == nil || *updated.ClientID != other.ID {
		t.Fatalf("expected owner %d after admin reassign, got %+v", other.ID, updated.ClientID)
	}
}

func TestDeleteMaterialCascadesToMovements(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")

	materials := NewMaterialRepository(db)
	movements := NewMovementRepository(db)

	material, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Iron ore", MaterialType: "mineral", Quantity: 40, Unit: "t",
	})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if _, err := movements.RecordMovement(admin.ID, admin.Role, material.ID, models.MovementExit, 10, ""); err != nil {
		t.Fatalf("record exit: %v", err)
	}

	if err := materials.DeleteMaterial(material.ID); err != nil {
		t.Fatalf("delete material: %v", err)
	}

	var materialCount, movementCount int64
	if err := db.Model(&models.Material{}).Unscoped().Where("id = ?", material.ID).Count(&materialCount).Error; err != nil {
		t.Fatalf("count materials: %v", err)
	}
	if err := db.Model(&models.Movement{}).Where("material_id = ?", material.ID).Count(&movementCount).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if materialCount != 0 {
		t.Fatalf("material still present after delete")
	}
	if movementCount != 0 {
		t.Fatalf("orphan movements left after delete: %d", movementCount)
	}
}

func TestExitStampDoesNotTouchQuantity(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")

	materials := NewMaterialRepository(db)

	material, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Crate", MaterialType: "container", Quantity: 7, Unit: "pcs",
	})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}

	exitDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	stamped, err := materials.RecordExit(admin.ID, material.ID, exitDate)
	if err != nil {
		t.Fatalf("record exit stamp: %v", err)
	}
	if stamped.ExitDate == nil || !stamped.ExitDate.Equal(exitDate) {
		t.Fatalf("expected exit date %v, got %v", exitDate, stamped.ExitDate)
	}
	if stamped.Quantity != 7 {
		t.Fatalf("exit stamp must not change quantity, got %g", stamped.Quantity)
	}

	cleared, err := materials.CancelExit(admin.ID, material.ID)
	if err != nil {
		t.Fatalf("cancel exit stamp: %v", err)
	}
	if cleared.ExitDate != nil {
		t.Fatalf("expected exit date cleared, got %v", cleared.ExitDate)
	}
}

func TestGetMaterialScopedNotFound(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "admin@test", models.RoleAdmin, "")
	owner := createProfile(t, db, "owner@test", models.RoleClient, "Owner Co")
	other := createProfile(t, db, "other@test", models.RoleClient, "Other Co")

	materials := NewMaterialRepository(db)

	material, err := materials.CreateMaterial(admin.ID, admin.Role, MaterialInput{
		MaterialName: "Coil", MaterialType: "metal", Quantity: 1, Unit: "pcs", ClientID: &owner.ID,
	})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}

	if _, err := materials.GetMaterial(other.ID, other.Role, material.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for foreign client, got %v", err)
	}
}
