package repositories

import (
	"errors"
	"time"

	"stockage-api/controllers/idgen"
	"stockage-api/models"
	"stockage-api/types"

	"gorm.io/gorm"
)

var (
	ErrOwnerNotFound = errors.New("owner profile not found")
	ErrNotOwner      = errors.New("material does not belong to this client")
	ErrOwnerChange   = errors.New("client may not reassign the owner")
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db}
}

// MaterialInput carries the writable fields of a material.
type MaterialInput struct {
	MaterialName      string  `json:"material_name" validate:"required"`
	MaterialType      string  `json:"material_type" validate:"required"`
	Quantity          float64 `json:"quantity" validate:"min=0"`
	Unit              string  `json:"unit" validate:"required"`
	StorageLocation   string  `json:"storage_location"`
	Supplier          string  `json:"supplier"`
	ReceptionDate     string  `json:"reception_date"`
	CertificateNumber string  `json:"certificate_number"`
	EstimatedValue    float64 `json:"estimated_value" validate:"min=0"`
	Notes             string  `json:"notes"`
	ClientID          *uint   `json:"client_id"`
}

// scoped returns the query base for the actor: admins see every material,
// clients only rows they own. Access control lives at the query layer, not
// in hidden UI, so a client probing another client's IDs just gets a 404.
func (r *MaterialRepository) scoped(actorID uint, role string) *gorm.DB {
	q := r.db.Model(&models.Material{})
	if role != models.RoleAdmin {
		q = q.Where("client_id = ?", actorID)
	}
	return q
}

// ListMaterials returns the actor's visible materials, newest first with
// an ID tie-break so the order is deterministic, each with the owner
// profile preloaded for the admin display fields.
func (r *MaterialRepository) ListMaterials(actorID uint, role string) ([]models.Material, error) {
	var materials []models.Material
	err := r.scoped(actorID, role).
		Preload("Client").
		Order("created_at DESC, id DESC").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

// GetMaterial fetches one material within the actor's visibility scope.
func (r *MaterialRepository) GetMaterial(actorID uint, role string, id uint) (*models.Material, error) {
	var material models.Material
	err := r.scoped(actorID, role).
		Preload("Client").
		First(&material, id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// CreateMaterial registers a material and its implicit initial-deposit
// entry movement in one transaction. Clients always own what they create;
// admins may attribute the material to any existing client profile.
func (r *MaterialRepository) CreateMaterial(actorID uint, role string, input MaterialInput) (*models.Material, error) {
	if role != models.RoleAdmin {
		input.ClientID = &actorID
	}

	if input.ClientID != nil {
		var owner models.User
		if err := r.db.First(&owner, *input.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, err
		}
	}

	material := models.Material{
		MaterialName:      input.MaterialName,
		MaterialType:      input.MaterialType,
		Quantity:          input.Quantity,
		Unit:              input.Unit,
		StorageLocation:   input.StorageLocation,
		Supplier:          input.Supplier,
		ReceptionDate:     input.ReceptionDate,
		CertificateNumber: input.CertificateNumber,
		EstimatedValue:    input.EstimatedValue,
		Notes:             input.Notes,
		ClientID:          input.ClientID,
		CreatedBy:         int(actorID),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&material).Error; err != nil {
			return err
		}

		// Zero-quantity registrations get no ledger row: deltas are
		// strictly positive.
		if material.Quantity > 0 {
			deposit := models.Movement{
				ID:         types.SnowflakeID(idgen.GenerateID()),
				MaterialID: material.ID,
				Type:       models.MovementEntry,
				Quantity:   material.Quantity,
				Notes:      models.InitialDepositNotes,
				CreatedBy:  actorID,
			}
			if err := tx.Create(&deposit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &material, nil
}

// UpdateMaterial edits a material. Admins may touch any field including
// the owner; clients only their own rows and never the owner reference.
func (r *MaterialRepository) UpdateMaterial(actorID uint, role string, id uint, input MaterialInput) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, err
	}

	if role != models.RoleAdmin {
		if material.ClientID == nil || *material.ClientID != actorID {
			return nil, ErrNotOwner
		}
		if input.ClientID != nil && *input.ClientID != actorID {
			return nil, ErrOwnerChange
		}
		input.ClientID = material.ClientID
	}

	material.MaterialName = input.MaterialName
	material.MaterialType = input.MaterialType
	material.Quantity = input.Quantity
	material.Unit = input.Unit
	material.StorageLocation = input.StorageLocation
	material.Supplier = input.Supplier
	material.ReceptionDate = input.ReceptionDate
	material.CertificateNumber = input.CertificateNumber
	material.EstimatedValue = input.EstimatedValue
	material.Notes = input.Notes
	material.ClientID = input.ClientID
	material.UpdatedBy = int(actorID)

	if err := r.db.Save(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// DeleteMaterial removes a material and its whole movement history in one
// transaction, movements first, so no orphan movement can survive a
// partial failure.
func (r *MaterialRepository) DeleteMaterial(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var material models.Material
		if err := tx.First(&material, id).Error; err != nil {
			return err
		}
		if err := tx.Where("material_id = ?", id).Delete(&models.Movement{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Material{}, id).Error
	})
}

// RecordExit stamps the legacy exit marker. Quantity is untouched; the
// stamp alone flags the material as withdrawn in the legacy view.
func (r *MaterialRepository) RecordExit(actorID uint, id uint, date time.Time) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, err
	}

	material.ExitDate = &date
	material.UpdatedBy = int(actorID)
	if err := r.db.Save(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// CancelExit clears the legacy exit marker.
func (r *MaterialRepository) CancelExit(actorID uint, id uint) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, err
	}

	material.ExitDate = nil
	material.UpdatedBy = int(actorID)
	if err := r.db.Save(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}
