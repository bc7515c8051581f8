package repositories

import (
	"errors"

	"stockage-api/controllers/idgen"
	"stockage-api/models"
	"stockage-api/types"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock for this exit")
	ErrInvalidMovement   = errors.New("movement quantity must be positive")
)

type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db}
}

// MovementEntry is a ledger row augmented with the creator's display name
// for the history view.
type MovementEntry struct {
	models.Movement
	CreatorName string `json:"creator_name"`
}

// RecordMovement appends a ledger row and adjusts the material quantity
// in one transaction. The exit decrement is conditional at the SQL layer
// (`quantity >= ?`), so two concurrent exits cannot drive the stock
// negative; the losing one rolls back with ErrInsufficientStock.
func (r *MovementRepository) RecordMovement(actorID uint, role string, materialID uint, mvType string, quantity float64, notes string) (*models.Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidMovement
	}

	movement := models.Movement{
		ID:         types.SnowflakeID(idgen.GenerateID()),
		MaterialID: materialID,
		Type:       mvType,
		Quantity:   quantity,
		Notes:      notes,
		CreatedBy:  actorID,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var material models.Material
		q := tx.Model(&models.Material{})
		if role != models.RoleAdmin {
			q = q.Where("client_id = ?", actorID)
		}
		if err := q.First(&material, materialID).Error; err != nil {
			return err
		}

		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		var res *gorm.DB
		switch mvType {
		case models.MovementEntry:
			res = tx.Model(&models.Material{}).
				Where("id = ?", materialID).
				Update("quantity", gorm.Expr("quantity + ?", quantity))
		case models.MovementExit:
			res = tx.Model(&models.Material{}).
				Where("id = ? AND quantity >= ?", materialID, quantity).
				Update("quantity", gorm.Expr("quantity - ?", quantity))
		default:
			return ErrInvalidMovement
		}

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The material exists (fetched above), so zero rows means
			// the stock guard fired.
			return ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &movement, nil
}

// ListMovements returns a material's history newest first. Creator names
// are resolved with one batched lookup, not one query per row.
func (r *MovementRepository) ListMovements(materialID uint) ([]MovementEntry, error) {
	var movements []models.Movement
	err := r.db.Where("material_id = ?", materialID).
		Order("created_at DESC, id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	creatorIDs := make([]uint, 0, len(movements))
	seen := make(map[uint]bool)
	for _, m := range movements {
		if m.CreatedBy != 0 && !seen[m.CreatedBy] {
			seen[m.CreatedBy] = true
			creatorIDs = append(creatorIDs, m.CreatedBy)
		}
	}

	names := make(map[uint]string)
	if len(creatorIDs) > 0 {
		var creators []models.User
		if err := r.db.Where("id IN ?", creatorIDs).Find(&creators).Error; err != nil {
			return nil, err
		}
		for _, u := range creators {
			if u.FullName != "" {
				names[u.ID] = u.FullName
			} else {
				names[u.ID] = u.Email
			}
		}
	}

	entries := make([]MovementEntry, 0, len(movements))
	for _, m := range movements {
		entries = append(entries, MovementEntry{
			Movement:    m,
			CreatorName: names[m.CreatedBy],
		})
	}
	return entries, nil
}

// InitialQuantity returns the earliest entry movement's quantity. Used
// when rendering exhausted materials, whose live quantity reads zero.
func (r *MovementRepository) InitialQuantity(materialID uint) (float64, error) {
	var first models.Movement
	err := r.db.Where("material_id = ? AND type = ?", materialID, models.MovementEntry).
		Order("created_at ASC, id ASC").
		First(&first).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return first.Quantity, nil
}
