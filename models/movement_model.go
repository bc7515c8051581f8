package models

import (
	"time"

	"stockage-api/types"
)

const (
	MovementEntry = "entry"
	MovementExit  = "exit"
)

// InitialDepositNotes marks the entry movement created implicitly when a
// material is registered.
const InitialDepositNotes = "initial deposit"

// Movement is one immutable ledger record of a quantity change against a
// material. The sum of entry deltas minus exit deltas always equals the
// material's current quantity. Movements are only ever deleted as a
// cascade of their material's deletion.
type Movement struct {
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	MaterialID uint              `json:"material_id" gorm:"index;not null"`
	Type       string            `json:"type"`
	Quantity   float64           `json:"quantity"`
	Notes      string            `json:"notes"`
	CreatedBy  uint              `json:"created_by"`
	CreatedAt  time.Time         `json:"created_at"`
}
