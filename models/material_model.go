package models

import (
	"time"

	"gorm.io/gorm"
)

// Material is a quantity of a named substance held in a storage location
// on behalf of a client. Quantity is the live stock figure maintained by
// the movement ledger; it never goes negative. ExitDate is the legacy
// single-stamp withdrawal marker and does not affect quantity.
type Material struct {
	gorm.Model
	MaterialName      string     `json:"material_name"`
	MaterialType      string     `json:"material_type"`
	Quantity          float64    `json:"quantity" gorm:"default:0"`
	Unit              string     `json:"unit"`
	StorageLocation   string     `json:"storage_location"`
	Supplier          string     `json:"supplier"`
	ReceptionDate     string     `json:"reception_date"`
	CertificateNumber string     `json:"certificate_number"`
	EstimatedValue    float64    `json:"estimated_value" gorm:"default:0"`
	Notes             string     `json:"notes"`
	ClientID          *uint      `json:"client_id"`
	Client            *User      `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ExitDate          *time.Time `json:"exit_date"`
	CreatedBy         int        `json:"-"`
	UpdatedBy         int        `json:"-"`
}

// InStock reports whether the material counts as in stock for display
// and monetary totals: not stamped out and not exhausted.
func (m *Material) InStock() bool {
	return m.ExitDate == nil && m.Quantity > 0
}

// Archived reports whether the material's quantity is exhausted. Archived
// materials stay queryable for their history.
func (m *Material) Archived() bool {
	return m.Quantity <= 0
}
