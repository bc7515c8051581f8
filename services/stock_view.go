package services

import (
	"strings"

	"stockage-api/models"
)

const (
	FilterAll      = "all"
	FilterInStock  = "in_stock"
	FilterExited   = "exited"
	FilterActive   = "active"
	FilterArchived = "archived"
)

// StockStats are the dashboard aggregates. TotalValue covers in-stock
// materials only; withdrawn and exhausted ones are excluded from the
// monetary total.
type StockStats struct {
	InStock    int     `json:"in_stock"`
	Exited     int     `json:"exited"`
	Archived   int     `json:"archived"`
	TotalValue float64 `json:"total_value"`
}

// FilterMaterials applies the status filter, then the free-text search.
// Output order matches input order; no re-sort happens here so the list
// on screen does not jump around while the user types.
func FilterMaterials(materials []models.Material, status, search string) []models.Material {
	filtered := make([]models.Material, 0, len(materials))
	for _, m := range materials {
		if matchesStatus(&m, status) {
			filtered = append(filtered, m)
		}
	}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return filtered
	}

	matched := make([]models.Material, 0, len(filtered))
	for _, m := range filtered {
		if strings.Contains(strings.ToLower(m.MaterialName), term) ||
			strings.Contains(strings.ToLower(m.MaterialType), term) ||
			strings.Contains(strings.ToLower(m.Supplier), term) ||
			strings.Contains(strings.ToLower(m.StorageLocation), term) {
			matched = append(matched, m)
		}
	}
	return matched
}

func matchesStatus(m *models.Material, status string) bool {
	switch status {
	case FilterInStock, FilterActive:
		return m.InStock()
	case FilterExited:
		// Withdrawn either by the legacy exit stamp or by exhaustion.
		return m.ExitDate != nil || m.Archived()
	case FilterArchived:
		return m.Archived()
	default:
		return true
	}
}

// ComputeStats derives the dashboard counters from a material list.
func ComputeStats(materials []models.Material) StockStats {
	var stats StockStats
	for _, m := range materials {
		if m.InStock() {
			stats.InStock++
			stats.TotalValue += m.EstimatedValue
		} else {
			stats.Exited++
		}
		if m.Archived() {
			stats.Archived++
		}
	}
	return stats
}
