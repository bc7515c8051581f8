package utils

import (
	"stockage-api/models"

	"gorm.io/gorm"
)

// InsertLoginLog records a login attempt; failures to write the log are
// deliberately ignored so they never block authentication itself.
func InsertLoginLog(db *gorm.DB, log models.LoginLog) {
	db.Create(&log)
}
