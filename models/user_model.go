package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is a profile: either an administrator of the storage company or a
// client whose materials are held in storage. Materials are scoped by the
// profile ID of their owner.
type User struct {
	gorm.Model
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email" gorm:"unique"`
	Password    string `json:"-"`
	Role        string `json:"role" gorm:"default:'client'"`
	CreatedBy   int    `json:"-"`
	UpdatedBy   int    `json:"-"`
}

type UserSession struct {
	gorm.Model
	UserID         uint64    `json:"user_id"`
	SessionID      string    `json:"session_id" gorm:"uniqueIndex"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	IsActive       bool      `json:"is_active"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type LoginLog struct {
	gorm.Model
	UserID        *uint64    `json:"user_id"`
	SessionID     string     `json:"session_id"`
	Username      string     `json:"username"`
	LoginAt       *time.Time `json:"login_at"`
	LogoutAt      *time.Time `json:"logout_at"`
	IPAddress     string     `json:"ip_address"`
	UserAgent     string     `json:"user_agent"`
	LoginStatus   string     `json:"login_status"`
	FailureReason *string    `json:"failure_reason"`
}
