package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names recognized by the authorization layer.
const (
	RoleSuperAdmin = "super admin"
	RoleAdmin      = "admin"
)

// User account states.
const (
	UserStatusDisabled = 0
	UserStatusActive   = 1
	UserStatusPending  = 2
)

// User represents a platform operator. Passwords are stored as bcrypt hashes only.
// Shop owners carry the "admin" role; "super admin" sees every tenant.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:255;index" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:32;default:'admin'" json:"role"`
	Status       int            `gorm:"default:1" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Shops        []Shop         `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// IsSuperAdmin reports whether the user sees all tenants.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
