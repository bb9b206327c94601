package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient      Role = "patient"
	RoleCaregiver    Role = "caregiver"
	RoleHealthWorker Role = "health_worker"
	RoleClinicAdmin  Role = "clinic_admin"
	RoleSystemAdmin  Role = "system_admin"
)

// IsAdmin reports whether the role may manage clinic resources.
func (r Role) IsAdmin() bool {
	return r == RoleClinicAdmin || r == RoleSystemAdmin
}

type User struct {
	Base
	Email                 string     `db:"email" json:"email"`
	PasswordHash          string     `db:"password_hash" json:"-"`
	FirstName             string     `db:"first_name" json:"first_name"`
	LastName              string     `db:"last_name" json:"last_name"`
	Role                  Role       `db:"role" json:"role"`
	PhoneNumber           *string    `db:"phone_number" json:"phone_number,omitempty"`
	ClinicID              *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	IsActive              bool       `db:"is_active" json:"is_active"`
	RequirePasswordChange bool       `db:"require_password_change" json:"require_password_change"`
	LastLoginAt           *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=patient caregiver health_worker clinic_admin system_admin"`
	PhoneNumber string `json:"phone_number"`
	ClinicID    string `json:"clinic_id"`
}

type PasswordResetToken struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Token     string     `db:"token" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
