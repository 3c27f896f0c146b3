package domain

import "time"

// User represents a guard (registrar) account that operates the gate.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized
	AuditFields
	RefreshTokenHash       *string    `json:"-"` // Hash of the active refresh token, if any
	RefreshTokenExpiresAt  *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}
