package dto

import "time"

// LoginRequest payload. Identifier is the e-mail of an admin or the tax id
// of a student.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Kind       string `json:"kind" validate:"required,oneof=admin student"`
}

// AuthResponse describes an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// SessionResponse describes the authenticated actor.
type SessionResponse struct {
	Kind           string          `json:"kind"`
	Admin          *AdminResponse  `json:"admin,omitempty"`
	Person         *PersonResponse `json:"person,omitempty"`
	AccessLevel    string          `json:"access_level,omitempty"`
	GeneralAccess  bool            `json:"general_access"`
	AllowedUnitIDs []string        `json:"allowed_unit_ids"`
}
