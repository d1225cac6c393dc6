package dto

import "time"

// AdminCreateRequest payload.
type AdminCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	TaxID       string `json:"cpf" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Role        string `json:"role" validate:"required"`
	AccessLevel string `json:"access_level" validate:"required,oneof=geral polo_especifico"`
	UnitID      string `json:"polo_id,omitempty"`
	Password    string `json:"password" validate:"required"`
}

// AdminUpdateRequest is a partial change.
type AdminUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Role        *string `json:"role,omitempty"`
	AccessLevel *string `json:"access_level,omitempty" validate:"omitempty,oneof=geral polo_especifico"`
	UnitID      *string `json:"polo_id,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// AdminResponse never carries the password hash.
type AdminResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	TaxID       string    `json:"cpf"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	AccessLevel string    `json:"access_level"`
	UnitID      string    `json:"polo_id,omitempty"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// StaffRequest payload for adding a staff member.
type StaffRequest struct {
	Name           string   `json:"name" validate:"required,max=255"`
	TaxID          string   `json:"cpf" validate:"required"`
	Phone          string   `json:"phone" validate:"required"`
	Email          string   `json:"email,omitempty" validate:"omitempty,email"`
	Role           string   `json:"role" validate:"required"`
	UnitID         string   `json:"polo_id" validate:"required"`
	Qualifications []string `json:"qualifications"`
	HireDate       Date     `json:"hire_date"`
}

// StaffUpdateRequest is a partial change.
type StaffUpdateRequest struct {
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Role           *string  `json:"role,omitempty"`
	UnitID         *string  `json:"polo_id,omitempty"`
	Qualifications []string `json:"qualifications,omitempty"`
}

// StaffResponse describes a staff member.
type StaffResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	TaxID          string   `json:"cpf"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email,omitempty"`
	Role           string   `json:"role"`
	UnitID         string   `json:"polo_id"`
	Active         bool     `json:"is_active"`
	Qualifications []string `json:"qualifications"`
	HireDate       Date     `json:"hire_date"`
}
