package domain

import "time"

// AdminIdentity is a staff account that can log in.
type AdminIdentity struct {
	ID           string
	Name         string
	Email        string
	TaxID        string
	Phone        string
	Role         Role
	AccessLevel  AccessLevel
	UnitID       string
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
