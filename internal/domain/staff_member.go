package domain

import "time"

// StaffMember models a person working at a unit.
type StaffMember struct {
	ID             string
	Name           string
	TaxID          string
	Phone          string
	Email          string
	Role           Role
	UnitID         string
	Active         bool
	Qualifications []string
	HireDate       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
