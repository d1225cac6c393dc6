package dto

import "time"

// OfficerDTO is a named office holder.
type OfficerDTO struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"cpf" validate:"required"`
}

// UnitRequest payload for creating or replacing a unit.
type UnitRequest struct {
	Name             string      `json:"name" validate:"required,max=255"`
	Address          AddressDTO  `json:"address" validate:"required"`
	Pastor           string      `json:"pastor" validate:"required"`
	Coordinator      OfficerDTO  `json:"coordinator" validate:"required"`
	Director         *OfficerDTO `json:"director,omitempty"`
	Secretary        *OfficerDTO `json:"secretary,omitempty"`
	Treasurer        *OfficerDTO `json:"treasurer,omitempty"`
	Teachers         []string    `json:"teachers"`
	Assistants       []string    `json:"assistants"`
	CafeteriaWorkers []string    `json:"cafeteria_workers"`
	AvailableLevels  []string    `json:"available_levels" validate:"dive,oneof=NIVEL_I NIVEL_II NIVEL_III NIVEL_IV"`
}

// UnitResponse describes a unit.
type UnitResponse struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Address          AddressDTO  `json:"address"`
	Pastor           string      `json:"pastor"`
	Coordinator      OfficerDTO  `json:"coordinator"`
	Director         *OfficerDTO `json:"director,omitempty"`
	Secretary        *OfficerDTO `json:"secretary,omitempty"`
	Treasurer        *OfficerDTO `json:"treasurer,omitempty"`
	Teachers         []string    `json:"teachers"`
	Assistants       []string    `json:"assistants"`
	CafeteriaWorkers []string    `json:"cafeteria_workers"`
	AvailableLevels  []string    `json:"available_levels"`
	Active           bool        `json:"is_active"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
