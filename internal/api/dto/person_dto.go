package dto

import "time"

// AddressDTO is a postal address.
type AddressDTO struct {
	ZipCode      string `json:"cep" validate:"required,max=10"`
	Street       string `json:"street" validate:"required,max=255"`
	Number       string `json:"number" validate:"required,max=20"`
	Complement   string `json:"complement,omitempty" validate:"max=100"`
	Neighborhood string `json:"neighborhood" validate:"required,max=100"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,len=2"`
}

// GuardiansDTO carries the parents' contact data.
type GuardiansDTO struct {
	FatherName  string `json:"father_name" validate:"required"`
	MotherName  string `json:"mother_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	FatherTaxID string `json:"father_cpf" validate:"required"`
	MotherTaxID string `json:"mother_cpf" validate:"required"`
}

// PersonRequest payload for creating a student.
type PersonRequest struct {
	Name      string       `json:"name" validate:"required,max=255"`
	BirthDate Date         `json:"birth_date"`
	TaxID     string       `json:"cpf" validate:"required"`
	Gender    string       `json:"gender" validate:"required,oneof=male female other"`
	Phone     string       `json:"phone" validate:"required"`
	Email     string       `json:"email,omitempty" validate:"omitempty,email"`
	Address   AddressDTO   `json:"address" validate:"required"`
	Guardians GuardiansDTO `json:"guardians" validate:"required"`
}

// PersonUpdateRequest is a partial change. The tax id cannot be changed.
type PersonUpdateRequest struct {
	Name      *string       `json:"name,omitempty" validate:"omitempty,max=255"`
	BirthDate *Date         `json:"birth_date,omitempty"`
	Gender    *string       `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Phone     *string       `json:"phone,omitempty"`
	Email     *string       `json:"email,omitempty" validate:"omitempty,email"`
	Address   *AddressDTO   `json:"address,omitempty"`
	Guardians *GuardiansDTO `json:"guardians,omitempty"`
}

// PersonResponse never carries credential data.
type PersonResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	BirthDate Date         `json:"birth_date"`
	TaxID     string       `json:"cpf"`
	Gender    string       `json:"gender"`
	Phone     string       `json:"phone"`
	Email     string       `json:"email,omitempty"`
	Address   AddressDTO   `json:"address"`
	Guardians GuardiansDTO `json:"guardians"`
	Active    bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
