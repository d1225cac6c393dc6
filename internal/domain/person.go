package domain

import "time"

// Gender of a person.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Address is a Brazilian postal address.
type Address struct {
	ZipCode      string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

// Guardians holds the parents' contact data of a student.
type Guardians struct {
	FatherName  string
	MotherName  string
	Phone       string
	Email       string
	FatherTaxID string
	MotherTaxID string
}

// Person is an enrolled student together with guardian data. SecretHash is
// only set on rows read for authentication; the cached projection omits it.
type Person struct {
	ID         string
	Name       string
	BirthDate  time.Time
	TaxID      string
	Gender     Gender
	Phone      string
	Email      string
	Address    Address
	Guardians  Guardians
	Active     bool
	SecretHash string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PersonUpdate is a partial change to a person. Nil fields are left untouched.
// The tax id is immutable once a person is created.
type PersonUpdate struct {
	Name      *string
	BirthDate *time.Time
	Gender    *Gender
	Phone     *string
	Email     *string
	Address   *Address
	Guardians *Guardians
}
