package domain

import "time"

// Setting is a key/value entry of institution-wide configuration.
type Setting struct {
	ID          string
	Key         string
	Value       string
	Description string
	Category    string
	UpdatedAt   time.Time
}

// Stats summarizes the active population.
type Stats struct {
	ActivePersons        int64
	ActiveUnits          int64
	ActiveEnrollments    int64
	CompletedEnrollments int64
	ValidCertificates    int64
}

// UnitStats counts the enrollments of one active unit.
type UnitStats struct {
	UnitID               string
	UnitName             string
	ActiveEnrollments    int64
	CompletedEnrollments int64
}
