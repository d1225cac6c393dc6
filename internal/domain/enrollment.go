package domain

import "time"

// EnrollmentStatus enumerates lifecycle states for enrollments.
type EnrollmentStatus string

const (
	EnrollmentActive      EnrollmentStatus = "active"
	EnrollmentCompleted   EnrollmentStatus = "completed"
	EnrollmentCancelled   EnrollmentStatus = "cancelled"
	EnrollmentTransferred EnrollmentStatus = "transferred"
)

// Enrollment associates a person to a level at a unit. StudentName and
// UnitName are snapshots taken at creation and are not kept in sync.
type Enrollment struct {
	ID                string
	PersonID          string
	StudentName       string
	Level             Level
	UnitID            string
	UnitName          string
	EnrollmentDate    time.Time
	Observations      string
	Status            EnrollmentStatus
	CompletionDate    *time.Time
	CertificateIssued bool
	CertificateDate   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EnrollmentUpdate is a partial change to an enrollment.
type EnrollmentUpdate struct {
	Level             *Level
	Observations      *string
	Status            *EnrollmentStatus
	CompletionDate    *time.Time
	CertificateIssued *bool
	CertificateDate   *time.Time
}
