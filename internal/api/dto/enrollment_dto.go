package dto

import "time"

// EnrollmentRequest payload for enrolling a student.
type EnrollmentRequest struct {
	PersonID       string `json:"student_id" validate:"required"`
	UnitID         string `json:"polo_id" validate:"required"`
	Level          string `json:"level" validate:"required,oneof=NIVEL_I NIVEL_II NIVEL_III NIVEL_IV"`
	EnrollmentDate Date   `json:"enrollment_date"`
	Observations   string `json:"observations,omitempty"`
}

// EnrollmentUpdateRequest is a partial change.
type EnrollmentUpdateRequest struct {
	Level          *string `json:"level,omitempty" validate:"omitempty,oneof=NIVEL_I NIVEL_II NIVEL_III NIVEL_IV"`
	Observations   *string `json:"observations,omitempty"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=active completed cancelled transferred"`
	CompletionDate *Date   `json:"completion_date,omitempty"`
}

// EnrollmentResponse describes an enrollment.
type EnrollmentResponse struct {
	ID                string    `json:"id"`
	PersonID          string    `json:"student_id"`
	StudentName       string    `json:"student_name"`
	Level             string    `json:"level"`
	LevelLabel        string    `json:"level_label"`
	UnitID            string    `json:"polo_id"`
	UnitName          string    `json:"polo_name"`
	EnrollmentDate    Date      `json:"enrollment_date"`
	Observations      string    `json:"observations,omitempty"`
	Status            string    `json:"status"`
	CompletionDate    *Date     `json:"completion_date,omitempty"`
	CertificateIssued bool      `json:"certificate_issued"`
	CertificateDate   *Date     `json:"certificate_date,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IssueCertificateRequest payload.
type IssueCertificateRequest struct {
	EnrollmentID   string  `json:"enrollment_id" validate:"required"`
	Grade          float64 `json:"grade" validate:"gte=0,lte=10"`
	HoursCompleted int     `json:"hours_completed" validate:"gte=0"`
	IssueDate      Date    `json:"issue_date"`
}

// CertificateResponse describes a certificate.
type CertificateResponse struct {
	ID             string  `json:"id"`
	Number         string  `json:"certificate_number"`
	PersonID       string  `json:"student_id"`
	EnrollmentID   string  `json:"enrollment_id"`
	UnitID         string  `json:"polo_id"`
	IssueDate      Date    `json:"issue_date"`
	Level          string  `json:"level"`
	Grade          float64 `json:"grade"`
	HoursCompleted int     `json:"hours_completed"`
	Valid          bool    `json:"is_valid"`
}
