package domain

import "time"

// Certificate attests the completion of an enrollment.
type Certificate struct {
	ID             string
	PersonID       string
	EnrollmentID   string
	UnitID         string
	Number         string
	IssueDate      time.Time
	Level          Level
	Grade          float64
	HoursCompleted int
	Valid          bool
	CreatedAt      time.Time
}
