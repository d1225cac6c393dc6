package dto

import "time"

// SettingRequest payload for PUT /settings/:key.
type SettingRequest struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty" validate:"max=50"`
}

// SettingResponse describes a setting.
type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatsResponse carries the dashboard counters.
type StatsResponse struct {
	ActivePersons        int64 `json:"active_students"`
	ActiveUnits          int64 `json:"active_polos"`
	ActiveEnrollments    int64 `json:"active_enrollments"`
	CompletedEnrollments int64 `json:"completed_enrollments"`
	ValidCertificates    int64 `json:"valid_certificates"`
}

// UnitStatsResponse counts enrollments of one unit.
type UnitStatsResponse struct {
	UnitID               string `json:"polo_id"`
	UnitName             string `json:"polo_name"`
	ActiveEnrollments    int64  `json:"active_enrollments"`
	CompletedEnrollments int64  `json:"completed_enrollments"`
}
