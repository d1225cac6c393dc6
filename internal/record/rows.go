package record

import "time"

// Table names of the remote store.
const (
	TablePersons      = "students"
	TableUnits        = "polos"
	TableAdmins       = "admin_users"
	TableStaff        = "staff_members"
	TableEnrollments  = "enrollments"
	TableCertificates = "certificates"
	TableSettings     = "system_settings"
)

// PersonRow is a row of the students table.
type PersonRow struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Name         string    `db:"name" validate:"required,max=255"`
	BirthDate    time.Time `db:"birth_date" validate:"required"`
	CPF          string    `db:"cpf" validate:"required,cpf"`
	Gender       string    `db:"gender" validate:"oneof=male female other"`
	Phone        string    `db:"phone" validate:"required,max=20"`
	Email        *string   `db:"email" validate:"omitempty,email"`
	CEP          string    `db:"cep" validate:"required,max=10"`
	Street       string    `db:"street" validate:"required,max=255"`
	Number       string    `db:"number" validate:"required,max=20"`
	Complement   *string   `db:"complement" validate:"omitempty,max=100"`
	Neighborhood string    `db:"neighborhood" validate:"required,max=100"`
	City         string    `db:"city" validate:"required,max=100"`
	State        string    `db:"state" validate:"required,len=2"`
	FatherName   string    `db:"father_name" validate:"required,max=255"`
	MotherName   string    `db:"mother_name" validate:"required,max=255"`
	ParentsPhone string    `db:"parents_phone" validate:"required,max=20"`
	ParentsEmail *string   `db:"parents_email" validate:"omitempty,email"`
	FatherCPF    string    `db:"father_cpf" validate:"required,cpf"`
	MotherCPF    string    `db:"mother_cpf" validate:"required,cpf"`
	IsActive     bool      `db:"is_active"`
	PasswordHash *string   `db:"password_hash"`
}

// UnitRow is a row of the polos table.
type UnitRow struct {
	ID               string    `db:"id"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	Name             string    `db:"name" validate:"required,max=255"`
	Street           string    `db:"street" validate:"required,max=255"`
	Number           string    `db:"number" validate:"required,max=20"`
	Neighborhood     string    `db:"neighborhood" validate:"required,max=100"`
	City             string    `db:"city" validate:"required,max=100"`
	State            string    `db:"state" validate:"required,len=2"`
	CEP              string    `db:"cep" validate:"required,max=10"`
	Pastor           string    `db:"pastor" validate:"required,max=255"`
	CoordinatorName  string    `db:"coordinator_name" validate:"required,max=255"`
	CoordinatorCPF   string    `db:"coordinator_cpf" validate:"required,cpf"`
	DirectorName     *string   `db:"director_name"`
	DirectorCPF      *string   `db:"director_cpf" validate:"omitempty,cpf"`
	SecretaryName    *string   `db:"secretary_name"`
	SecretaryCPF     *string   `db:"secretary_cpf" validate:"omitempty,cpf"`
	TreasurerName    *string   `db:"treasurer_name"`
	TreasurerCPF     *string   `db:"treasurer_cpf" validate:"omitempty,cpf"`
	Teachers         []string  `db:"teachers"`
	Assistants       []string  `db:"assistants"`
	CafeteriaWorkers []string  `db:"cafeteria_workers"`
	AvailableLevels  []string  `db:"available_levels" validate:"dive,oneof=NIVEL_I NIVEL_II NIVEL_III NIVEL_IV"`
	IsActive         bool      `db:"is_active"`
}

// AdminRow is a row of the admin_users table.
type AdminRow struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Name         string    `db:"name" validate:"required,max=255"`
	Email        string    `db:"email" validate:"required,email"`
	CPF          string    `db:"cpf" validate:"required,cpf"`
	Phone        string    `db:"phone" validate:"required,max=20"`
	Role         string    `db:"role" validate:"role"`
	AccessLevel  string    `db:"access_level" validate:"oneof=geral polo_especifico"`
	PoloID       *string   `db:"polo_id"`
	IsActive     bool      `db:"is_active"`
	PasswordHash string    `db:"password_hash" validate:"required"`
}

// StaffRow is a row of the staff_members table.
type StaffRow struct {
	ID             string    `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	Name           string    `db:"name" validate:"required,max=255"`
	CPF            string    `db:"cpf" validate:"required,cpf"`
	Phone          string    `db:"phone" validate:"required,max=20"`
	Email          *string   `db:"email" validate:"omitempty,email"`
	Role           string    `db:"role" validate:"role"`
	PoloID         string    `db:"polo_id" validate:"required"`
	IsActive       bool      `db:"is_active"`
	Qualifications []string  `db:"qualifications"`
	HireDate       time.Time `db:"hire_date" validate:"required"`
}

// EnrollmentRow is a row of the enrollments table.
type EnrollmentRow struct {
	ID                string     `db:"id"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	StudentID         string     `db:"student_id" validate:"required"`
	StudentName       string     `db:"student_name" validate:"max=255"`
	Level             string     `db:"level" validate:"oneof=NIVEL_I NIVEL_II NIVEL_III NIVEL_IV"`
	PoloID            string     `db:"polo_id" validate:"required"`
	PoloName          string     `db:"polo_name" validate:"max=255"`
	EnrollmentDate    time.Time  `db:"enrollment_date" validate:"required"`
	Observations      *string    `db:"observations"`
	Status            string     `db:"status" validate:"oneof=active completed cancelled transferred"`
	CompletionDate    *time.Time `db:"completion_date"`
	CertificateIssued bool       `db:"certificate_issued"`
	CertificateDate   *time.Time `db:"certificate_date"`
}

// CertificateRow is a row of the certificates table.
type CertificateRow struct {
	ID                string    `db:"id"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
	StudentID         string    `db:"student_id" validate:"required"`
	EnrollmentID      string    `db:"enrollment_id" validate:"required"`
	CertificateNumber string    `db:"certificate_number" validate:"required,max=50"`
	IssueDate         time.Time `db:"issue_date" validate:"required"`
	Level             string    `db:"level" validate:"oneof=NIVEL_I NIVEL_II NIVEL_III NIVEL_IV"`
	PoloID            string    `db:"polo_id" validate:"required"`
	Grade             float64   `db:"grade" validate:"gte=0,lte=10"`
	HoursCompleted    int32     `db:"hours_completed" validate:"gte=0"`
	IsValid           bool      `db:"is_valid"`
}

// SettingRow is a row of the system_settings table.
type SettingRow struct {
	ID          string    `db:"id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Key         string    `db:"key" validate:"required,max=100"`
	Value       string    `db:"value"`
	Description *string   `db:"description"`
	Category    string    `db:"category" validate:"required,max=50"`
}
