package record

import (
	"github.com/spec-kit/enrollment-service/internal/domain"
)

// ToPerson converts a students row into a domain person.
func ToPerson(r PersonRow) domain.Person {
	return domain.Person{
		ID:        r.ID,
		Name:      r.Name,
		BirthDate: r.BirthDate,
		TaxID:     r.CPF,
		Gender:    domain.Gender(r.Gender),
		Phone:     r.Phone,
		Email:     deref(r.Email),
		Address: domain.Address{
			ZipCode:      r.CEP,
			Street:       r.Street,
			Number:       r.Number,
			Complement:   deref(r.Complement),
			Neighborhood: r.Neighborhood,
			City:         r.City,
			State:        r.State,
		},
		Guardians: domain.Guardians{
			FatherName:  r.FatherName,
			MotherName:  r.MotherName,
			Phone:       r.ParentsPhone,
			Email:       deref(r.ParentsEmail),
			FatherTaxID: r.FatherCPF,
			MotherTaxID: r.MotherCPF,
		},
		Active:     r.IsActive,
		SecretHash: deref(r.PasswordHash),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromPerson converts a domain person into a students row.
func FromPerson(p domain.Person) PersonRow {
	return PersonRow{
		ID:           p.ID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Name:         p.Name,
		BirthDate:    p.BirthDate,
		CPF:          p.TaxID,
		Gender:       string(p.Gender),
		Phone:        p.Phone,
		Email:        nullable(p.Email),
		CEP:          p.Address.ZipCode,
		Street:       p.Address.Street,
		Number:       p.Address.Number,
		Complement:   nullable(p.Address.Complement),
		Neighborhood: p.Address.Neighborhood,
		City:         p.Address.City,
		State:        p.Address.State,
		FatherName:   p.Guardians.FatherName,
		MotherName:   p.Guardians.MotherName,
		ParentsPhone: p.Guardians.Phone,
		ParentsEmail: nullable(p.Guardians.Email),
		FatherCPF:    p.Guardians.FatherTaxID,
		MotherCPF:    p.Guardians.MotherTaxID,
		IsActive:     p.Active,
		PasswordHash: nullable(p.SecretHash),
	}
}

// ToUnit converts a polos row into a domain unit.
func ToUnit(r UnitRow) domain.Unit {
	levels := make([]domain.Level, 0, len(r.AvailableLevels))
	for _, l := range r.AvailableLevels {
		levels = append(levels, domain.Level(l))
	}
	return domain.Unit{
		ID:   r.ID,
		Name: r.Name,
		Address: domain.Address{
			ZipCode:      r.CEP,
			Street:       r.Street,
			Number:       r.Number,
			Neighborhood: r.Neighborhood,
			City:         r.City,
			State:        r.State,
		},
		Pastor:           r.Pastor,
		Coordinator:      domain.Officer{Name: r.CoordinatorName, TaxID: r.CoordinatorCPF},
		Director:         officer(r.DirectorName, r.DirectorCPF),
		Secretary:        officer(r.SecretaryName, r.SecretaryCPF),
		Treasurer:        officer(r.TreasurerName, r.TreasurerCPF),
		Teachers:         list(r.Teachers),
		Assistants:       list(r.Assistants),
		CafeteriaWorkers: list(r.CafeteriaWorkers),
		AvailableLevels:  levels,
		Active:           r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// FromUnit converts a domain unit into a polos row.
func FromUnit(u domain.Unit) UnitRow {
	levels := make([]string, 0, len(u.AvailableLevels))
	for _, l := range u.AvailableLevels {
		levels = append(levels, string(l))
	}
	row := UnitRow{
		ID:               u.ID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
		Name:             u.Name,
		Street:           u.Address.Street,
		Number:           u.Address.Number,
		Neighborhood:     u.Address.Neighborhood,
		City:             u.Address.City,
		State:            u.Address.State,
		CEP:              u.Address.ZipCode,
		Pastor:           u.Pastor,
		CoordinatorName:  u.Coordinator.Name,
		CoordinatorCPF:   u.Coordinator.TaxID,
		Teachers:         list(u.Teachers),
		Assistants:       list(u.Assistants),
		CafeteriaWorkers: list(u.CafeteriaWorkers),
		AvailableLevels:  levels,
		IsActive:         u.Active,
	}
	row.DirectorName, row.DirectorCPF = officerColumns(u.Director)
	row.SecretaryName, row.SecretaryCPF = officerColumns(u.Secretary)
	row.TreasurerName, row.TreasurerCPF = officerColumns(u.Treasurer)
	return row
}

// ToEnrollment converts an enrollments row into a domain enrollment.
func ToEnrollment(r EnrollmentRow) domain.Enrollment {
	return domain.Enrollment{
		ID:                r.ID,
		PersonID:          r.StudentID,
		StudentName:       r.StudentName,
		Level:             domain.Level(r.Level),
		UnitID:            r.PoloID,
		UnitName:          r.PoloName,
		EnrollmentDate:    r.EnrollmentDate,
		Observations:      deref(r.Observations),
		Status:            domain.EnrollmentStatus(r.Status),
		CompletionDate:    r.CompletionDate,
		CertificateIssued: r.CertificateIssued,
		CertificateDate:   r.CertificateDate,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// FromEnrollment converts a domain enrollment into an enrollments row. An
// empty status becomes active.
func FromEnrollment(e domain.Enrollment) EnrollmentRow {
	status := e.Status
	if status == "" {
		status = domain.EnrollmentActive
	}
	return EnrollmentRow{
		ID:                e.ID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		StudentID:         e.PersonID,
		StudentName:       e.StudentName,
		Level:             string(e.Level),
		PoloID:            e.UnitID,
		PoloName:          e.UnitName,
		EnrollmentDate:    e.EnrollmentDate,
		Observations:      nullable(e.Observations),
		Status:            string(status),
		CompletionDate:    e.CompletionDate,
		CertificateIssued: e.CertificateIssued,
		CertificateDate:   e.CertificateDate,
	}
}

// ToAdmin converts an admin_users row into a domain admin identity.
func ToAdmin(r AdminRow) domain.AdminIdentity {
	return domain.AdminIdentity{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		TaxID:        r.CPF,
		Phone:        r.Phone,
		Role:         domain.Role(r.Role),
		AccessLevel:  domain.AccessLevel(r.AccessLevel),
		UnitID:       deref(r.PoloID),
		Active:       r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromAdmin converts a domain admin identity into an admin_users row.
func FromAdmin(a domain.AdminIdentity) AdminRow {
	return AdminRow{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		Name:         a.Name,
		Email:        a.Email,
		CPF:          a.TaxID,
		Phone:        a.Phone,
		Role:         string(a.Role),
		AccessLevel:  string(a.AccessLevel),
		PoloID:       nullable(a.UnitID),
		IsActive:     a.Active,
		PasswordHash: a.PasswordHash,
	}
}

// ToStaff converts a staff_members row into a domain staff member.
func ToStaff(r StaffRow) domain.StaffMember {
	return domain.StaffMember{
		ID:             r.ID,
		Name:           r.Name,
		TaxID:          r.CPF,
		Phone:          r.Phone,
		Email:          deref(r.Email),
		Role:           domain.Role(r.Role),
		UnitID:         r.PoloID,
		Active:         r.IsActive,
		Qualifications: list(r.Qualifications),
		HireDate:       r.HireDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// FromStaff converts a domain staff member into a staff_members row.
func FromStaff(s domain.StaffMember) StaffRow {
	return StaffRow{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Name:           s.Name,
		CPF:            s.TaxID,
		Phone:          s.Phone,
		Email:          nullable(s.Email),
		Role:           string(s.Role),
		PoloID:         s.UnitID,
		IsActive:       s.Active,
		Qualifications: list(s.Qualifications),
		HireDate:       s.HireDate,
	}
}

// ToCertificate converts a certificates row into a domain certificate.
func ToCertificate(r CertificateRow) domain.Certificate {
	return domain.Certificate{
		ID:             r.ID,
		PersonID:       r.StudentID,
		EnrollmentID:   r.EnrollmentID,
		UnitID:         r.PoloID,
		Number:         r.CertificateNumber,
		IssueDate:      r.IssueDate,
		Level:          domain.Level(r.Level),
		Grade:          r.Grade,
		HoursCompleted: int(r.HoursCompleted),
		Valid:          r.IsValid,
		CreatedAt:      r.CreatedAt,
	}
}

// FromCertificate converts a domain certificate into a certificates row.
func FromCertificate(c domain.Certificate) CertificateRow {
	return CertificateRow{
		ID:                c.ID,
		CreatedAt:         c.CreatedAt,
		StudentID:         c.PersonID,
		EnrollmentID:      c.EnrollmentID,
		CertificateNumber: c.Number,
		IssueDate:         c.IssueDate,
		Level:             string(c.Level),
		PoloID:            c.UnitID,
		Grade:             c.Grade,
		HoursCompleted:    int32(c.HoursCompleted),
		IsValid:           c.Valid,
	}
}

// ToSetting converts a system_settings row into a domain setting.
func ToSetting(r SettingRow) domain.Setting {
	return domain.Setting{
		ID:          r.ID,
		Key:         r.Key,
		Value:       r.Value,
		Description: deref(r.Description),
		Category:    r.Category,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromSetting converts a domain setting into a system_settings row.
func FromSetting(s domain.Setting) SettingRow {
	return SettingRow{
		ID:          s.ID,
		UpdatedAt:   s.UpdatedAt,
		Key:         s.Key,
		Value:       s.Value,
		Description: nullable(s.Description),
		Category:    s.Category,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// list never returns nil so absent arrays read and write as empty.
func list(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func officer(name, taxID *string) *domain.Officer {
	if name == nil || *name == "" {
		return nil
	}
	return &domain.Officer{Name: *name, TaxID: deref(taxID)}
}

func officerColumns(o *domain.Officer) (*string, *string) {
	if o == nil || o.Name == "" {
		return nil, nil
	}
	return nullable(o.Name), nullable(o.TaxID)
}
