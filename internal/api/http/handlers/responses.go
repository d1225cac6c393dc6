package handlers

import (
	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/domain"
)

func addressDTO(a domain.Address) dto.AddressDTO {
	return dto.AddressDTO{
		ZipCode:      a.ZipCode,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

func addressDomain(a dto.AddressDTO) domain.Address {
	return domain.Address{
		ZipCode:      a.ZipCode,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

func guardiansDTO(g domain.Guardians) dto.GuardiansDTO {
	return dto.GuardiansDTO{
		FatherName:  g.FatherName,
		MotherName:  g.MotherName,
		Phone:       g.Phone,
		Email:       g.Email,
		FatherTaxID: g.FatherTaxID,
		MotherTaxID: g.MotherTaxID,
	}
}

func guardiansDomain(g dto.GuardiansDTO) domain.Guardians {
	return domain.Guardians{
		FatherName:  g.FatherName,
		MotherName:  g.MotherName,
		Phone:       g.Phone,
		Email:       g.Email,
		FatherTaxID: g.FatherTaxID,
		MotherTaxID: g.MotherTaxID,
	}
}

func personResponse(p domain.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:        p.ID,
		Name:      p.Name,
		BirthDate: dto.NewDate(p.BirthDate),
		TaxID:     p.TaxID,
		Gender:    string(p.Gender),
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   addressDTO(p.Address),
		Guardians: guardiansDTO(p.Guardians),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func officerDTO(o *domain.Officer) *dto.OfficerDTO {
	if o == nil {
		return nil
	}
	return &dto.OfficerDTO{Name: o.Name, TaxID: o.TaxID}
}

func officerDomain(o *dto.OfficerDTO) *domain.Officer {
	if o == nil || o.Name == "" {
		return nil
	}
	return &domain.Officer{Name: o.Name, TaxID: o.TaxID}
}

func unitResponse(u domain.Unit) dto.UnitResponse {
	levels := make([]string, 0, len(u.AvailableLevels))
	for _, l := range u.AvailableLevels {
		levels = append(levels, string(l))
	}
	return dto.UnitResponse{
		ID:               u.ID,
		Name:             u.Name,
		Address:          addressDTO(u.Address),
		Pastor:           u.Pastor,
		Coordinator:      dto.OfficerDTO{Name: u.Coordinator.Name, TaxID: u.Coordinator.TaxID},
		Director:         officerDTO(u.Director),
		Secretary:        officerDTO(u.Secretary),
		Treasurer:        officerDTO(u.Treasurer),
		Teachers:         nonNil(u.Teachers),
		Assistants:       nonNil(u.Assistants),
		CafeteriaWorkers: nonNil(u.CafeteriaWorkers),
		AvailableLevels:  levels,
		Active:           u.Active,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func unitDomain(req dto.UnitRequest) domain.Unit {
	levels := make([]domain.Level, 0, len(req.AvailableLevels))
	for _, l := range req.AvailableLevels {
		levels = append(levels, domain.Level(l))
	}
	return domain.Unit{
		Name:             req.Name,
		Address:          addressDomain(req.Address),
		Pastor:           req.Pastor,
		Coordinator:      domain.Officer{Name: req.Coordinator.Name, TaxID: req.Coordinator.TaxID},
		Director:         officerDomain(req.Director),
		Secretary:        officerDomain(req.Secretary),
		Treasurer:        officerDomain(req.Treasurer),
		Teachers:         req.Teachers,
		Assistants:       req.Assistants,
		CafeteriaWorkers: req.CafeteriaWorkers,
		AvailableLevels:  levels,
	}
}

func enrollmentResponse(e domain.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:                e.ID,
		PersonID:          e.PersonID,
		StudentName:       e.StudentName,
		Level:             string(e.Level),
		LevelLabel:        e.Level.Label(),
		UnitID:            e.UnitID,
		UnitName:          e.UnitName,
		EnrollmentDate:    dto.NewDate(e.EnrollmentDate),
		Observations:      e.Observations,
		Status:            string(e.Status),
		CompletionDate:    dto.DatePtr(e.CompletionDate),
		CertificateIssued: e.CertificateIssued,
		CertificateDate:   dto.DatePtr(e.CertificateDate),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func certificateResponse(c domain.Certificate) dto.CertificateResponse {
	return dto.CertificateResponse{
		ID:             c.ID,
		Number:         c.Number,
		PersonID:       c.PersonID,
		EnrollmentID:   c.EnrollmentID,
		UnitID:         c.UnitID,
		IssueDate:      dto.NewDate(c.IssueDate),
		Level:          string(c.Level),
		Grade:          c.Grade,
		HoursCompleted: c.HoursCompleted,
		Valid:          c.Valid,
	}
}

func adminResponse(a domain.AdminIdentity) dto.AdminResponse {
	return dto.AdminResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		TaxID:       a.TaxID,
		Phone:       a.Phone,
		Role:        string(a.Role),
		AccessLevel: string(a.AccessLevel),
		UnitID:      a.UnitID,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
	}
}

func staffResponse(m domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:             m.ID,
		Name:           m.Name,
		TaxID:          m.TaxID,
		Phone:          m.Phone,
		Email:          m.Email,
		Role:           string(m.Role),
		UnitID:         m.UnitID,
		Active:         m.Active,
		Qualifications: nonNil(m.Qualifications),
		HireDate:       dto.NewDate(m.HireDate),
	}
}

func settingResponse(s domain.Setting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		Category:    s.Category,
		UpdatedAt:   s.UpdatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, item := range in {
		out = append(out, fn(item))
	}
	return out
}
