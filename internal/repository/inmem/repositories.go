package inmem

import (
	"context"
	"strings"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
)

type personRepository struct{ db *DB }

func (r *personRepository) ListActive(context.Context) ([]record.PersonRow, error) {
	return r.db.persons.list(
		func(p record.PersonRow) bool { return p.IsActive },
		func(a, b record.PersonRow) bool { return a.Name < b.Name },
	), nil
}

func (r *personRepository) GetByID(_ context.Context, id string) (record.PersonRow, error) {
	return r.db.persons.get("get_by_id", id)
}

func (r *personRepository) GetByTaxID(_ context.Context, cpf string) (record.PersonRow, error) {
	return r.db.persons.find("get_by_cpf", func(p record.PersonRow) bool {
		return p.IsActive && p.CPF == cpf
	})
}

func (r *personRepository) Create(_ context.Context, row record.PersonRow) (record.PersonRow, error) {
	return r.db.persons.insert(row)
}

func (r *personRepository) Update(_ context.Context, id string, patch record.Patch) (record.PersonRow, error) {
	return r.db.persons.update("update", id, patch.Without("cpf"))
}

func (r *personRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	return r.db.persons.mark("soft_delete", id, record.Patch{{Column: "is_active", Value: false}})
}

type unitRepository struct{ db *DB }

func (r *unitRepository) ListActive(context.Context) ([]record.UnitRow, error) {
	return r.db.units.list(
		func(u record.UnitRow) bool { return u.IsActive },
		func(a, b record.UnitRow) bool { return a.Name < b.Name },
	), nil
}

func (r *unitRepository) GetByID(_ context.Context, id string) (record.UnitRow, error) {
	return r.db.units.get("get_by_id", id)
}

func (r *unitRepository) Create(_ context.Context, row record.UnitRow) (record.UnitRow, error) {
	return r.db.units.insert(row)
}

func (r *unitRepository) Update(_ context.Context, id string, patch record.Patch) (record.UnitRow, error) {
	return r.db.units.update("update", id, patch)
}

func (r *unitRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	return r.db.units.mark("soft_delete", id, record.Patch{{Column: "is_active", Value: false}})
}

type adminRepository struct{ db *DB }

func (r *adminRepository) ListActive(context.Context) ([]record.AdminRow, error) {
	return r.db.admins.list(
		func(a record.AdminRow) bool { return a.IsActive },
		func(a, b record.AdminRow) bool { return a.Name < b.Name },
	), nil
}

func (r *adminRepository) GetByID(_ context.Context, id string) (record.AdminRow, error) {
	return r.db.admins.get("get_by_id", id)
}

func (r *adminRepository) GetByEmail(_ context.Context, email string) (record.AdminRow, error) {
	return r.db.admins.find("get_by_email", func(a record.AdminRow) bool {
		return a.IsActive && strings.EqualFold(a.Email, email)
	})
}

func (r *adminRepository) Create(_ context.Context, row record.AdminRow) (record.AdminRow, error) {
	return r.db.admins.insert(row)
}

func (r *adminRepository) Update(_ context.Context, id string, patch record.Patch) (record.AdminRow, error) {
	return r.db.admins.update("update", id, patch)
}

func (r *adminRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	return r.db.admins.mark("soft_delete", id, record.Patch{{Column: "is_active", Value: false}})
}

type staffRepository struct{ db *DB }

func (r *staffRepository) ListActive(context.Context) ([]record.StaffRow, error) {
	return r.db.staff.list(
		func(s record.StaffRow) bool { return s.IsActive },
		func(a, b record.StaffRow) bool { return a.Name < b.Name },
	), nil
}

func (r *staffRepository) ListByUnit(_ context.Context, unitID string) ([]record.StaffRow, error) {
	return r.db.staff.list(
		func(s record.StaffRow) bool { return s.IsActive && s.PoloID == unitID },
		func(a, b record.StaffRow) bool { return a.Name < b.Name },
	), nil
}

func (r *staffRepository) GetByID(_ context.Context, id string) (record.StaffRow, error) {
	return r.db.staff.get("get_by_id", id)
}

func (r *staffRepository) GetByTaxID(_ context.Context, cpf string) (record.StaffRow, error) {
	return r.db.staff.find("get_by_cpf", func(s record.StaffRow) bool { return s.CPF == cpf })
}

func (r *staffRepository) Create(_ context.Context, row record.StaffRow) (record.StaffRow, error) {
	return r.db.staff.insert(row)
}

func (r *staffRepository) Update(_ context.Context, id string, patch record.Patch) (record.StaffRow, error) {
	return r.db.staff.update("update", id, patch)
}

func (r *staffRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	return r.db.staff.mark("soft_delete", id, record.Patch{{Column: "is_active", Value: false}})
}

type enrollmentRepository struct{ db *DB }

func notCancelled(e record.EnrollmentRow) bool {
	return e.Status != string(domain.EnrollmentCancelled)
}

func byStudentName(a, b record.EnrollmentRow) bool { return a.StudentName < b.StudentName }

func (r *enrollmentRepository) ListActive(context.Context) ([]record.EnrollmentRow, error) {
	return r.db.enrollments.list(notCancelled, byStudentName), nil
}

func (r *enrollmentRepository) ListByPerson(_ context.Context, personID string) ([]record.EnrollmentRow, error) {
	return r.db.enrollments.list(
		func(e record.EnrollmentRow) bool { return e.StudentID == personID },
		func(a, b record.EnrollmentRow) bool { return a.EnrollmentDate.After(b.EnrollmentDate) },
	), nil
}

func (r *enrollmentRepository) ListByUnit(_ context.Context, unitID string) ([]record.EnrollmentRow, error) {
	return r.db.enrollments.list(
		func(e record.EnrollmentRow) bool { return notCancelled(e) && e.PoloID == unitID },
		byStudentName,
	), nil
}

func (r *enrollmentRepository) GetByID(_ context.Context, id string) (record.EnrollmentRow, error) {
	return r.db.enrollments.get("get_by_id", id)
}

func (r *enrollmentRepository) Create(_ context.Context, row record.EnrollmentRow) (record.EnrollmentRow, error) {
	return r.db.enrollments.insert(row)
}

func (r *enrollmentRepository) Update(_ context.Context, id string, patch record.Patch) (record.EnrollmentRow, error) {
	return r.db.enrollments.update("update", id, patch)
}

func (r *enrollmentRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	return r.db.enrollments.mark("cancel", id, record.Patch{{Column: "status", Value: string(domain.EnrollmentCancelled)}})
}

type certificateRepository struct{ db *DB }

func byIssueDateDesc(a, b record.CertificateRow) bool { return a.IssueDate.After(b.IssueDate) }

func (r *certificateRepository) ListActive(context.Context) ([]record.CertificateRow, error) {
	return r.db.certificates.list(func(c record.CertificateRow) bool { return c.IsValid }, byIssueDateDesc), nil
}

func (r *certificateRepository) ListByPerson(_ context.Context, personID string) ([]record.CertificateRow, error) {
	return r.db.certificates.list(func(c record.CertificateRow) bool {
		return c.IsValid && c.StudentID == personID
	}, byIssueDateDesc), nil
}

func (r *certificateRepository) GetByID(_ context.Context, id string) (record.CertificateRow, error) {
	return r.db.certificates.get("get_by_id", id)
}

func (r *certificateRepository) GetByNumber(_ context.Context, number string) (record.CertificateRow, error) {
	return r.db.certificates.find("get_by_number", func(c record.CertificateRow) bool {
		return c.CertificateNumber == number
	})
}

func (r *certificateRepository) Create(_ context.Context, row record.CertificateRow) (record.CertificateRow, error) {
	return r.db.certificates.insert(row)
}

func (r *certificateRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	return r.db.certificates.mark("invalidate", id, record.Patch{{Column: "is_valid", Value: false}})
}

type settingRepository struct{ db *DB }

func (r *settingRepository) List(context.Context) ([]record.SettingRow, error) {
	return r.db.settings.list(nil, func(a, b record.SettingRow) bool {
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Key < b.Key
	}), nil
}

func (r *settingRepository) GetByKey(_ context.Context, key string) (record.SettingRow, error) {
	return r.db.settings.find("get_by_key", func(s record.SettingRow) bool { return s.Key == key })
}

func (r *settingRepository) GetValue(ctx context.Context, key, fallback string) (string, error) {
	row, err := r.GetByKey(ctx, key)
	if err != nil || row.Value == "" {
		return fallback, nil
	}
	return row.Value, nil
}

func (r *settingRepository) Upsert(ctx context.Context, row record.SettingRow) (record.SettingRow, error) {
	existing, err := r.GetByKey(ctx, row.Key)
	if err != nil {
		return r.db.settings.insert(row)
	}
	return r.db.settings.update("upsert", existing.ID, record.Patch{
		{Column: "value", Value: row.Value},
		{Column: "description", Value: row.Description},
		{Column: "category", Value: row.Category},
	})
}

type statsRepository struct{ db *DB }

func (r *statsRepository) Counts(context.Context) (domain.Stats, error) {
	withStatus := func(status domain.EnrollmentStatus) func(record.EnrollmentRow) bool {
		return func(e record.EnrollmentRow) bool { return e.Status == string(status) }
	}
	return domain.Stats{
		ActivePersons:        int64(len(r.db.persons.list(func(p record.PersonRow) bool { return p.IsActive }, nil))),
		ActiveUnits:          int64(len(r.db.units.list(func(u record.UnitRow) bool { return u.IsActive }, nil))),
		ActiveEnrollments:    int64(len(r.db.enrollments.list(withStatus(domain.EnrollmentActive), nil))),
		CompletedEnrollments: int64(len(r.db.enrollments.list(withStatus(domain.EnrollmentCompleted), nil))),
		ValidCertificates:    int64(len(r.db.certificates.list(func(c record.CertificateRow) bool { return c.IsValid }, nil))),
	}, nil
}

func (r *statsRepository) ByUnit(context.Context) ([]domain.UnitStats, error) {
	units := r.db.units.list(
		func(u record.UnitRow) bool { return u.IsActive },
		func(a, b record.UnitRow) bool { return a.Name < b.Name },
	)
	enrollments := r.db.enrollments.list(nil, nil)

	out := make([]domain.UnitStats, 0, len(units))
	for _, u := range units {
		stats := domain.UnitStats{UnitID: u.ID, UnitName: u.Name}
		for _, e := range enrollments {
			if e.PoloID != u.ID {
				continue
			}
			switch domain.EnrollmentStatus(e.Status) {
			case domain.EnrollmentActive:
				stats.ActiveEnrollments++
			case domain.EnrollmentCompleted:
				stats.CompletedEnrollments++
			}
		}
		out = append(out, stats)
	}
	return out, nil
}
