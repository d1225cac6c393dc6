package service

import (
	"context"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/store"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

// EnrollmentService applies per-request access rules on top of the shared
// store for persons, units and enrollments.
type EnrollmentService struct {
	store *store.Store
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(st *store.Store) *EnrollmentService {
	return &EnrollmentService{store: st}
}

// ListPersons returns the cached persons. Students only see themselves.
func (s *EnrollmentService) ListPersons(actor *domain.Session) ([]domain.Person, error) {
	if actor.IsAdmin() {
		return s.store.Persons(), nil
	}
	if actor != nil && actor.Kind == domain.SessionStudent {
		if p, ok := s.store.Person(actor.SubjectID()); ok {
			return []domain.Person{p}, nil
		}
		return []domain.Person{}, nil
	}
	return nil, apperrors.NewUnauthorized("session required")
}

func (s *EnrollmentService) GetPerson(actor *domain.Session, id string) (domain.Person, error) {
	if !actor.IsAdmin() && actor.SubjectID() != id {
		return domain.Person{}, apperrors.NewForbidden("no access to person")
	}
	p, ok := s.store.Person(id)
	if !ok {
		return domain.Person{}, apperrors.NewNotFound("person", map[string]any{"id": id})
	}
	return p, nil
}

func (s *EnrollmentService) CreatePerson(ctx context.Context, actor *domain.Session, p domain.Person) (domain.Person, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Person{}, err
	}
	p.ID = ""
	p.Active = true
	p.SecretHash = ""
	created, err := s.store.AddPerson(ctx, p)
	return created, apperrors.MapError(err)
}

func (s *EnrollmentService) UpdatePerson(ctx context.Context, actor *domain.Session, id string, u domain.PersonUpdate) (domain.Person, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Person{}, err
	}
	updated, err := s.store.UpdatePerson(ctx, id, u)
	return updated, apperrors.MapError(err)
}

// RemovePerson deactivates a person. Only general admins may do so.
func (s *EnrollmentService) RemovePerson(ctx context.Context, actor *domain.Session, id string) error {
	if err := requireGeneral(actor); err != nil {
		return err
	}
	return apperrors.MapError(s.store.RemovePerson(ctx, id))
}

// ListUnits returns the units an admin may act on. Students see every
// active unit.
func (s *EnrollmentService) ListUnits(actor *domain.Session) ([]domain.Unit, error) {
	switch {
	case actor.IsAdmin():
		return access.FilterUnits(actor, s.store.Units()), nil
	case actor != nil && actor.Kind == domain.SessionStudent:
		return s.store.Units(), nil
	}
	return nil, apperrors.NewUnauthorized("session required")
}

func (s *EnrollmentService) GetUnit(actor *domain.Session, id string) (domain.Unit, error) {
	if actor.IsAdmin() && !access.HasAccessToUnit(actor, id) {
		return domain.Unit{}, apperrors.NewForbidden("no access to unit")
	}
	u, ok := s.store.Unit(id)
	if !ok {
		return domain.Unit{}, apperrors.NewNotFound("unit", map[string]any{"id": id})
	}
	return u, nil
}

func (s *EnrollmentService) CreateUnit(ctx context.Context, actor *domain.Session, u domain.Unit) (domain.Unit, error) {
	if err := requireGeneral(actor); err != nil {
		return domain.Unit{}, err
	}
	u.ID = ""
	u.Active = true
	created, err := s.store.AddUnit(ctx, u)
	return created, apperrors.MapError(err)
}

// UpdateUnit replaces the unit's mutable fields. Unit-specific admins may
// edit their own unit.
func (s *EnrollmentService) UpdateUnit(ctx context.Context, actor *domain.Session, id string, u domain.Unit) (domain.Unit, error) {
	if err := requireUnit(actor, id); err != nil {
		return domain.Unit{}, err
	}
	updated, err := s.store.UpdateUnit(ctx, id, u)
	return updated, apperrors.MapError(err)
}

func (s *EnrollmentService) RemoveUnit(ctx context.Context, actor *domain.Session, id string) error {
	if err := requireGeneral(actor); err != nil {
		return err
	}
	return apperrors.MapError(s.store.RemoveUnit(ctx, id))
}

// ListEnrollments returns the visible non-cancelled enrollments, optionally
// narrowed to one person or unit.
func (s *EnrollmentService) ListEnrollments(actor *domain.Session, personID, unitID string) ([]domain.Enrollment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("session required")
	}
	visible := access.FilterEnrollments(actor, s.store.Enrollments())
	out := make([]domain.Enrollment, 0, len(visible))
	for _, e := range visible {
		if personID != "" && e.PersonID != personID {
			continue
		}
		if unitID != "" && e.UnitID != unitID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *EnrollmentService) GetEnrollment(actor *domain.Session, id string) (domain.Enrollment, error) {
	e, ok := s.store.Enrollment(id)
	if !ok {
		return domain.Enrollment{}, apperrors.NewNotFound("enrollment", map[string]any{"id": id})
	}
	if !access.CanViewEnrollment(actor, e) {
		return domain.Enrollment{}, apperrors.NewForbidden("no access to enrollment")
	}
	return e, nil
}

// Enroll creates an enrollment in an accessible unit. The unit must offer
// the requested level and the person must be active.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *domain.Session, e domain.Enrollment) (domain.Enrollment, error) {
	if err := requireUnit(actor, e.UnitID); err != nil {
		return domain.Enrollment{}, err
	}
	unit, ok := s.store.Unit(e.UnitID)
	if !ok {
		return domain.Enrollment{}, apperrors.NewNotFound("unit", map[string]any{"id": e.UnitID})
	}
	if !unit.OffersLevel(e.Level) {
		return domain.Enrollment{}, apperrors.NewValidationError("level not offered by unit", map[string]any{"level": string(e.Level)})
	}
	if _, ok := s.store.Person(e.PersonID); !ok {
		return domain.Enrollment{}, apperrors.NewNotFound("person", map[string]any{"id": e.PersonID})
	}
	if e.Status == "" {
		e.Status = domain.EnrollmentActive
	}
	e.CertificateIssued = false
	e.CertificateDate = nil
	created, err := s.store.AddEnrollment(ctx, e)
	return created, apperrors.MapError(err)
}

func (s *EnrollmentService) UpdateEnrollment(ctx context.Context, actor *domain.Session, id string, u domain.EnrollmentUpdate) (domain.Enrollment, error) {
	current, ok := s.store.Enrollment(id)
	if !ok {
		return domain.Enrollment{}, apperrors.NewNotFound("enrollment", map[string]any{"id": id})
	}
	if err := requireUnit(actor, current.UnitID); err != nil {
		return domain.Enrollment{}, err
	}
	if u.Level != nil {
		unit, ok := s.store.Unit(current.UnitID)
		if ok && !unit.OffersLevel(*u.Level) {
			return domain.Enrollment{}, apperrors.NewValidationError("level not offered by unit", map[string]any{"level": string(*u.Level)})
		}
	}
	updated, err := s.store.UpdateEnrollment(ctx, id, u)
	return updated, apperrors.MapError(err)
}

func (s *EnrollmentService) CancelEnrollment(ctx context.Context, actor *domain.Session, id string) error {
	current, ok := s.store.Enrollment(id)
	if !ok {
		return apperrors.NewNotFound("enrollment", map[string]any{"id": id})
	}
	if err := requireUnit(actor, current.UnitID); err != nil {
		return err
	}
	return apperrors.MapError(s.store.CancelEnrollment(ctx, id))
}
