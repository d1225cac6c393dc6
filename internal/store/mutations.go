package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/events"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// AddPerson creates an active person and appends it to the projection.
func (s *Store) AddPerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	p.ID = ""
	p.Active = true

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	row, err := s.remote.Persons.Create(rctx, record.FromPerson(p))
	if err != nil {
		s.logger.Warn("create person failed", zap.Error(err))
		return domain.Person{}, err
	}

	created := withoutSecret(record.ToPerson(row))
	s.mu.Lock()
	s.persons = upsert(s.persons, created, personID)
	s.mu.Unlock()
	s.publish(ctx, record.TablePersons, events.EventInsert, created.ID)
	return created, nil
}

// UpdatePerson applies a partial change and replaces the cached person.
func (s *Store) UpdatePerson(ctx context.Context, id string, u domain.PersonUpdate) (domain.Person, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	row, err := s.remote.Persons.Update(rctx, id, record.PersonPatchFrom(u))
	if err != nil {
		s.logger.Warn("update person failed", zap.String("id", id), zap.Error(err))
		return domain.Person{}, err
	}

	updated := withoutSecret(record.ToPerson(row))
	s.mu.Lock()
	if updated.Active {
		s.persons = upsert(s.persons, updated, personID)
	}
	s.mu.Unlock()
	s.publish(ctx, record.TablePersons, events.EventUpdate, id)
	return updated, nil
}

// RemovePerson marks the person inactive and drops it from the projection.
// Removing an already inactive person succeeds again.
func (s *Store) RemovePerson(ctx context.Context, id string) error {
	if err := s.softDelete(ctx, s.remote.Persons.SoftDelete, record.TablePersons, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.persons = without(s.persons, id, personID)
	s.mu.Unlock()
	s.publish(ctx, record.TablePersons, events.EventUpdate, id)
	return nil
}

// AddUnit creates an active unit and appends it to the projection.
func (s *Store) AddUnit(ctx context.Context, u domain.Unit) (domain.Unit, error) {
	u.ID = ""
	u.Active = true

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	row, err := s.remote.Units.Create(rctx, record.FromUnit(u))
	if err != nil {
		s.logger.Warn("create unit failed", zap.Error(err))
		return domain.Unit{}, err
	}

	created := record.ToUnit(row)
	s.mu.Lock()
	s.units = upsert(s.units, created, unitID)
	s.mu.Unlock()
	s.publish(ctx, record.TableUnits, events.EventInsert, created.ID)
	return created, nil
}

// UpdateUnit rewrites every mutable field of the unit. The active flag is
// only changed through RemoveUnit.
func (s *Store) UpdateUnit(ctx context.Context, id string, u domain.Unit) (domain.Unit, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	row, err := s.remote.Units.Update(rctx, id, record.UnitPatchFrom(u).Without("is_active"))
	if err != nil {
		s.logger.Warn("update unit failed", zap.String("id", id), zap.Error(err))
		return domain.Unit{}, err
	}

	updated := record.ToUnit(row)
	s.mu.Lock()
	if updated.Active {
		s.units = upsert(s.units, updated, unitID)
	}
	s.mu.Unlock()
	s.publish(ctx, record.TableUnits, events.EventUpdate, id)
	return updated, nil
}

// RemoveUnit marks the unit inactive and drops it from the projection.
func (s *Store) RemoveUnit(ctx context.Context, id string) error {
	if err := s.softDelete(ctx, s.remote.Units.SoftDelete, record.TableUnits, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.units = without(s.units, id, unitID)
	s.mu.Unlock()
	s.publish(ctx, record.TableUnits, events.EventUpdate, id)
	return nil
}

// AddEnrollment creates an enrollment. The unit name snapshot comes from the
// cached unit and is empty when the unit is not cached; a blank student name
// is filled from the cached person the same way.
func (s *Store) AddEnrollment(ctx context.Context, e domain.Enrollment) (domain.Enrollment, error) {
	e.ID = ""
	e.UnitName = ""
	if unit, ok := s.Unit(e.UnitID); ok {
		e.UnitName = unit.Name
	}
	if e.StudentName == "" {
		if person, ok := s.Person(e.PersonID); ok {
			e.StudentName = person.Name
		}
	}
	if e.EnrollmentDate.IsZero() {
		e.EnrollmentDate = time.Now().UTC()
	}

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	row, err := s.remote.Enrollments.Create(rctx, record.FromEnrollment(e))
	if err != nil {
		s.logger.Warn("create enrollment failed", zap.Error(err))
		return domain.Enrollment{}, err
	}

	created := record.ToEnrollment(row)
	s.mu.Lock()
	if created.Status != domain.EnrollmentCancelled {
		s.enrollments = upsert(s.enrollments, created, enrollmentID)
	}
	s.mu.Unlock()
	s.publish(ctx, record.TableEnrollments, events.EventInsert, created.ID)
	return created, nil
}

// UpdateEnrollment applies a partial change. Enrollments that end up
// cancelled leave the projection.
func (s *Store) UpdateEnrollment(ctx context.Context, id string, u domain.EnrollmentUpdate) (domain.Enrollment, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	row, err := s.remote.Enrollments.Update(rctx, id, record.EnrollmentPatchFrom(u))
	if err != nil {
		s.logger.Warn("update enrollment failed", zap.String("id", id), zap.Error(err))
		return domain.Enrollment{}, err
	}

	updated := record.ToEnrollment(row)
	s.mu.Lock()
	if updated.Status == domain.EnrollmentCancelled {
		s.enrollments = without(s.enrollments, id, enrollmentID)
	} else {
		s.enrollments = upsert(s.enrollments, updated, enrollmentID)
	}
	s.mu.Unlock()
	s.publish(ctx, record.TableEnrollments, events.EventUpdate, id)
	return updated, nil
}

// CancelEnrollment sets the enrollment status to cancelled.
func (s *Store) CancelEnrollment(ctx context.Context, id string) error {
	if err := s.softDelete(ctx, s.remote.Enrollments.SoftDelete, record.TableEnrollments, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.enrollments = without(s.enrollments, id, enrollmentID)
	s.mu.Unlock()
	s.publish(ctx, record.TableEnrollments, events.EventUpdate, id)
	return nil
}

func (s *Store) softDelete(ctx context.Context, remove func(context.Context, string) (bool, error), table, id string) error {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	matched, err := remove(rctx, id)
	if err != nil {
		s.logger.Warn("soft delete failed", zap.String("table", table), zap.String("id", id), zap.Error(err))
		return err
	}
	if !matched {
		return fmt.Errorf("%s soft_delete %s: %w", table, id, repository.ErrNotFound)
	}
	return nil
}
