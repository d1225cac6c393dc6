package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// LoadAll fetches persons, units and enrollments concurrently. Each
// collection is replaced only when its own fetch succeeds; failures are
// logged and leave the previous collection in place.
func (s *Store) LoadAll(ctx context.Context) {
	s.mu.Lock()
	s.loads++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loads--
		s.mu.Unlock()
	}()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.loadPersons(ctx)
	}()
	go func() {
		defer wg.Done()
		s.loadUnits(ctx)
	}()
	go func() {
		defer wg.Done()
		s.loadEnrollments(ctx)
	}()
	wg.Wait()
}

// Refresh re-synchronizes the projection with the remote store.
func (s *Store) Refresh(ctx context.Context) {
	s.LoadAll(ctx)
}

func (s *Store) loadPersons(ctx context.Context) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	rows, err := s.remote.Persons.ListActive(rctx)
	s.metrics.RecordRefresh(record.TablePersons, err)
	if err != nil {
		s.logger.Error("load persons failed", zap.Error(err))
		return
	}
	persons := make([]domain.Person, 0, len(rows))
	for _, row := range rows {
		persons = append(persons, withoutSecret(record.ToPerson(row)))
	}
	s.mu.Lock()
	s.persons = persons
	s.mu.Unlock()
}

func (s *Store) loadUnits(ctx context.Context) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	rows, err := s.remote.Units.ListActive(rctx)
	s.metrics.RecordRefresh(record.TableUnits, err)
	if err != nil {
		s.logger.Error("load units failed", zap.Error(err))
		return
	}
	units := make([]domain.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, record.ToUnit(row))
	}
	s.mu.Lock()
	s.units = units
	s.mu.Unlock()
}

func (s *Store) loadEnrollments(ctx context.Context) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	rows, err := s.remote.Enrollments.ListActive(rctx)
	s.metrics.RecordRefresh(record.TableEnrollments, err)
	if err != nil {
		s.logger.Error("load enrollments failed", zap.Error(err))
		return
	}
	enrollments := make([]domain.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, record.ToEnrollment(row))
	}
	s.mu.Lock()
	s.enrollments = enrollments
	s.mu.Unlock()
}
