package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	"github.com/spec-kit/enrollment-service/internal/store"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

const maxNumberAttempts = 5

// CertificateService issues and invalidates completion certificates.
type CertificateService struct {
	certs  repository.CertificateRepository
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
	intN   func(n int) int
}

// NewCertificateService wires the repository and the enrollment store.
func NewCertificateService(certs repository.CertificateRepository, st *store.Store, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{
		certs:  certs,
		store:  st,
		logger: logger,
		now:    time.Now,
		intN:   rand.Intn,
	}
}

// IssueInput describes a certificate request.
type IssueInput struct {
	EnrollmentID   string
	Grade          float64
	HoursCompleted int
	IssueDate      time.Time
}

// Issue creates a certificate for an enrollment and flags the enrollment as
// certified. Active enrollments are completed on the issue date.
func (s *CertificateService) Issue(ctx context.Context, actor *domain.Session, in IssueInput) (domain.Certificate, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Certificate{}, err
	}
	enrollment, ok := s.store.Enrollment(in.EnrollmentID)
	if !ok {
		return domain.Certificate{}, apperrors.NewNotFound("enrollment", map[string]any{"id": in.EnrollmentID})
	}
	if err := requireUnit(actor, enrollment.UnitID); err != nil {
		return domain.Certificate{}, err
	}
	if enrollment.CertificateIssued {
		return domain.Certificate{}, apperrors.NewConflict("certificate already issued", map[string]any{"enrollment_id": enrollment.ID})
	}
	if in.Grade < 0 || in.Grade > 10 {
		return domain.Certificate{}, apperrors.NewValidationError("grade must be between 0 and 10", map[string]any{"grade": in.Grade})
	}
	if in.HoursCompleted < 0 {
		return domain.Certificate{}, apperrors.NewValidationError("hours must not be negative", map[string]any{"hours_completed": in.HoursCompleted})
	}
	issued := in.IssueDate
	if issued.IsZero() {
		issued = s.now()
	}
	issued = time.Date(issued.Year(), issued.Month(), issued.Day(), 0, 0, 0, 0, time.UTC)

	cert := domain.Certificate{
		PersonID:       enrollment.PersonID,
		EnrollmentID:   enrollment.ID,
		UnitID:         enrollment.UnitID,
		IssueDate:      issued,
		Level:          enrollment.Level,
		Grade:          math.Round(in.Grade*10) / 10,
		HoursCompleted: in.HoursCompleted,
		Valid:          true,
	}

	var (
		row record.CertificateRow
		err error
	)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		cert.Number = fmt.Sprintf("IBUC-%d-%04d", issued.Year(), s.intN(10000))
		row, err = s.certs.Create(ctx, record.FromCertificate(cert))
		if !numberTaken(err) {
			break
		}
		s.logger.Debug("certificate number taken", zap.String("number", cert.Number))
	}
	if err != nil {
		return domain.Certificate{}, apperrors.MapError(err)
	}

	certified := true
	update := domain.EnrollmentUpdate{CertificateIssued: &certified, CertificateDate: &issued}
	if enrollment.Status == domain.EnrollmentActive {
		completed := domain.EnrollmentCompleted
		update.Status = &completed
		update.CompletionDate = &issued
	}
	if _, err := s.store.UpdateEnrollment(ctx, enrollment.ID, update); err != nil {
		s.logger.Error("flag enrollment certified", zap.String("enrollment_id", enrollment.ID), zap.Error(err))
		s.revoke(ctx, row)
		return domain.Certificate{}, apperrors.MapError(err)
	}
	return record.ToCertificate(row), nil
}

// revoke invalidates a certificate whose enrollment could not be flagged, so
// a retried Issue does not leave two valid certificates behind.
func (s *CertificateService) revoke(ctx context.Context, row record.CertificateRow) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := s.certs.SoftDelete(ctx, row.ID); err != nil {
		s.logger.Error("revoke orphaned certificate",
			zap.String("certificate_id", row.ID),
			zap.String("number", row.CertificateNumber),
			zap.Error(err))
		return
	}
	s.logger.Warn("orphaned certificate revoked", zap.String("number", row.CertificateNumber))
}

func numberTaken(err error) bool {
	if !errors.Is(err, repository.ErrConstraintViolation) {
		return false
	}
	name, _ := repository.ConstraintName(err)
	return strings.Contains(name, "certificate_number")
}

// List returns the valid certificates the actor may see. Students see their
// own.
func (s *CertificateService) List(ctx context.Context, actor *domain.Session) ([]domain.Certificate, error) {
	var (
		rows []record.CertificateRow
		err  error
	)
	switch {
	case actor.IsAdmin():
		rows, err = s.certs.ListActive(ctx)
	case actor != nil && actor.Kind == domain.SessionStudent:
		rows, err = s.certs.ListByPerson(ctx, actor.SubjectID())
	default:
		return nil, apperrors.NewUnauthorized("session required")
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	certs := make([]domain.Certificate, 0, len(rows))
	for _, row := range rows {
		if actor.IsAdmin() && !access.HasAccessToUnit(actor, row.PoloID) {
			continue
		}
		certs = append(certs, record.ToCertificate(row))
	}
	return certs, nil
}

// Verify looks up a valid certificate by its public number.
func (s *CertificateService) Verify(ctx context.Context, number string) (domain.Certificate, error) {
	row, err := s.certs.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return domain.Certificate{}, apperrors.MapError(err)
	}
	if !row.IsValid {
		return domain.Certificate{}, apperrors.NewNotFound("certificate", map[string]any{"number": number})
	}
	return record.ToCertificate(row), nil
}

// Invalidate revokes a certificate of an accessible unit.
func (s *CertificateService) Invalidate(ctx context.Context, actor *domain.Session, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	row, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := requireUnit(actor, row.PoloID); err != nil {
		return err
	}
	if _, err := s.certs.SoftDelete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
