package service

import (
	"context"
	"time"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

// StaffService manages admin identities and staff members.
type StaffService struct {
	admins     repository.AdminRepository
	staff      repository.StaffRepository
	units      repository.UnitRepository
	bcryptCost int
}

// StaffDependencies encapsulates repositories required for staff management.
type StaffDependencies struct {
	AdminRepo repository.AdminRepository
	StaffRepo repository.StaffRepository
	UnitRepo  repository.UnitRepository
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		admins:     deps.AdminRepo,
		staff:      deps.StaffRepo,
		units:      deps.UnitRepo,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// AdminInput describes a new admin identity.
type AdminInput struct {
	Name        string
	Email       string
	TaxID       string
	Phone       string
	Role        domain.Role
	AccessLevel domain.AccessLevel
	UnitID      string
	Password    string
}

// AdminUpdate is a partial change to an admin identity.
type AdminUpdate struct {
	Name        *string
	Phone       *string
	Role        *domain.Role
	AccessLevel *domain.AccessLevel
	UnitID      *string
	Password    *string
}

// StaffUpdate is a partial change to a staff member.
type StaffUpdate struct {
	Name           *string
	Phone          *string
	Email          *string
	Role           *domain.Role
	UnitID         *string
	Qualifications []string
}

func (s *StaffService) requireActiveUnit(ctx context.Context, unitID string) error {
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !unit.IsActive {
		return apperrors.NewConflict("unit inactive", map[string]any{"unit_id": unitID})
	}
	return nil
}

// ListAdmins returns active admin identities.
func (s *StaffService) ListAdmins(ctx context.Context, actor *domain.Session) ([]domain.AdminIdentity, error) {
	if err := requireGeneral(actor); err != nil {
		return nil, err
	}
	rows, err := s.admins.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	admins := make([]domain.AdminIdentity, 0, len(rows))
	for _, row := range rows {
		admins = append(admins, record.ToAdmin(row))
	}
	return admins, nil
}

// CreateAdmin adds an admin identity with a hashed credential.
func (s *StaffService) CreateAdmin(ctx context.Context, actor *domain.Session, in AdminInput) (domain.AdminIdentity, error) {
	if err := requireGeneral(actor); err != nil {
		return domain.AdminIdentity{}, err
	}
	if len(in.Password) < minPasswordLength {
		return domain.AdminIdentity{}, apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	if in.AccessLevel == domain.AccessUnitSpecific && in.UnitID != "" {
		if err := s.requireActiveUnit(ctx, in.UnitID); err != nil {
			return domain.AdminIdentity{}, err
		}
	}
	if in.AccessLevel == domain.AccessGeneral {
		in.UnitID = ""
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return domain.AdminIdentity{}, apperrors.NewInternalError(err)
	}
	row, err := s.admins.Create(ctx, record.FromAdmin(domain.AdminIdentity{
		Name:         in.Name,
		Email:        in.Email,
		TaxID:        in.TaxID,
		Phone:        in.Phone,
		Role:         in.Role,
		AccessLevel:  in.AccessLevel,
		UnitID:       in.UnitID,
		Active:       true,
		PasswordHash: hash,
	}))
	if err != nil {
		return domain.AdminIdentity{}, apperrors.MapError(err)
	}
	return record.ToAdmin(row), nil
}

// UpdateAdmin applies a partial change. The result must still satisfy the
// admin row rules, so moving to unit-specific access needs a unit.
func (s *StaffService) UpdateAdmin(ctx context.Context, actor *domain.Session, id string, u AdminUpdate) (domain.AdminIdentity, error) {
	if err := requireGeneral(actor); err != nil {
		return domain.AdminIdentity{}, err
	}
	current, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return domain.AdminIdentity{}, apperrors.MapError(err)
	}

	merged := current
	var patch record.Patch
	if u.Name != nil {
		merged.Name = *u.Name
		patch.Set("name", *u.Name)
	}
	if u.Phone != nil {
		merged.Phone = *u.Phone
		patch.Set("phone", *u.Phone)
	}
	if u.Role != nil {
		merged.Role = string(*u.Role)
		patch.Set("role", string(*u.Role))
	}
	if u.AccessLevel != nil {
		merged.AccessLevel = string(*u.AccessLevel)
		patch.Set("access_level", string(*u.AccessLevel))
		if *u.AccessLevel == domain.AccessGeneral && u.UnitID == nil {
			empty := ""
			u.UnitID = &empty
		}
	}
	if u.UnitID != nil {
		var unitID *string
		if *u.UnitID != "" {
			if err := s.requireActiveUnit(ctx, *u.UnitID); err != nil {
				return domain.AdminIdentity{}, err
			}
			unitID = u.UnitID
		}
		merged.PoloID = unitID
		patch.Set("polo_id", unitID)
	}
	if u.Password != nil {
		if len(*u.Password) < minPasswordLength {
			return domain.AdminIdentity{}, apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
		}
		hash, err := auth.HashPassword(*u.Password, s.bcryptCost)
		if err != nil {
			return domain.AdminIdentity{}, apperrors.NewInternalError(err)
		}
		merged.PasswordHash = hash
		patch.Set("password_hash", hash)
	}
	if err := record.Validate(record.TableAdmins, merged); err != nil {
		return domain.AdminIdentity{}, apperrors.MapError(err)
	}

	row, err := s.admins.Update(ctx, id, patch)
	if err != nil {
		return domain.AdminIdentity{}, apperrors.MapError(err)
	}
	return record.ToAdmin(row), nil
}

// DeactivateAdmin marks an admin inactive. Admins cannot deactivate
// themselves.
func (s *StaffService) DeactivateAdmin(ctx context.Context, actor *domain.Session, id string) error {
	if err := requireGeneral(actor); err != nil {
		return err
	}
	if actor.SubjectID() == id {
		return apperrors.NewConflict("cannot deactivate own account", nil)
	}
	matched, err := s.admins.SoftDelete(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !matched {
		return apperrors.NewNotFound("admin", map[string]any{"id": id})
	}
	return nil
}

// ListStaff lists active staff. An empty unitID lists every unit and needs
// general access.
func (s *StaffService) ListStaff(ctx context.Context, actor *domain.Session, unitID string) ([]domain.StaffMember, error) {
	var (
		rows []record.StaffRow
		err  error
	)
	if unitID == "" {
		if err := requireGeneral(actor); err != nil {
			return nil, err
		}
		rows, err = s.staff.ListActive(ctx)
	} else {
		if err := requireUnit(actor, unitID); err != nil {
			return nil, err
		}
		rows, err = s.staff.ListByUnit(ctx, unitID)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	members := make([]domain.StaffMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, record.ToStaff(row))
	}
	return members, nil
}

// GetStaff fetches a staff member of an accessible unit.
func (s *StaffService) GetStaff(ctx context.Context, actor *domain.Session, id string) (domain.StaffMember, error) {
	row, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return domain.StaffMember{}, apperrors.MapError(err)
	}
	if err := requireUnit(actor, row.PoloID); err != nil {
		return domain.StaffMember{}, err
	}
	return record.ToStaff(row), nil
}

// CreateStaff adds a staff member to an accessible unit.
func (s *StaffService) CreateStaff(ctx context.Context, actor *domain.Session, m domain.StaffMember) (domain.StaffMember, error) {
	if err := requireUnit(actor, m.UnitID); err != nil {
		return domain.StaffMember{}, err
	}
	if err := s.requireActiveUnit(ctx, m.UnitID); err != nil {
		return domain.StaffMember{}, err
	}
	m.ID = ""
	m.Active = true
	if m.HireDate.IsZero() {
		m.HireDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	row, err := s.staff.Create(ctx, record.FromStaff(m))
	if err != nil {
		return domain.StaffMember{}, apperrors.MapError(err)
	}
	return record.ToStaff(row), nil
}

// UpdateStaff applies a partial change. Moving a member requires access to
// both units.
func (s *StaffService) UpdateStaff(ctx context.Context, actor *domain.Session, id string, u StaffUpdate) (domain.StaffMember, error) {
	current, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return domain.StaffMember{}, apperrors.MapError(err)
	}
	if err := requireUnit(actor, current.PoloID); err != nil {
		return domain.StaffMember{}, err
	}

	var patch record.Patch
	if u.Name != nil {
		patch.Set("name", *u.Name)
	}
	if u.Phone != nil {
		patch.Set("phone", *u.Phone)
	}
	if u.Email != nil {
		var email *string
		if *u.Email != "" {
			email = u.Email
		}
		patch.Set("email", email)
	}
	if u.Role != nil {
		if !u.Role.Valid() {
			return domain.StaffMember{}, apperrors.NewValidationError("invalid role", map[string]any{"role": string(*u.Role)})
		}
		patch.Set("role", string(*u.Role))
	}
	if u.UnitID != nil && *u.UnitID != current.PoloID {
		if !access.HasAccessToUnit(actor, *u.UnitID) {
			return domain.StaffMember{}, apperrors.NewForbidden("no access to target unit")
		}
		if err := s.requireActiveUnit(ctx, *u.UnitID); err != nil {
			return domain.StaffMember{}, err
		}
		patch.Set("polo_id", *u.UnitID)
	}
	if u.Qualifications != nil {
		patch.Set("qualifications", u.Qualifications)
	}

	row, err := s.staff.Update(ctx, id, patch)
	if err != nil {
		return domain.StaffMember{}, apperrors.MapError(err)
	}
	return record.ToStaff(row), nil
}

// DeactivateStaff marks a staff member inactive.
func (s *StaffService) DeactivateStaff(ctx context.Context, actor *domain.Session, id string) error {
	current, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := requireUnit(actor, current.PoloID); err != nil {
		return err
	}
	if _, err := s.staff.SoftDelete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
