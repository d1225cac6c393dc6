package service

import (
	"context"
	"errors"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
	apperrors "github.com/spec-kit/enrollment-service/pkg/util/errorutil"
)

// SettingsService exposes institution settings and dashboard counters.
type SettingsService struct {
	settings repository.SettingRepository
	stats    repository.StatsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingRepository, stats repository.StatsRepository) *SettingsService {
	return &SettingsService{settings: settings, stats: stats}
}

func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	rows, err := s.settings.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.Setting, 0, len(rows))
	for _, row := range rows {
		out = append(out, record.ToSetting(row))
	}
	return out, nil
}

func (s *SettingsService) Get(ctx context.Context, key string) (domain.Setting, error) {
	row, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		return domain.Setting{}, apperrors.MapError(err)
	}
	return record.ToSetting(row), nil
}

// Put creates or replaces a setting. An existing setting keeps its category
// and description unless new ones are given.
func (s *SettingsService) Put(ctx context.Context, actor *domain.Session, in domain.Setting) (domain.Setting, error) {
	if err := requireGeneral(actor); err != nil {
		return domain.Setting{}, err
	}
	existing, err := s.settings.GetByKey(ctx, in.Key)
	switch {
	case err == nil:
		if in.Category == "" {
			in.Category = existing.Category
		}
		if in.Description == "" && existing.Description != nil {
			in.Description = *existing.Description
		}
	case !errors.Is(err, repository.ErrNotFound):
		return domain.Setting{}, apperrors.MapError(err)
	}
	if in.Category == "" {
		in.Category = "general"
	}
	row, err := s.settings.Upsert(ctx, record.FromSetting(in))
	if err != nil {
		return domain.Setting{}, apperrors.MapError(err)
	}
	return record.ToSetting(row), nil
}

// Stats returns global counters for general admins.
func (s *SettingsService) Stats(ctx context.Context, actor *domain.Session) (domain.Stats, error) {
	if err := requireGeneral(actor); err != nil {
		return domain.Stats{}, err
	}
	stats, err := s.stats.Counts(ctx)
	if err != nil {
		return domain.Stats{}, apperrors.MapError(err)
	}
	return stats, nil
}

// UnitStats returns per-unit counters limited to the units the actor can
// access.
func (s *SettingsService) UnitStats(ctx context.Context, actor *domain.Session) ([]domain.UnitStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	all, err := s.stats.ByUnit(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.UnitStats, 0, len(all))
	for _, st := range all {
		if access.HasAccessToUnit(actor, st.UnitID) {
			out = append(out, st)
		}
	}
	return out, nil
}
