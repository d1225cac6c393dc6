package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/observability"
)

// StatsRepository computes dashboard counters.
type StatsRepository interface {
	Counts(ctx context.Context) (domain.Stats, error)
	ByUnit(ctx context.Context) ([]domain.UnitStats, error)
}

type statsRepository struct {
	db      DBTX
	metrics *observability.Metrics
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(db DBTX, metrics *observability.Metrics) StatsRepository {
	return &statsRepository{db: db, metrics: metrics}
}

func (r *statsRepository) Counts(ctx context.Context) (domain.Stats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM students WHERE is_active = true),
            (SELECT COUNT(*) FROM polos WHERE is_active = true),
            (SELECT COUNT(*) FROM enrollments WHERE status = 'active'),
            (SELECT COUNT(*) FROM enrollments WHERE status = 'completed'),
            (SELECT COUNT(*) FROM certificates WHERE is_valid = true)`

	started := time.Now()
	var stats domain.Stats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.ActivePersons,
		&stats.ActiveUnits,
		&stats.ActiveEnrollments,
		&stats.CompletedEnrollments,
		&stats.ValidCertificates,
	)
	err = classify("stats", "counts", err)
	r.metrics.ObserveRemote("stats", "counts", started, err)
	return stats, err
}

func (r *statsRepository) ByUnit(ctx context.Context) ([]domain.UnitStats, error) {
	const query = `
        SELECT p.id, p.name,
            COUNT(e.id) FILTER (WHERE e.status = 'active'),
            COUNT(e.id) FILTER (WHERE e.status = 'completed')
        FROM polos p
        LEFT JOIN enrollments e ON e.polo_id = p.id
        WHERE p.is_active = true
        GROUP BY p.id, p.name
        ORDER BY p.name ASC`

	started := time.Now()
	var stats []domain.UnitStats
	rows, err := r.db.Query(ctx, query)
	if err == nil {
		stats, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UnitStats, error) {
			var s domain.UnitStats
			err := row.Scan(&s.UnitID, &s.UnitName, &s.ActiveEnrollments, &s.CompletedEnrollments)
			return s, err
		})
	}
	err = classify("stats", "by_unit", err)
	r.metrics.ObserveRemote("stats", "by_unit", started, err)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []domain.UnitStats{}
	}
	return stats, nil
}
