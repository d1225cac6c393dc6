package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/record"
)

// SettingRepository handles persistence for system settings.
type SettingRepository interface {
	List(ctx context.Context) ([]record.SettingRow, error)
	GetByKey(ctx context.Context, key string) (record.SettingRow, error)
	GetValue(ctx context.Context, key, fallback string) (string, error)
	Upsert(ctx context.Context, row record.SettingRow) (record.SettingRow, error)
}

type settingRepository struct {
	table[record.SettingRow]
}

// NewSettingRepository instantiates the repository.
func NewSettingRepository(db DBTX, metrics *observability.Metrics) SettingRepository {
	return &settingRepository{newTable[record.SettingRow](db, metrics, record.TableSettings)}
}

func (r *settingRepository) List(ctx context.Context) ([]record.SettingRow, error) {
	return r.many(ctx, "list", "", "category ASC, key ASC")
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (record.SettingRow, error) {
	return r.one(ctx, "get_by_key", "key=$1", key)
}

// GetValue returns the stored value for key, or fallback when the key is
// unset or empty.
func (r *settingRepository) GetValue(ctx context.Context, key, fallback string) (string, error) {
	row, err := r.GetByKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	if row.Value == "" {
		return fallback, nil
	}
	return row.Value, nil
}

// Upsert inserts the setting or replaces value, description and category of
// the existing key.
func (r *settingRepository) Upsert(ctx context.Context, row record.SettingRow) (record.SettingRow, error) {
	started := time.Now()
	if err := record.Validate(r.name, row); err != nil {
		return row, r.finish("upsert", started, err)
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	query := `
        INSERT INTO system_settings (id, key, value, description, category)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (key) DO UPDATE
        SET value=EXCLUDED.value, description=EXCLUDED.description, category=EXCLUDED.category, updated_at=NOW()
        RETURNING ` + r.columns

	var stored record.SettingRow
	rows, err := r.db.Query(ctx, query, row.ID, row.Key, row.Value, row.Description, row.Category)
	if err == nil {
		stored, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[record.SettingRow])
	}
	return stored, r.finish("upsert", started, err)
}
