package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/repository"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const channelPlaceholder = "__NOTIFY_CHANNEL__"

// DefaultNotifyChannel is the channel change triggers publish on when none
// is configured.
const DefaultNotifyChannel = "table_changes"

// Migration is one embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded scripts in apply order with the notify
// channel substituted.
func Migrations(channel string) ([]Migration, error) {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)

	out := make([]Migration, 0, len(filenames))
	for _, name := range filenames {
		content, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		sql := strings.ReplaceAll(string(content), channelPlaceholder, strings.ReplaceAll(channel, "'", "''"))
		out = append(out, Migration{Name: name, SQL: sql})
	}
	return out, nil
}

// RunMigrations executes the embedded SQL migrations. Every script is
// idempotent, so a provisioned database is left unchanged.
func RunMigrations(ctx context.Context, db repository.DBTX, channel string, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	migrations, err := Migrations(channel)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		logger.Info("applying migration", zap.String("file", m.Name))
		if _, err := db.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations)))
	return nil
}
