package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/record"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// ErrNotProvisioned reports a database missing one of the required tables.
var ErrNotProvisioned = errors.New("database not provisioned")

// RequiredTables lists every table the repositories read or write.
var RequiredTables = []string{
	record.TablePersons,
	record.TableUnits,
	record.TableAdmins,
	record.TableStaff,
	record.TableEnrollments,
	record.TableCertificates,
	record.TableSettings,
}

// CheckProvisioned verifies that every required table exists.
func CheckProvisioned(ctx context.Context, db repository.DBTX) error {
	var missing []string
	for _, table := range RequiredTables {
		var name *string
		if err := db.QueryRow(ctx, "SELECT to_regclass($1)::text", table).Scan(&name); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if name == nil {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrNotProvisioned, missing)
	}
	return nil
}

type defaultSetting struct {
	key, value, description, category string
}

var defaultSettings = []defaultSetting{
	{"institution_name", "Instituto Bíblico Único Caminho - IBUC", "Nome da instituição", "institution"},
	{"institution_cnpj", "", "CNPJ da instituição", "institution"},
	{"president_pastor", "", "Pastor presidente", "institution"},
	{"headquarters_city", "Palmas", "Cidade sede", "institution"},
	{"headquarters_state", "TO", "Estado sede", "institution"},
	{"website", "", "Site oficial", "institution"},
	{"contact_phone", "", "Telefone de contato", "contact"},
	{"contact_email", "", "E-mail de contato", "contact"},
	{"whatsapp_number", "", "WhatsApp", "contact"},
	{"facebook_url", "", "Facebook", "social"},
	{"instagram_url", "", "Instagram", "social"},
	{"youtube_url", "", "YouTube", "social"},
}

// Seeder writes the initial rows of a fresh installation. Every step skips
// rows that already exist.
type Seeder struct {
	client     *repository.Client
	cfg        config.SeedConfig
	bcryptCost int
	logger     *zap.Logger
}

// NewSeeder builds a seeder over the repository client.
func NewSeeder(client *repository.Client, cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{client: client, cfg: cfg, bcryptCost: bcryptCost, logger: logger}
}

// Seed writes default settings, the bootstrap admin and, when enabled, the
// sample units and students.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedSettings(ctx); err != nil {
		return err
	}
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	if s.cfg.SampleData {
		return s.seedSamples(ctx)
	}
	return nil
}

func (s *Seeder) seedSettings(ctx context.Context) error {
	created := 0
	for _, d := range defaultSettings {
		_, err := s.client.Settings.GetByKey(ctx, d.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("seed setting %s: %w", d.key, err)
		}
		description := d.description
		if _, err := s.client.Settings.Upsert(ctx, record.SettingRow{
			Key:         d.key,
			Value:       d.value,
			Description: &description,
			Category:    d.category,
		}); err != nil {
			return fmt.Errorf("seed setting %s: %w", d.key, err)
		}
		created++
	}
	s.logger.Info("settings seeded", zap.Int("created", created))
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" {
		return nil
	}
	_, err := s.client.Admins.GetByEmail(ctx, s.cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}
	if s.cfg.AdminPassword == "" {
		s.logger.Warn("SEED_ADMIN_PASSWORD not provided; skipping bootstrap admin")
		return nil
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := s.client.Admins.Create(ctx, record.FromAdmin(domain.AdminIdentity{
		Name:         s.cfg.AdminName,
		Email:        s.cfg.AdminEmail,
		TaxID:        s.cfg.AdminTaxID,
		Phone:        s.cfg.AdminPhone,
		Role:         domain.RoleGeneralDirector,
		AccessLevel:  domain.AccessGeneral,
		Active:       true,
		PasswordHash: hash,
	})); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.Info("bootstrap admin created", zap.String("email", s.cfg.AdminEmail))
	return nil
}

func (s *Seeder) seedSamples(ctx context.Context) error {
	units, err := s.client.Units.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("seed samples: %w", err)
	}
	if len(units) > 0 {
		return nil
	}

	address := domain.Address{ZipCode: "77001-000", Street: "Av. Teotônio Segurado", Number: "100", Neighborhood: "Plano Diretor Sul", City: "Palmas", State: "TO"}
	central, err := s.client.Units.Create(ctx, record.FromUnit(domain.Unit{
		Name:            "Igreja Central - Palmas",
		Address:         address,
		Pastor:          "Pr. João Silva",
		Coordinator:     domain.Officer{Name: "Maria Santos", TaxID: "123.456.789-00"},
		Director:        &domain.Officer{Name: "Carlos Oliveira", TaxID: "234.567.890-11"},
		Secretary:       &domain.Officer{Name: "Ana Costa", TaxID: "345.678.901-22"},
		Treasurer:       &domain.Officer{Name: "Paulo Souza", TaxID: "456.789.012-33"},
		Teachers:        []string{"Prof. Lucas", "Profa. Helena"},
		Assistants:      []string{"Marcos"},
		AvailableLevels: domain.Levels,
		Active:          true,
	}))
	if err != nil {
		return fmt.Errorf("seed samples: %w", err)
	}

	address.Street = "Quadra 104 Norte"
	address.Neighborhood = "Plano Diretor Norte"
	if _, err := s.client.Units.Create(ctx, record.FromUnit(domain.Unit{
		Name:            "Igreja Norte - Palmas",
		Address:         address,
		Pastor:          "Pr. Antônio Lima",
		Coordinator:     domain.Officer{Name: "José Rodrigues", TaxID: "987.654.321-00"},
		AvailableLevels: []domain.Level{domain.LevelI, domain.LevelII, domain.LevelIII},
		Active:          true,
	})); err != nil {
		return fmt.Errorf("seed samples: %w", err)
	}

	for _, p := range []struct{ name, taxID string }{
		{"Ana Silva Santos", "123.456.789-00"},
		{"Pedro Lima Costa", "987.654.321-00"},
	} {
		_, err := s.client.Persons.Create(ctx, record.FromPerson(domain.Person{
			Name:      p.name,
			BirthDate: time.Date(2015, 3, 15, 0, 0, 0, 0, time.UTC),
			TaxID:     p.taxID,
			Gender:    domain.GenderOther,
			Phone:     "(63) 99999-0000",
			Address:   address,
			Guardians: domain.Guardians{
				FatherName:  "Responsável Pai",
				MotherName:  "Responsável Mãe",
				Phone:       "(63) 98888-0000",
				FatherTaxID: "111.111.111-11",
				MotherTaxID: "222.222.222-22",
			},
			Active: true,
		}))
		if err != nil && !errors.Is(err, repository.ErrConstraintViolation) {
			return fmt.Errorf("seed samples: %w", err)
		}
	}
	s.logger.Info("sample data seeded", zap.String("unit", central.Name))
	return nil
}

// Provision migrates the schema and seeds it.
func Provision(ctx context.Context, db repository.DBTX, client *repository.Client, cfg config.Config, logger *zap.Logger) error {
	if err := RunMigrations(ctx, db, cfg.Postgres.NotifyChannel, logger); err != nil {
		return err
	}
	return NewSeeder(client, cfg.Seed, cfg.Auth.BcryptCost, logger).Seed(ctx)
}

// Prepare readies a database for serving. With cfg.Postgres.RunMigrations
// an unprovisioned database is provisioned and a provisioned one gets the
// current migrations; without it the schema must already exist.
func Prepare(ctx context.Context, db repository.DBTX, client *repository.Client, cfg config.Config, logger *zap.Logger) error {
	err := CheckProvisioned(ctx, db)
	switch {
	case err == nil && cfg.Postgres.RunMigrations:
		return RunMigrations(ctx, db, cfg.Postgres.NotifyChannel, logger)
	case err == nil:
		return nil
	case errors.Is(err, ErrNotProvisioned) && cfg.Postgres.RunMigrations:
		logger.Warn("database not provisioned; provisioning", zap.Error(err))
		return Provision(ctx, db, client, cfg, logger)
	}
	return err
}
