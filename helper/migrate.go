package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/postgres"
)

const migrationSource = "file://migrations/postgres"

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

var actions = map[string]func(*migrate.Migrate) error{
	ActionUp:     func(m *migrate.Migrate) error { return m.Up() },
	ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	ActionDrop:   func(m *migrate.Migrate) error { return m.Down() },
}

// ConnectionString targets the write node and records versions in the
// configured migrations table.
func ConnectionString(cfg *config.Config) string {
	dsn := postgres.DSN(cfg.DB.Postgres.Write, cfg.DB.Postgres.Prefix)
	if cfg.DB.Postgres.MigrationTable == "" {
		return dsn
	}

	return dsn + "&x-migrations-table=" + url.QueryEscape(cfg.DB.Postgres.MigrationTable)
}

func Runner(cfg *config.Config, action string) error {
	run, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := migrate.New(migrationSource, ConnectionString(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err = run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	version, dirty, _ := mig.Version()
	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
