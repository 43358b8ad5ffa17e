package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"hotel/config"
)

const (
	maxIdleConnection = 10
	maxOpenConnection = 10
	connMaxLifetime   = 30 * time.Minute
)

// Connection splits reads and writes so a replica can serve list screens.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect("read", cfg.DB.Postgres.Read, *cfg),
		Write: connect("write", cfg.DB.Postgres.Write, *cfg),
	}
}

// WithTx runs fn inside a write transaction, rolling back when fn fails.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return errors.Join(c.Read.PingContext(ctx), c.Write.PingContext(ctx))
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

// DSN builds the lib/pq connection URL for a node.
func DSN(node config.PostgresNode, prefix string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		node.Username,
		node.Password,
		net.JoinHostPort(node.Host, node.Port),
		prefix+node.Name,
		node.SSLMode,
	)
}

func connect(name string, node config.PostgresNode, cfg config.Config) *sqlx.DB {
	descriptor := DSN(node, cfg.DB.Postgres.Prefix)
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)

	for retry := range attempts {
		db, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnection)
			db.SetMaxOpenConns(maxOpenConnection)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("name", name).Str("host", node.Host).Str("db", cfg.DB.Postgres.Prefix+node.Name).Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", name).
			Str("host", node.Host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second)
	}

	log.Fatal().Str("name", name).Msg("Giving up connecting to database")

	return nil
}
