// Package postgres provides the PostgreSQL adapter of the project repository.
// It uses pgx directly; the MySQL adapter is the GORM-based alternative.
package postgres

import (
	"context"
	"fmt"
	"net/url"

	"ddd-skeleton/config"
	"ddd-skeleton/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// schema is applied by Migrate; statements are idempotent
const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         BIGINT PRIMARY KEY,
	name       VARCHAR(200) NOT NULL,
	amount     BIGINT NOT NULL CHECK (amount >= 0),
	currency   CHAR(3) NOT NULL,
	version    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_name ON projects (name);
CREATE TABLE IF NOT EXISTS project_owners (
	project_id BIGINT NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
	email      VARCHAR(255) NOT NULL,
	position   INTEGER NOT NULL,
	PRIMARY KEY (project_id, email)
);
CREATE INDEX IF NOT EXISTS idx_project_owners_email ON project_owners (email);
`

// Postgres wraps a pgx connection pool with helper methods.
type Postgres struct {
	Pool *pgxpool.Pool
}

// DSN builds the connection string, an explicit dsn wins over the parts
func DSN(cfg config.PostgresConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.Database,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// New creates a new PostgreSQL connection pool and verifies it with a ping.
func New(ctx context.Context, cfg config.PostgresConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		zap.String("driver", "postgres"),
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)

	return &Postgres{Pool: pool}, nil
}

// Migrate creates the project tables when missing
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate project tables: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		logger.Info("Database connection closed", zap.String("driver", "postgres"))
	}
}

// Health checks if the database is reachable.
func (p *Postgres) Health(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}
