// Package mirror is the optional remote collaborator: a PostgreSQL
// database that receives best-effort copies of local mutations. Local
// state stays authoritative; a mirror failure is a warning, never an
// error the user has to act on.
package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/vonshlovens/fretlog/internal/config"
)

// Mirror wraps the database connection pool
type Mirror struct {
	Pool   *pgxpool.Pool
	config *config.DatabaseConfig
	Schema string
}

// New creates a new mirror connection pool
func New(ctx context.Context, cfg *config.DatabaseConfig) (*Mirror, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("connected to mirror database",
		"host", cfg.Host,
		"database", cfg.Database,
		"schema", cfg.Schema)

	return &Mirror{
		Pool:   pool,
		config: cfg,
		Schema: cfg.Schema,
	}, nil
}

// Close closes the mirror connection pool
func (m *Mirror) Close() {
	if m.Pool != nil {
		m.Pool.Close()
		slog.Info("mirror connection closed")
	}
}

// Ping checks if the mirror is reachable
func (m *Mirror) Ping(ctx context.Context) error {
	return m.Pool.Ping(ctx)
}

// EnsureSchema creates the schema if it doesn't exist
func (m *Mirror) EnsureSchema(ctx context.Context) error {
	if m.Schema == "" {
		return nil
	}

	_, err := m.Pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", m.Schema))
	if err != nil {
		return fmt.Errorf("failed to create schema %s: %w", m.Schema, err)
	}

	slog.Info("schema ready", "schema", m.Schema)
	return nil
}

// RunMigrations executes all pending database migrations
func (m *Mirror) RunMigrations(ctx context.Context, migrationsDir string) error {
	if err := m.EnsureSchema(ctx); err != nil {
		return err
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	stdDB, err := sql.Open("pgx", m.config.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open stdlib connection: %w", err)
	}
	defer stdDB.Close()

	if m.Schema != "" {
		goose.SetTableName(m.Schema + ".goose_db_version")
	}

	if err := goose.Up(stdDB, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully", "schema", m.Schema)
	return nil
}

// Status summarizes the mirror's current contents
type Status struct {
	Connected    bool
	TotalGuitars int
	TotalLogs    int
	LastCreated  *time.Time
}

// GetStatus returns row counts and the most recent record time
func (m *Mirror) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{Connected: true}

	var guitarCount int
	err := m.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM guitars").Scan(&guitarCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count guitars: %w", err)
	}
	status.TotalGuitars = guitarCount

	var logCount int
	err = m.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM maintenance_logs").Scan(&logCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count maintenance logs: %w", err)
	}
	status.TotalLogs = logCount

	var lastCreated *time.Time
	err = m.Pool.QueryRow(ctx, `
		SELECT MAX(created_at) FROM (
			SELECT created_at FROM guitars
			UNION ALL
			SELECT created_at FROM maintenance_logs
		) t
	`).Scan(&lastCreated)
	if err != nil {
		slog.Warn("failed to get last record time", "error", err)
	}
	status.LastCreated = lastCreated

	return status, nil
}
