package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cityexplorer/backend/internal/domain"
)

// PostgresRepository implements domain.LookupRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the journal table when it does not exist yet
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{`
		CREATE TABLE IF NOT EXISTS lookup_log (
			id          BIGSERIAL PRIMARY KEY,
			route       VARCHAR(64)  NOT NULL,
			query       VARCHAR(255) NOT NULL,
			status      INTEGER      NOT NULL,
			outcome     VARCHAR(32)  NOT NULL,
			duration_ms BIGINT       NOT NULL,
			timestamp   TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS lookup_log_timestamp_idx ON lookup_log (timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: failed to create lookup_log schema: %w", err)
		}
	}

	return nil
}

// SaveLookup persists a journal entry to PostgreSQL
func (r *PostgresRepository) SaveLookup(ctx context.Context, l domain.Lookup) error {
	query := `
		INSERT INTO lookup_log (
			route, query, status, outcome, duration_ms, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		l.Route, truncate(l.Query, 255), l.Status, l.Outcome, l.DurationMs, l.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save lookup: %w", err)
	}

	return nil
}

// GetRecentLookups retrieves journal entries from PostgreSQL
func (r *PostgresRepository) GetRecentLookups(ctx context.Context, from, to time.Time) ([]domain.Lookup, error) {
	query := `
		SELECT route, query, status, outcome, duration_ms, timestamp
		FROM lookup_log
		WHERE timestamp BETWEEN $1 AND $2
		ORDER BY timestamp DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query lookups: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Lookup, 0)
	for rows.Next() {
		var l domain.Lookup
		err := rows.Scan(&l.Route, &l.Query, &l.Status, &l.Outcome, &l.DurationMs, &l.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan lookup row: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate lookups: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

// truncate cuts s to at most n runes so it fits a VARCHAR(n) column
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
