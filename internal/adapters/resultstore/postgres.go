package resultstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // postgres driver

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Default postgres adapter configuration.
const (
	defaultQueryTimeout = 5 * time.Second
)

// PostgresOption applies a configuration option to the postgres store.
type PostgresOption func(*Postgres)

// WithQueryTimeout bounds each query issued by the adapter.
func WithQueryTimeout(timeout time.Duration) PostgresOption {
	return func(p *Postgres) {
		if timeout > 0 {
			p.queryTimeout = timeout
		}
	}
}

// Postgres implements Store on a single test_results table.
type Postgres struct {
	conn         *sql.DB
	queryTimeout time.Duration
}

// NewPostgres opens a connection, verifies it with a ping, and applies the
// embedded migrations.
func NewPostgres(dsn string, opts ...PostgresOption) (*Postgres, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	p := &Postgres{
		conn:         conn,
		queryTimeout: defaultQueryTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.migrate(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Postgres) migrate() error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	for _, entry := range entries {
		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		if _, err := p.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// FetchAll implements Store. Records come back ordered by tested_at then id,
// so dedup tie-breaking sees a stable iteration order.
func (p *Postgres) FetchAll(ctx context.Context) ([]model.TestResultRecord, error) {
	ctx, cancel := p.queryContext(ctx)
	defer cancel()

	rows, err := p.conn.QueryContext(ctx, `
		SELECT id, identity_key, display_name, score, location, gender, age, tested_at, subject_id
		FROM test_results
		ORDER BY tested_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying test results: %w", err)
	}
	defer rows.Close()

	var records []model.TestResultRecord
	for rows.Next() {
		var rec model.TestResultRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.IdentityKey,
			&rec.DisplayName,
			&rec.Score,
			&rec.Location,
			&rec.Gender,
			&rec.Age,
			&rec.TestedAt,
			&rec.SubjectID,
		); err != nil {
			return nil, fmt.Errorf("scanning test result: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating test results: %w", err)
	}

	return records, nil
}

// Insert implements Store.
func (p *Postgres) Insert(ctx context.Context, rec model.TestResultRecord) (string, error) {
	ctx, cancel := p.queryContext(ctx)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := p.conn.ExecContext(ctx, `
		INSERT INTO test_results (id, identity_key, display_name, score, location, gender, age, tested_at, subject_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		rec.ID,
		rec.IdentityKey,
		rec.DisplayName,
		rec.Score,
		rec.Location,
		rec.Gender,
		rec.Age,
		rec.TestedAt,
		rec.SubjectID,
	)
	if err != nil {
		return "", fmt.Errorf("inserting test result: %w", err)
	}

	return rec.ID, nil
}

// Close implements Store.
func (p *Postgres) Close() error {
	return p.conn.Close()
}

// Ping verifies the connection is still alive.
func (p *Postgres) Ping() error {
	return p.conn.Ping()
}

func (p *Postgres) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.queryTimeout)
}
