package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const (
	defaultMaxConnections = 10
	defaultMaxIdle        = 5

	uniqueViolation = "23505"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	email            TEXT NOT NULL DEFAULT '',
	phone            TEXT NOT NULL DEFAULT '',
	linkedin         TEXT NOT NULL DEFAULT '',
	domain           TEXT NOT NULL DEFAULT '',
	skills           TEXT[] NOT NULL DEFAULT '{}',
	experience_years INTEGER NOT NULL DEFAULT 0,
	education        TEXT NOT NULL DEFAULT '',
	seniority        TEXT NOT NULL DEFAULT '',
	filename         TEXT UNIQUE,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS candidates_domain_idx ON candidates (lower(domain));
`

const selectColumns = `SELECT id, name, email, phone, linkedin, domain, skills, experience_years,
	education, seniority, COALESCE(filename, ''), created_at, updated_at FROM candidates`

const (
	upsertQuery = `INSERT INTO candidates (id, name, email, phone, linkedin, domain, skills,
	experience_years, education, seniority, filename, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $12)
ON CONFLICT (filename) DO UPDATE SET
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	linkedin = EXCLUDED.linkedin,
	domain = EXCLUDED.domain,
	skills = EXCLUDED.skills,
	experience_years = EXCLUDED.experience_years,
	education = EXCLUDED.education,
	seniority = EXCLUDED.seniority,
	updated_at = EXCLUDED.updated_at
RETURNING id`

	getQuery = selectColumns + ` WHERE id = $1`

	updateQuery = `UPDATE candidates SET name = $2, email = $3, phone = $4, linkedin = $5, domain = $6,
	skills = $7, experience_years = $8, education = $9, seniority = $10, filename = NULLIF($11, ''),
	updated_at = $12
WHERE id = $1`

	deleteQuery = `DELETE FROM candidates WHERE id = $1`

	listQuery = selectColumns + ` ORDER BY created_at, id`

	filterQuery = selectColumns + `
WHERE experience_years >= $1 AND (cardinality($2::text[]) = 0 OR lower(domain) = ANY($2))
ORDER BY created_at, id`
)

// Postgres stores candidates in a single table with skills kept as a text array.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgres opens a lib/pq connection pool. It does not check connectivity.
func OpenPostgres(dsn string, cfg *PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	maxConns, maxIdle := defaultMaxConnections, defaultMaxIdle
	if cfg != nil && cfg.MaxConnections > 0 {
		maxConns = cfg.MaxConnections
	}
	if cfg != nil && cfg.MaxIdle > 0 {
		maxIdle = cfg.MaxIdle
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewPostgres(db), nil
}

// NewPostgres wraps an existing database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Migrate creates the candidates table when it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating candidates schema: %w", err)
	}
	return nil
}

func (p *Postgres) Create(ctx context.Context, c *candidate.Candidate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	var id string
	err := p.db.QueryRowContext(ctx, upsertQuery,
		newID(), c.Name, c.Email, c.Phone, c.LinkedIn, c.Domain, pq.Array(c.Skills),
		c.ExperienceYears, c.Education, c.Seniority, c.Filename, p.now().UTC(),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("saving candidate %q: %w", c.Name, err)
	}
	return id, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	c, err := scanCandidate(p.db.QueryRowContext(ctx, getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting candidate %s: %w", id, err)
	}
	return c, nil
}

func (p *Postgres) Update(ctx context.Context, c *candidate.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx, updateQuery,
		c.ID, c.Name, c.Email, c.Phone, c.LinkedIn, c.Domain, pq.Array(c.Skills),
		c.ExperienceYears, c.Education, c.Seniority, c.Filename, p.now().UTC(),
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrFilenameTaken, c.Filename)
	}
	if err != nil {
		return fmt.Errorf("updating candidate %s: %w", c.ID, err)
	}
	return expectAffected(res)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("deleting candidate %s: %w", id, err)
	}
	return expectAffected(res)
}

func (p *Postgres) List(ctx context.Context) ([]*candidate.Candidate, error) {
	return p.query(ctx, listQuery)
}

func (p *Postgres) Filter(ctx context.Context, q Query) ([]*candidate.Candidate, error) {
	return p.query(ctx, filterQuery, q.MinExperience, pq.Array(q.lowerDomains()))
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *Postgres) query(ctx context.Context, query string, args ...any) ([]*candidate.Candidate, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	defer rows.Close()

	var result []*candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row scanner) (*candidate.Candidate, error) {
	var c candidate.Candidate
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.LinkedIn, &c.Domain, pq.Array(&c.Skills),
		&c.ExperienceYears, &c.Education, &c.Seniority, &c.Filename, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
