package postgres

import (
	"context"
	"errors"
	"fmt"

	"jobboard-api/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

// Table names mirror the document collections.
const (
	TableUsers       = "users"
	TableAddresses   = "addresses"
	TableEducations  = "educations"
	TableExperiences = "experiences"
	TableSkills      = "skills"
	TableCompanies   = "companies"
	TableJobs        = "jobs"
	TableAppliedJobs = "applied_jobs"
)

// Store keeps every entity as a JSONB document next to the columns it is queried by.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Migrate creates the document tables and indexes when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func schemaStatements() []string {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id       TEXT PRIMARY KEY,
			password TEXT NOT NULL DEFAULT '',
			doc      JSONB NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users ((doc->>'email'))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_phone_key ON users ((doc->>'phone')) WHERE COALESCE(doc->>'phone', '') <> ''`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL,
			status    TEXT NOT NULL,
			posted_at TIMESTAMPTZ NOT NULL,
			doc       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS jobs_status_posted_idx ON jobs (status, posted_at DESC)`,
	}
	for _, table := range []string{TableAddresses, TableEducations, TableExperiences, TableSkills, TableCompanies, TableAppliedJobs} {
		t := pq.QuoteIdentifier(table)
		stmts = append(stmts,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id      TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				doc     JSONB NOT NULL
			)`, t),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (user_id)`, pq.QuoteIdentifier(table+"_user_id_idx"), t),
		)
	}
	stmts = append(stmts, `CREATE INDEX IF NOT EXISTS applied_jobs_job_id_idx ON applied_jobs ((doc->>'jobId'))`)
	return stmts
}

// mapError converts driver errors into application errors.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(entity + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperror.Conflict(entity + " already exists")
	}
	return apperror.Internal(err)
}
