package postgres

import (
	"context"
	"encoding/json"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(s *Store) domain.JobRepository {
	return &jobRepo{db: s.db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	doc, err := json.Marshal(job)
	if err != nil {
		return apperror.Internal(err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO jobs (id, user_id, status, posted_at, doc) VALUES ($1, $2, $3, $4, $5::jsonb)`,
		job.ID, job.UserID, job.Status, job.PostedAt, string(doc))
	return mapError(err, "Job")
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var doc []byte
	if err := r.db.QueryRow(ctx, `SELECT doc FROM jobs WHERE id = $1`, id).Scan(&doc); err != nil {
		return nil, mapError(err, "Job")
	}
	var job domain.Job
	if err := json.Unmarshal(doc, &job); err != nil {
		return nil, apperror.Internal(err)
	}
	return &job, nil
}

func (r *jobRepo) List(ctx context.Context, status string) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT doc FROM jobs WHERE ($1 = '' OR status = $1) ORDER BY posted_at DESC`, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobs, err := decodeRows[domain.Job](rows)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

// Update merges the posting into the stored document; appliedJobs is left as stored.
func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return apperror.Internal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return apperror.Internal(err)
	}
	delete(fields, "appliedJobs")
	patch, err := json.Marshal(fields)
	if err != nil {
		return apperror.Internal(err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $2, doc = doc || $3::jsonb WHERE id = $1`,
		job.ID, job.Status, string(patch))
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Job not found")
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Job not found")
	}
	return nil
}

func (r *jobRepo) AppendApplication(ctx context.Context, jobID, appliedJobID string) error {
	tag, err := r.db.Exec(ctx, appendRefSQL(TableJobs), jobID, "appliedJobs", appliedJobID)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Job not found")
	}
	return nil
}
