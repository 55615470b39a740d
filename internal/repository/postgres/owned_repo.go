package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// appendRefSQL pushes $3 onto the array at key $2 of the document with id $1.
func appendRefSQL(table string) string {
	return fmt.Sprintf(`UPDATE %s SET doc = jsonb_set(
		doc,
		ARRAY[$2::text],
		CASE WHEN jsonb_typeof(doc->$2::text) = 'array' THEN doc->$2::text ELSE '[]'::jsonb END || to_jsonb($3::text)
	) || jsonb_build_object('updatedAt', to_jsonb(now()))
	WHERE id = $1`, pq.QuoteIdentifier(table))
}

// ownedRepo stores one owned record type as (id, user_id, doc) rows.
type ownedRepo[T any, P interface {
	*T
	domain.Owned
}] struct {
	db     *pgxpool.Pool
	table  string
	entity string
}

func newOwnedRepo[T any, P interface {
	*T
	domain.Owned
}](s *Store, table, entity string) *ownedRepo[T, P] {
	return &ownedRepo[T, P]{db: s.db, table: pq.QuoteIdentifier(table), entity: entity}
}

func NewAddressRepository(s *Store) domain.OwnedStore[domain.Address] {
	return newOwnedRepo[domain.Address](s, TableAddresses, "Address")
}

func NewEducationRepository(s *Store) domain.OwnedStore[domain.Education] {
	return newOwnedRepo[domain.Education](s, TableEducations, "Education")
}

func NewExperienceRepository(s *Store) domain.OwnedStore[domain.Experience] {
	return newOwnedRepo[domain.Experience](s, TableExperiences, "Experience")
}

func NewSkillRepository(s *Store) domain.OwnedStore[domain.Skill] {
	return newOwnedRepo[domain.Skill](s, TableSkills, "Skill")
}

func NewCompanyRepository(s *Store) domain.OwnedStore[domain.Company] {
	return newOwnedRepo[domain.Company](s, TableCompanies, "Company")
}

func (r *ownedRepo[T, P]) Create(ctx context.Context, rec *T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return apperror.Internal(err)
	}
	p := P(rec)
	_, err = r.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, user_id, doc) VALUES ($1, $2, $3::jsonb)`, r.table),
		p.GetID(), p.GetUserID(), string(doc))
	return mapError(err, r.entity)
}

func (r *ownedRepo[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, r.table), id).Scan(&doc)
	if err != nil {
		return nil, mapError(err, r.entity)
	}
	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, apperror.Internal(err)
	}
	return &rec, nil
}

func (r *ownedRepo[T, P]) Update(ctx context.Context, rec *T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return apperror.Internal(err)
	}
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = $2::jsonb WHERE id = $1`, r.table),
		P(rec).GetID(), string(doc))
	if err != nil {
		return mapError(err, r.entity)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound(r.entity + " not found")
	}
	return nil
}

func (r *ownedRepo[T, P]) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound(r.entity + " not found")
	}
	return nil
}

func (r *ownedRepo[T, P]) ListByUser(ctx context.Context, userID string) ([]T, error) {
	return r.list(ctx, `user_id = $1`, userID)
}

func (r *ownedRepo[T, P]) list(ctx context.Context, where string, arg any) ([]T, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE %s`, r.table, where), arg)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out, err := decodeRows[T](rows)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return out, nil
}

// decodeRows unmarshals a single doc column from every row.
func decodeRows[T any](rows pgx.Rows) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type appliedJobRepo struct {
	*ownedRepo[domain.AppliedJob, *domain.AppliedJob]
}

func NewAppliedJobRepository(s *Store) domain.AppliedJobRepository {
	return &appliedJobRepo{newOwnedRepo[domain.AppliedJob](s, TableAppliedJobs, "Applied job")}
}

func (r *appliedJobRepo) ListByJob(ctx context.Context, jobID string) ([]domain.AppliedJob, error) {
	return r.list(ctx, `doc->>'jobId' = $1`, jobID)
}
