package mongo

import (
	"context"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ownedRepo stores one owned record type in its own collection.
type ownedRepo[T any, P interface {
	*T
	domain.Owned
}] struct {
	coll   *mongo.Collection
	entity string
}

func newOwnedRepo[T any, P interface {
	*T
	domain.Owned
}](s *Store, coll, entity string) *ownedRepo[T, P] {
	return &ownedRepo[T, P]{coll: s.Collection(coll), entity: entity}
}

func NewAddressRepository(s *Store) domain.OwnedStore[domain.Address] {
	return newOwnedRepo[domain.Address](s, CollAddresses, "Address")
}

func NewEducationRepository(s *Store) domain.OwnedStore[domain.Education] {
	return newOwnedRepo[domain.Education](s, CollEducations, "Education")
}

func NewExperienceRepository(s *Store) domain.OwnedStore[domain.Experience] {
	return newOwnedRepo[domain.Experience](s, CollExperiences, "Experience")
}

func NewSkillRepository(s *Store) domain.OwnedStore[domain.Skill] {
	return newOwnedRepo[domain.Skill](s, CollSkills, "Skill")
}

func NewCompanyRepository(s *Store) domain.OwnedStore[domain.Company] {
	return newOwnedRepo[domain.Company](s, CollCompanies, "Company")
}

func (r *ownedRepo[T, P]) Create(ctx context.Context, rec *T) error {
	_, err := r.coll.InsertOne(ctx, rec)
	return mapError(err, r.entity)
}

func (r *ownedRepo[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, mapError(err, r.entity)
	}
	return &rec, nil
}

func (r *ownedRepo[T, P]) Update(ctx context.Context, rec *T) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": P(rec).GetID()}, rec)
	if err != nil {
		return mapError(err, r.entity)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(r.entity + " not found")
	}
	return nil
}

func (r *ownedRepo[T, P]) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound(r.entity + " not found")
	}
	return nil
}

func (r *ownedRepo[T, P]) ListByUser(ctx context.Context, userID string) ([]T, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *ownedRepo[T, P]) find(ctx context.Context, filter bson.M) ([]T, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperror.Internal(err)
	}
	return out, nil
}

type appliedJobRepo struct {
	*ownedRepo[domain.AppliedJob, *domain.AppliedJob]
}

func NewAppliedJobRepository(s *Store) domain.AppliedJobRepository {
	return &appliedJobRepo{newOwnedRepo[domain.AppliedJob](s, CollAppliedJobs, "Applied job")}
}

func (r *appliedJobRepo) ListByJob(ctx context.Context, jobID string) ([]domain.AppliedJob, error) {
	return r.find(ctx, bson.M{"jobId": jobID})
}
