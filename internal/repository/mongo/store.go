package mongo

import (
	"context"
	"errors"
	"fmt"

	"jobboard-api/pkg/apperror"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	CollUsers       = "users"
	CollAddresses   = "addresses"
	CollEducations  = "educations"
	CollExperiences = "experiences"
	CollSkills      = "skills"
	CollCompanies   = "companies"
	CollJobs        = "jobs"
	CollAppliedJobs = "applied_jobs"
)

// Store owns the database handle shared by every repository.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_phone")},
		},
		CollJobs: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "postedAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		CollAppliedJobs: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "jobId", Value: 1}}},
		},
	}
	for _, name := range []string{CollAddresses, CollEducations, CollExperiences, CollSkills, CollCompanies} {
		indexes[name] = []mongo.IndexModel{{Keys: bson.D{{Key: "userId", Value: 1}}}}
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// mapError converts driver errors into application errors.
func mapError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperror.NotFound(entity + " not found")
	case mongo.IsDuplicateKeyError(err):
		return apperror.Conflict(entity + " already exists")
	}
	return apperror.Internal(err)
}
