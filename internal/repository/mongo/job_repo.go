package mongo

import (
	"context"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type jobRepo struct {
	coll *mongo.Collection
}

func NewJobRepository(s *Store) domain.JobRepository {
	return &jobRepo{coll: s.Collection(CollJobs)}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	_, err := r.coll.InsertOne(ctx, job)
	return mapError(err, "Job")
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		return nil, mapError(err, "Job")
	}
	return &job, nil
}

func (r *jobRepo) List(ctx context.Context, status string) ([]domain.Job, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "postedAt", Value: -1}}))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobs := []domain.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

// Update replaces the posting but leaves appliedJobs to AppendApplication.
func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": bson.M{
		"company":          job.Company,
		"contract":         job.Contract,
		"position":         job.Position,
		"location":         job.Location,
		"description":      job.Description,
		"requirements":     job.Requirements,
		"qualifications":   job.Qualifications,
		"responsibilities": job.Responsibilities,
		"skills":           job.Skills,
		"benefits":         job.Benefits,
		"role":             job.Role,
		"status":           job.Status,
		"updatedAt":        job.UpdatedAt,
	}})
	if err != nil {
		return apperror.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Job not found")
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Job not found")
	}
	return nil
}

func (r *jobRepo) AppendApplication(ctx context.Context, jobID, appliedJobID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": jobID},
		bson.M{
			"$push": bson.M{"appliedJobs": appliedJobID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return apperror.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Job not found")
	}
	return nil
}
