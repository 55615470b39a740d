package usecase

import (
	"context"
	"fmt"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/logger"
	"jobboard-api/pkg/security"
	"jobboard-api/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const cvFolder = "cvs"

// ErrCVNotFound is returned when an application has no CV to attach.
var ErrCVNotFound = apperror.InvalidState("CV not found")

// ApplicationService serves both the apply workflow and the applied-job resource.
type ApplicationService interface {
	domain.ApplicationUsecase
	domain.ProfileUsecase[domain.AppliedJob]
}

type applicationUsecase struct {
	*profileUsecase[domain.AppliedJob, *domain.AppliedJob]
	applied    domain.AppliedJobRepository
	jobs       domain.JobRepository
	users      domain.UserRepository
	storage    domain.FileStorage
	audit      *security.AuditLogger
	maxCVBytes int64
	now        func() time.Time
}

func NewApplicationUsecase(
	applied domain.AppliedJobRepository,
	jobs domain.JobRepository,
	users domain.UserRepository,
	storage domain.FileStorage,
	validate *validator.Validate,
	audit *security.AuditLogger,
	maxCVBytes int64,
) ApplicationService {
	return &applicationUsecase{
		profileUsecase: newProfileUsecase[domain.AppliedJob](applied, users, validate, "Applied job"),
		applied:        applied,
		jobs:           jobs,
		users:          users,
		storage:        storage,
		audit:          audit,
		maxCVBytes:     maxCVBytes,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ApplyWithExistingCV applies using the CV already stored on the user.
func (u *applicationUsecase) ApplyWithExistingCV(ctx context.Context, jobID, userID string) (*domain.AppliedJob, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CV == "" {
		return nil, ErrCVNotFound
	}
	return u.record(ctx, job, userID, user.CV)
}

// ApplyWithNewCV uploads cv, stores its URL on the user, then applies with it.
// A nil cv falls back to the user's stored CV.
func (u *applicationUsecase) ApplyWithNewCV(ctx context.Context, jobID, userID string, cv *domain.FileUpload) (*domain.AppliedJob, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cv != nil {
		url, err := u.uploadCV(ctx, userID, cv)
		if err != nil {
			return nil, err
		}
		user.CV = url
		user.UpdatedAt = u.now()
		if err := u.users.Update(ctx, user); err != nil {
			return nil, err
		}
		u.audit.Log(ctx, security.AuditEvent{
			Event:        security.EventCVUploaded,
			SubjectType:  "user_id",
			SubjectValue: userID,
			RequestID:    domain.RequestIDFromContext(ctx),
			Details:      map[string]interface{}{"job_id": jobID, "bytes": len(cv.Data)},
		})
	}

	if user.CV == "" {
		return nil, ErrCVNotFound
	}
	return u.record(ctx, job, userID, user.CV)
}

func (u *applicationUsecase) uploadCV(ctx context.Context, userID string, cv *domain.FileUpload) (string, error) {
	if u.maxCVBytes > 0 && int64(len(cv.Data)) > u.maxCVBytes {
		return "", apperror.InvalidInput("Invalid CV file", []validation.FieldError{
			{Field: "cv", Message: fmt.Sprintf("must be at most %d MB", u.maxCVBytes>>20)},
		})
	}
	check := security.ValidateFile(security.UploadCV, cv.Filename, cv.Data)
	if !check.Valid {
		return "", apperror.InvalidInput("Invalid CV file", []validation.FieldError{
			{Field: "cv", Message: check.Error},
		})
	}
	return u.storage.Upload(ctx, cv.Data, cv.Filename, check.ContentType, cvFolder+"/"+userID)
}

// record writes the AppliedJob, then pushes its id onto the job's list and then the user's.
// Each write is separate; a failure leaves earlier writes committed.
func (u *applicationUsecase) record(ctx context.Context, job *domain.Job, userID, cv string) (*domain.AppliedJob, error) {
	applied := &domain.AppliedJob{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		UserID:    userID,
		Position:  job.Position,
		Company:   job.Company.Name,
		AppliedAt: u.now(),
		CV:        cv,
	}
	if err := u.applied.Create(ctx, applied); err != nil {
		return nil, err
	}

	if err := u.jobs.AppendApplication(ctx, job.ID, applied.ID); err != nil {
		logger.Log.ErrorContext(ctx, "failed to link application to job",
			"applied_job_id", applied.ID, "job_id", job.ID, "user_id", userID, "error", err)
		return nil, apperror.Internal(err)
	}
	if err := u.link(ctx, userID, domain.RefAppliedJobs, applied.ID); err != nil {
		return nil, err
	}
	return applied, nil
}

// Create is the resource-style entry point: it snapshots the job and links like an application.
// Without a cv in the body the user's stored CV is used.
func (u *applicationUsecase) Create(ctx context.Context, userID string, rec *domain.AppliedJob) (*domain.AppliedJob, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	if err := validateField(u.validate, "jobId", rec.JobID, "required,uuid"); err != nil {
		return nil, err
	}
	cv := rec.CV
	if cv != "" {
		if err := validateField(u.validate, "cv", cv, "url,max=1000"); err != nil {
			return nil, err
		}
	}

	job, err := u.jobs.GetByID(ctx, rec.JobID)
	if err != nil {
		return nil, err
	}
	if cv == "" {
		user, err := u.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		cv = user.CV
	}
	if cv == "" {
		return nil, ErrCVNotFound
	}
	return u.record(ctx, job, userID, cv)
}

// GetByID is visible to the applicant, the job's poster and admins.
func (u *applicationUsecase) GetByID(ctx context.Context, id string) (*domain.AppliedJob, error) {
	applied, err := u.applied.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	if caller.CanModify(applied.UserID) {
		return applied, nil
	}

	job, err := u.jobs.GetByID(ctx, applied.JobID)
	switch {
	case err == nil && job.UserID == caller.UserID:
		return applied, nil
	case err != nil && !apperror.IsNotFound(err):
		return nil, err
	}
	return nil, apperror.Forbidden("You can only view your own applications")
}
