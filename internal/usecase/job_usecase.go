package usecase

import (
	"context"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type jobUsecase struct {
	jobs      domain.JobRepository
	users     domain.UserRepository
	companies domain.ProfileUsecase[domain.Company]
	validate  *validator.Validate
}

// NewJobUsecase creates a new job usecase. Postings register their company through companies.
func NewJobUsecase(
	jobs domain.JobRepository,
	users domain.UserRepository,
	companies domain.ProfileUsecase[domain.Company],
	validate *validator.Validate,
) domain.JobUsecase {
	return &jobUsecase{
		jobs:      jobs,
		users:     users,
		companies: companies,
		validate:  validate,
	}
}

func (u *jobUsecase) CreateJob(ctx context.Context, userID string, job *domain.Job) (*domain.Job, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}

	now := time.Now().UTC()
	job.Clean(validation.Sanitize)
	job.ID = uuid.NewString()
	job.UserID = userID
	job.PostedAt = now
	job.CreatedAt = now
	job.UpdatedAt = now
	job.AppliedJobs = []string{}
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}
	if err := validateStruct(u.validate, job); err != nil {
		return nil, err
	}

	company, err := u.companies.Create(ctx, userID, &domain.Company{
		Name:           job.Company.Name,
		Website:        job.Company.Website,
		Logo:           job.Company.Logo,
		LogoBackground: job.Company.LogoBackground,
	})
	if err != nil {
		return nil, err
	}
	job.CompanyID = company.ID

	if err := u.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob returns the posting with its poster's public profile when the poster still exists.
func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.JobDetails, error) {
	job, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &domain.JobDetails{Job: *job}

	poster, err := u.users.GetByID(ctx, job.UserID)
	switch {
	case err == nil:
		summary := poster.Summary()
		details.Poster = &summary
	case !apperror.IsNotFound(err):
		return nil, err
	}
	return details, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, status string) ([]domain.Job, error) {
	if status != "" && status != domain.JobStatusOpen && status != domain.JobStatusClosed {
		return nil, apperror.InvalidInput("Invalid input", []validation.FieldError{
			{Field: "status", Message: "must be one of: open, closed"},
		})
	}
	return u.jobs.List(ctx, status)
}

func (u *jobUsecase) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	job, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, job.UserID, "You can only modify your own job postings"); err != nil {
		return nil, err
	}

	patch.Apply(job)
	job.Clean(validation.Sanitize)
	if err := validateStruct(u.validate, job); err != nil {
		return nil, err
	}
	job.UpdatedAt = time.Now().UTC()
	if err := u.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, id string) error {
	job, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(ctx, job.UserID, "You can only delete your own job postings"); err != nil {
		return err
	}
	return u.jobs.Delete(ctx, id)
}
