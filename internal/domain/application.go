package domain

import (
	"context"
	"time"
)

// AppliedJob records one application of one user to one job.
type AppliedJob struct {
	ID        string    `json:"id" bson:"_id"`
	JobID     string    `json:"jobId" bson:"jobId" validate:"required,uuid"`
	UserID    string    `json:"userId" bson:"userId"`
	Position  string    `json:"position" bson:"position" validate:"max=150"`
	Company   string    `json:"company" bson:"company" validate:"max=150"`
	AppliedAt time.Time `json:"appliedAt" bson:"appliedAt"`
	CV        string    `json:"cv" bson:"cv" validate:"omitempty,url,max=1000"`
}

func (a *AppliedJob) GetID() string       { return a.ID }
func (a *AppliedJob) SetID(id string)     { a.ID = id }
func (a *AppliedJob) GetUserID() string   { return a.UserID }
func (a *AppliedJob) SetUserID(id string) { a.UserID = id }
func (a *AppliedJob) RefField() RefField  { return RefAppliedJobs }
func (a *AppliedJob) Clean(f func(string) string) {
	a.Position, a.Company = f(a.Position), f(a.Company)
}

type AppliedJobPatch struct {
	Position  *string    `json:"position"`
	Company   *string    `json:"company"`
	AppliedAt *time.Time `json:"appliedAt"`
	CV        *string    `json:"cv"`
}

func (p AppliedJobPatch) Apply(a *AppliedJob) {
	setString(&a.Position, p.Position)
	setString(&a.Company, p.Company)
	setTime(&a.AppliedAt, p.AppliedAt)
	setString(&a.CV, p.CV)
}

type AppliedJobRepository interface {
	OwnedStore[AppliedJob]
	ListByJob(ctx context.Context, jobID string) ([]AppliedJob, error)
}

// ApplicationUsecase links a user, a job and a new AppliedJob record.
type ApplicationUsecase interface {
	ApplyWithExistingCV(ctx context.Context, jobID, userID string) (*AppliedJob, error)
	ApplyWithNewCV(ctx context.Context, jobID, userID string, cv *FileUpload) (*AppliedJob, error)
}

// ApplicantRow is one line of the admin applications report.
type ApplicantRow struct {
	AppliedJob AppliedJob `json:"appliedJob"`
	Applicant  *User      `json:"applicant,omitempty"`
}

type AdminUsecase interface {
	ListUsers(ctx context.Context) ([]User, error)
	SetRole(ctx context.Context, userID, role string) (*User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListApplications(ctx context.Context, jobID string) ([]ApplicantRow, error)
	ExportApplications(ctx context.Context, jobID string) ([]byte, string, error)
}

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
