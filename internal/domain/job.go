package domain

import (
	"context"
	"time"
)

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// TextBlock is a paragraph followed by a bullet list.
type TextBlock struct {
	Content string   `json:"content" bson:"content" validate:"max=5000"`
	Items   []string `json:"items" bson:"items" validate:"max=50,dive,max=500"`
}

// JobCompany is the company snapshot embedded in a posting.
type JobCompany struct {
	Name           string `json:"name" bson:"name" validate:"required,max=150"`
	Website        string `json:"website" bson:"website" validate:"omitempty,url,max=300"`
	Logo           string `json:"logo" bson:"logo" validate:"omitempty,url,max=500"`
	LogoBackground string `json:"logoBackground" bson:"logoBackground" validate:"max=50"`
}

type Job struct {
	ID               string     `json:"id" bson:"_id"`
	Company          JobCompany `json:"company" bson:"company"`
	CompanyID        string     `json:"companyId" bson:"companyId"`
	UserID           string     `json:"userId" bson:"userId"`
	PostedAt         time.Time  `json:"postedAt" bson:"postedAt"`
	Contract         string     `json:"contract" bson:"contract" validate:"required,max=50"`
	Position         string     `json:"position" bson:"position" validate:"required,max=150"`
	Location         string     `json:"location" bson:"location" validate:"required,max=150"`
	Description      string     `json:"description" bson:"description" validate:"required,max=10000"`
	Requirements     TextBlock  `json:"requirements" bson:"requirements"`
	Qualifications   TextBlock  `json:"qualifications" bson:"qualifications"`
	Responsibilities TextBlock  `json:"responsibilities" bson:"responsibilities"`
	Skills           TextBlock  `json:"skills" bson:"skills"`
	Benefits         TextBlock  `json:"benefits" bson:"benefits"`
	Role             TextBlock  `json:"role" bson:"role"`
	Status           string     `json:"status" bson:"status" validate:"required,oneof=open closed"`
	AppliedJobs      []string   `json:"appliedJobs" bson:"appliedJobs,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Clean rewrites every free-text field through clean.
func (j *Job) Clean(clean func(string) string) {
	j.Company.Name = clean(j.Company.Name)
	j.Company.LogoBackground = clean(j.Company.LogoBackground)
	j.Contract = clean(j.Contract)
	j.Position = clean(j.Position)
	j.Location = clean(j.Location)
	j.Description = clean(j.Description)
	for _, b := range j.blocks() {
		b.Content = clean(b.Content)
		items := b.Items[:0]
		for _, it := range b.Items {
			if c := clean(it); c != "" {
				items = append(items, c)
			}
		}
		b.Items = items
	}
}

func (j *Job) blocks() []*TextBlock {
	return []*TextBlock{&j.Requirements, &j.Qualifications, &j.Responsibilities, &j.Skills, &j.Benefits, &j.Role}
}

// JobDetails is a posting together with its poster's public profile.
type JobDetails struct {
	Job
	Poster *UserSummary `json:"poster,omitempty"`
}

type JobPatch struct {
	Company          *JobCompany `json:"company"`
	Contract         *string     `json:"contract"`
	Position         *string     `json:"position"`
	Location         *string     `json:"location"`
	Description      *string     `json:"description"`
	Requirements     *TextBlock  `json:"requirements"`
	Qualifications   *TextBlock  `json:"qualifications"`
	Responsibilities *TextBlock  `json:"responsibilities"`
	Skills           *TextBlock  `json:"skills"`
	Benefits         *TextBlock  `json:"benefits"`
	Role             *TextBlock  `json:"role"`
	Status           *string     `json:"status"`
}

func (p JobPatch) Apply(j *Job) {
	if p.Company != nil {
		j.Company = *p.Company
	}
	setString(&j.Contract, p.Contract)
	setString(&j.Position, p.Position)
	setString(&j.Location, p.Location)
	setString(&j.Description, p.Description)
	setBlock(&j.Requirements, p.Requirements)
	setBlock(&j.Qualifications, p.Qualifications)
	setBlock(&j.Responsibilities, p.Responsibilities)
	setBlock(&j.Skills, p.Skills)
	setBlock(&j.Benefits, p.Benefits)
	setBlock(&j.Role, p.Role)
	setString(&j.Status, p.Status)
}

func setBlock(dst *TextBlock, src *TextBlock) {
	if src != nil {
		*dst = *src
	}
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	// List returns postings newest first; an empty status matches all.
	List(ctx context.Context, status string) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
	// AppendApplication pushes appliedJobID onto the job's appliedJobs in a single write.
	AppendApplication(ctx context.Context, jobID, appliedJobID string) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, userID string, job *Job) (*Job, error)
	GetJob(ctx context.Context, id string) (*JobDetails, error)
	ListJobs(ctx context.Context, status string) ([]Job, error)
	UpdateJob(ctx context.Context, id string, patch JobPatch) (*Job, error)
	DeleteJob(ctx context.Context, id string) error
}
