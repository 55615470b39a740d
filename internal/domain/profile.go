package domain

import (
	"context"
	"time"
)

// Owned is implemented by pointers to child records that belong to exactly one user
// and are listed on that user under RefField.
type Owned interface {
	GetID() string
	SetID(id string)
	GetUserID() string
	SetUserID(userID string)
	RefField() RefField
	// Clean rewrites free-text fields through clean.
	Clean(clean func(string) string)
}

// Patch is a partial update; nil fields are left untouched.
type Patch[T any] interface {
	Apply(rec *T)
}

type OwnedStore[T any] interface {
	Create(ctx context.Context, rec *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]T, error)
}

// ProfileUsecase is the create/read/update/delete surface shared by every owned record type.
type ProfileUsecase[T any] interface {
	Create(ctx context.Context, userID string, rec *T) (*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, patch Patch[T]) (*T, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]T, error)
}

// ---------------------------------------------------------------------------
// Address

type Address struct {
	ID      string `json:"id" bson:"_id"`
	UserID  string `json:"userId" bson:"userId"`
	Street  string `json:"street" bson:"street" validate:"max=200"`
	City    string `json:"city" bson:"city" validate:"required,max=100"`
	State   string `json:"state" bson:"state" validate:"max=100"`
	Zip     string `json:"zip" bson:"zip" validate:"max=20"`
	Country string `json:"country" bson:"country" validate:"required,max=100"`
}

func (a *Address) GetID() string       { return a.ID }
func (a *Address) SetID(id string)     { a.ID = id }
func (a *Address) GetUserID() string   { return a.UserID }
func (a *Address) SetUserID(id string) { a.UserID = id }
func (a *Address) RefField() RefField  { return RefAddresses }
func (a *Address) Clean(f func(string) string) {
	a.Street, a.City, a.State, a.Zip, a.Country = f(a.Street), f(a.City), f(a.State), f(a.Zip), f(a.Country)
}

type AddressPatch struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zip     *string `json:"zip"`
	Country *string `json:"country"`
}

func (p AddressPatch) Apply(a *Address) {
	setString(&a.Street, p.Street)
	setString(&a.City, p.City)
	setString(&a.State, p.State)
	setString(&a.Zip, p.Zip)
	setString(&a.Country, p.Country)
}

// ---------------------------------------------------------------------------
// Education

type Education struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	Degree      string    `json:"degree" bson:"degree" validate:"required,max=150"`
	Institution string    `json:"institution" bson:"institution" validate:"required,max=150"`
	StartDate   time.Time `json:"startDate" bson:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" bson:"endDate" validate:"required,gtefield=StartDate"`
	Description string    `json:"description" bson:"description" validate:"max=2000"`
}

func (e *Education) GetID() string       { return e.ID }
func (e *Education) SetID(id string)     { e.ID = id }
func (e *Education) GetUserID() string   { return e.UserID }
func (e *Education) SetUserID(id string) { e.UserID = id }
func (e *Education) RefField() RefField  { return RefEducations }
func (e *Education) Clean(f func(string) string) {
	e.Degree, e.Institution, e.Description = f(e.Degree), f(e.Institution), f(e.Description)
}

type EducationPatch struct {
	Degree      *string    `json:"degree"`
	Institution *string    `json:"institution"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description *string    `json:"description"`
}

func (p EducationPatch) Apply(e *Education) {
	setString(&e.Degree, p.Degree)
	setString(&e.Institution, p.Institution)
	setTime(&e.StartDate, p.StartDate)
	setTime(&e.EndDate, p.EndDate)
	setString(&e.Description, p.Description)
}

// ---------------------------------------------------------------------------
// Experience

type Experience struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	JobTitle    string    `json:"jobTitle" bson:"jobTitle" validate:"required,max=150"`
	Company     string    `json:"company" bson:"company" validate:"required,max=150"`
	StartDate   time.Time `json:"startDate" bson:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" bson:"endDate" validate:"required,gtefield=StartDate"`
	Description string    `json:"description" bson:"description" validate:"max=2000"`
}

func (e *Experience) GetID() string       { return e.ID }
func (e *Experience) SetID(id string)     { e.ID = id }
func (e *Experience) GetUserID() string   { return e.UserID }
func (e *Experience) SetUserID(id string) { e.UserID = id }
func (e *Experience) RefField() RefField  { return RefExperiences }
func (e *Experience) Clean(f func(string) string) {
	e.JobTitle, e.Company, e.Description = f(e.JobTitle), f(e.Company), f(e.Description)
}

type ExperiencePatch struct {
	JobTitle    *string    `json:"jobTitle"`
	Company     *string    `json:"company"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description *string    `json:"description"`
}

func (p ExperiencePatch) Apply(e *Experience) {
	setString(&e.JobTitle, p.JobTitle)
	setString(&e.Company, p.Company)
	setTime(&e.StartDate, p.StartDate)
	setTime(&e.EndDate, p.EndDate)
	setString(&e.Description, p.Description)
}

// ---------------------------------------------------------------------------
// Skill

const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

type Skill struct {
	ID          string `json:"id" bson:"_id"`
	UserID      string `json:"userId" bson:"userId"`
	Name        string `json:"name" bson:"name" validate:"required,max=100"`
	Description string `json:"description" bson:"description" validate:"max=1000"`
	Proficiency string `json:"proficiency" bson:"proficiency" validate:"required,oneof=beginner intermediate advanced expert"`
}

func (s *Skill) GetID() string       { return s.ID }
func (s *Skill) SetID(id string)     { s.ID = id }
func (s *Skill) GetUserID() string   { return s.UserID }
func (s *Skill) SetUserID(id string) { s.UserID = id }
func (s *Skill) RefField() RefField  { return RefSkills }
func (s *Skill) Clean(f func(string) string) {
	s.Name, s.Description = f(s.Name), f(s.Description)
}

type SkillPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Proficiency *string `json:"proficiency"`
}

func (p SkillPatch) Apply(s *Skill) {
	setString(&s.Name, p.Name)
	setString(&s.Description, p.Description)
	setString(&s.Proficiency, p.Proficiency)
}

// ---------------------------------------------------------------------------
// Company

type Company struct {
	ID             string `json:"id" bson:"_id"`
	UserID         string `json:"userId" bson:"userId"`
	Name           string `json:"name" bson:"name" validate:"required,max=150"`
	Website        string `json:"website" bson:"website" validate:"omitempty,url,max=300"`
	Logo           string `json:"logo" bson:"logo" validate:"omitempty,url,max=500"`
	LogoBackground string `json:"logoBackground" bson:"logoBackground" validate:"max=50"`
}

func (c *Company) GetID() string       { return c.ID }
func (c *Company) SetID(id string)     { c.ID = id }
func (c *Company) GetUserID() string   { return c.UserID }
func (c *Company) SetUserID(id string) { c.UserID = id }
func (c *Company) RefField() RefField  { return RefCompanies }
func (c *Company) Clean(f func(string) string) {
	c.Name, c.LogoBackground = f(c.Name), f(c.LogoBackground)
}

type CompanyPatch struct {
	Name           *string `json:"name"`
	Website        *string `json:"website"`
	Logo           *string `json:"logo"`
	LogoBackground *string `json:"logoBackground"`
}

func (p CompanyPatch) Apply(c *Company) {
	setString(&c.Name, p.Name)
	setString(&c.Website, p.Website)
	setString(&c.Logo, p.Logo)
	setString(&c.LogoBackground, p.LogoBackground)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setTime(dst *time.Time, src *time.Time) {
	if src != nil {
		*dst = *src
	}
}

// ---------------------------------------------------------------------------
// Uploads

// FileUpload is an uploaded file read fully into memory.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type FileStorage interface {
	Upload(ctx context.Context, data []byte, filename, contentType, folder string) (string, error)
}
