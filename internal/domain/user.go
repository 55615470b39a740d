package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// RefField names a list of child identifiers kept on the User document.
type RefField string

const (
	RefAddresses   RefField = "addresses"
	RefCompanies   RefField = "companies"
	RefEducations  RefField = "educations"
	RefExperiences RefField = "experiences"
	RefSkills      RefField = "skills"
	RefAppliedJobs RefField = "appliedJobs"
)

func (f RefField) Valid() bool {
	switch f {
	case RefAddresses, RefCompanies, RefEducations, RefExperiences, RefSkills, RefAppliedJobs:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100,valid_name"`
	Email        string    `json:"email" bson:"email" validate:"required,email,max=254"`
	Occupation   string    `json:"occupation" bson:"occupation" validate:"required,max=100,no_emoji"`
	Password     string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"valid_phone"`
	ProfileImage string    `json:"profileImage" bson:"profileImage"`
	CV           string    `json:"cv" bson:"cv"`
	Addresses    []string  `json:"addresses" bson:"addresses,omitempty"`
	Companies    []string  `json:"companies" bson:"companies,omitempty"`
	Educations   []string  `json:"educations" bson:"educations,omitempty"`
	Experiences  []string  `json:"experiences" bson:"experiences,omitempty"`
	Skills       []string  `json:"skills" bson:"skills,omitempty"`
	AppliedJobs  []string  `json:"appliedJobs" bson:"appliedJobs,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Refs returns the identifier list stored under field.
func (u *User) Refs(field RefField) []string {
	switch field {
	case RefAddresses:
		return u.Addresses
	case RefCompanies:
		return u.Companies
	case RefEducations:
		return u.Educations
	case RefExperiences:
		return u.Experiences
	case RefSkills:
		return u.Skills
	case RefAppliedJobs:
		return u.AppliedJobs
	}
	return nil
}

// AppendRef adds refID to the list stored under field.
func (u *User) AppendRef(field RefField, refID string) {
	switch field {
	case RefAddresses:
		u.Addresses = append(u.Addresses, refID)
	case RefCompanies:
		u.Companies = append(u.Companies, refID)
	case RefEducations:
		u.Educations = append(u.Educations, refID)
	case RefExperiences:
		u.Experiences = append(u.Experiences, refID)
	case RefSkills:
		u.Skills = append(u.Skills, refID)
	case RefAppliedJobs:
		u.AppliedJobs = append(u.AppliedJobs, refID)
	}
}

// UserSummary is the public subset of a user shown next to job postings.
type UserSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	Occupation   string `json:"occupation"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, ProfileImage: u.ProfileImage, Occupation: u.Occupation}
}

type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Occupation string `json:"occupation"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateEmailInput struct {
	NewEmail string `json:"newEmail"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AccountPatch carries the optional profile fields of PUT /account.
type AccountPatch struct {
	Name         *string
	Email        *string
	Occupation   *string
	Phone        *string
	ProfileImage *FileUpload
}

type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	// AppendRef pushes refID onto the user's field list in a single write.
	AppendRef(ctx context.Context, userID string, field RefField, refID string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	UpdateEmail(ctx context.Context, userID, newEmail string) (*User, error)
	UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) error
}

// IdentityResolver looks up the user behind a verified token.
type IdentityResolver interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

type AccountUsecase interface {
	GetAccount(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateAccount(ctx context.Context, userID string, patch AccountPatch) (*User, error)
	DeleteAccount(ctx context.Context, userID string) error
}
