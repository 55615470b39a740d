package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/auth"
	"jobboard-api/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by Login for unknown emails and wrong passwords alike.
var ErrInvalidCredentials = apperror.BadRequest("Invalid email or password")

type authUsecase struct {
	users       domain.UserRepository
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	validate    *validator.Validate
	adminEmails map[string]bool
}

func NewAuthUsecase(
	users domain.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	validate *validator.Validate,
	adminEmails []string,
) domain.AuthUsecase {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	return &authUsecase{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		validate:    validate,
		adminEmails: admins,
	}
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (string, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:         uuid.NewString(),
		Name:       validation.Sanitize(input.Name),
		Email:      normalizeEmail(input.Email),
		Occupation: validation.Sanitize(input.Occupation),
		Phone:      strings.TrimSpace(input.Phone),
		Role:       domain.RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if u.adminEmails[user.Email] {
		user.Role = domain.RoleAdmin
	}

	if err := validateStruct(u.validate, user); err != nil {
		return "", err
	}
	if err := validateField(u.validate, "password", input.Password, passwordRule); err != nil {
		return "", err
	}

	if err := u.ensureEmailFree(ctx, user.Email); err != nil {
		return "", err
	}
	if user.Phone != "" {
		if err := u.ensurePhoneFree(ctx, user.Phone); err != nil {
			return "", err
		}
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return "", apperror.Internal(err)
	}
	user.Password = hash

	if err := u.users.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (u *authUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.LoginResult, error) {
	user, err := u.users.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := u.hasher.Compare(user.Password, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal(err)
	}

	token, err := u.tokens.Sign(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.LoginResult{User: user, Token: token}, nil
}

func (u *authUsecase) UpdateEmail(ctx context.Context, userID, newEmail string) (*domain.User, error) {
	email := normalizeEmail(newEmail)
	if err := validateField(u.validate, "newEmail", email, "required,email,max=254"); err != nil {
		return nil, err
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == email {
		return user, nil
	}
	if err := u.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) UpdatePassword(ctx context.Context, userID string, input domain.UpdatePasswordInput) error {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := u.hasher.Compare(user.Password, input.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperror.BadRequest("Current password is incorrect")
		}
		return apperror.Internal(err)
	}
	if err := validateField(u.validate, "newPassword", input.NewPassword, passwordRule); err != nil {
		return err
	}

	hash, err := u.hasher.Hash(input.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	user.Password = hash
	user.UpdatedAt = time.Now().UTC()
	return u.users.Update(ctx, user)
}

func (u *authUsecase) ensureEmailFree(ctx context.Context, email string) error {
	_, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return apperror.Conflict("User with this email already exists")
	case apperror.IsNotFound(err):
		return nil
	}
	return err
}

func (u *authUsecase) ensurePhoneFree(ctx context.Context, phone string) error {
	_, err := u.users.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		return apperror.Conflict("User with this phone number already exists")
	case apperror.IsNotFound(err):
		return nil
	}
	return err
}
