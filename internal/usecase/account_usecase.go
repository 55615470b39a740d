package usecase

import (
	"context"
	"strings"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/logger"
	"jobboard-api/pkg/security"
	"jobboard-api/pkg/storage"
	"jobboard-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	profileImageFolder    = "profile_images"
	profileImageDimension = 512
	profileImageQuality   = 85
)

type accountUsecase struct {
	users    domain.UserRepository
	storage  domain.FileStorage
	validate *validator.Validate
}

func NewAccountUsecase(users domain.UserRepository, storage domain.FileStorage, validate *validator.Validate) domain.AccountUsecase {
	return &accountUsecase{users: users, storage: storage, validate: validate}
}

func (u *accountUsecase) GetAccount(ctx context.Context, userID string) (*domain.User, error) {
	return u.users.GetByID(ctx, userID)
}

func (u *accountUsecase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.users.GetByEmail(ctx, normalizeEmail(email))
}

// UpdateAccount applies the provided fields, validates the result and only then uploads a new profile image.
func (u *accountUsecase) UpdateAccount(ctx context.Context, userID string, patch domain.AccountPatch) (*domain.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = validation.Sanitize(*patch.Name)
	}
	if patch.Occupation != nil {
		user.Occupation = validation.Sanitize(*patch.Occupation)
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email != user.Email {
			if err := u.ensureFree(ctx, u.users.GetByEmail, email, user.ID, "User with this email already exists"); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if patch.Phone != nil {
		phone := strings.TrimSpace(*patch.Phone)
		if phone != "" && phone != user.Phone {
			if err := u.ensureFree(ctx, u.users.GetByPhone, phone, user.ID, "User with this phone number already exists"); err != nil {
				return nil, err
			}
		}
		user.Phone = phone
	}

	if err := validateStruct(u.validate, user); err != nil {
		return nil, err
	}

	if patch.ProfileImage != nil {
		url, err := u.uploadProfileImage(ctx, userID, patch.ProfileImage)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = url
	}

	user.UpdatedAt = time.Now().UTC()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *accountUsecase) uploadProfileImage(ctx context.Context, userID string, img *domain.FileUpload) (string, error) {
	check := security.ValidateFile(security.UploadImage, img.Filename, img.Data)
	if !check.Valid {
		return "", apperror.InvalidInput("Invalid profile image", []validation.FieldError{
			{Field: "profileImage", Message: check.Error},
		})
	}

	data, contentType, filename := img.Data, check.ContentType, img.Filename
	compressed, err := storage.CompressImage(img.Data, profileImageDimension, profileImageQuality)
	if err != nil {
		logger.Log.WarnContext(ctx, "profile image compression failed, storing original", "user_id", userID, "error", err)
	} else {
		data, contentType, filename = compressed, "image/jpeg", "profile.jpg"
	}
	return u.storage.Upload(ctx, data, filename, contentType, profileImageFolder+"/"+userID)
}

func (u *accountUsecase) ensureFree(ctx context.Context, lookup func(context.Context, string) (*domain.User, error), value, selfID, conflictMsg string) error {
	other, err := lookup(ctx, value)
	switch {
	case err == nil && other.ID != selfID:
		return apperror.Conflict(conflictMsg)
	case err == nil, apperror.IsNotFound(err):
		return nil
	}
	return err
}

// DeleteAccount removes the user document; owned records are left for an admin cleanup.
func (u *accountUsecase) DeleteAccount(ctx context.Context, userID string) error {
	return u.users.Delete(ctx, userID)
}
