package usecase

import (
	"context"
	"strings"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/logger"
	"jobboard-api/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// profileUsecase manages one owned record type and keeps the owner's id list in step.
//
// Create performs two separate writes: the record itself, then a push of its id onto
// the owner's list. There is no transaction and no compensation; if the push fails the
// record stays stored and only a scan by owner finds it.
type profileUsecase[T any, P interface {
	*T
	domain.Owned
}] struct {
	store    domain.OwnedStore[T]
	users    domain.UserRepository
	validate *validator.Validate
	entity   string
}

func newProfileUsecase[T any, P interface {
	*T
	domain.Owned
}](store domain.OwnedStore[T], users domain.UserRepository, validate *validator.Validate, entity string) *profileUsecase[T, P] {
	return &profileUsecase[T, P]{store: store, users: users, validate: validate, entity: entity}
}

func NewAddressUsecase(store domain.OwnedStore[domain.Address], users domain.UserRepository, v *validator.Validate) domain.ProfileUsecase[domain.Address] {
	return newProfileUsecase[domain.Address](store, users, v, "Address")
}

func NewEducationUsecase(store domain.OwnedStore[domain.Education], users domain.UserRepository, v *validator.Validate) domain.ProfileUsecase[domain.Education] {
	return newProfileUsecase[domain.Education](store, users, v, "Education")
}

func NewExperienceUsecase(store domain.OwnedStore[domain.Experience], users domain.UserRepository, v *validator.Validate) domain.ProfileUsecase[domain.Experience] {
	return newProfileUsecase[domain.Experience](store, users, v, "Experience")
}

func NewSkillUsecase(store domain.OwnedStore[domain.Skill], users domain.UserRepository, v *validator.Validate) domain.ProfileUsecase[domain.Skill] {
	return newProfileUsecase[domain.Skill](store, users, v, "Skill")
}

func NewCompanyUsecase(store domain.OwnedStore[domain.Company], users domain.UserRepository, v *validator.Validate) domain.ProfileUsecase[domain.Company] {
	return newProfileUsecase[domain.Company](store, users, v, "Company")
}

func (u *profileUsecase[T, P]) Create(ctx context.Context, userID string, rec *T) (*T, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	p := P(rec)
	p.Clean(validation.Sanitize)
	p.SetID(uuid.NewString())
	p.SetUserID(userID)

	if err := validateStruct(u.validate, rec); err != nil {
		return nil, err
	}
	if err := u.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	if err := u.link(ctx, userID, p.RefField(), p.GetID()); err != nil {
		return nil, err
	}
	return rec, nil
}

// link pushes refID onto the owner's list; the record written before it is left in place on failure.
func (u *profileUsecase[T, P]) link(ctx context.Context, userID string, field domain.RefField, refID string) error {
	if err := u.users.AppendRef(ctx, userID, field, refID); err != nil {
		logger.Log.ErrorContext(ctx, "failed to link record to user",
			"entity", strings.ToLower(u.entity),
			"record_id", refID,
			"user_id", userID,
			"field", string(field),
			"error", err,
		)
		return apperror.Internal(err)
	}
	return nil
}

func (u *profileUsecase[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	return u.store.GetByID(ctx, id)
}

func (u *profileUsecase[T, P]) Update(ctx context.Context, id string, patch domain.Patch[T]) (*T, error) {
	rec, err := u.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := P(rec)
	if err := u.authorize(ctx, p.GetUserID()); err != nil {
		return nil, err
	}

	recID, ownerID := p.GetID(), p.GetUserID()
	patch.Apply(rec)
	p.Clean(validation.Sanitize)
	p.SetID(recID)
	p.SetUserID(ownerID)

	if err := validateStruct(u.validate, rec); err != nil {
		return nil, err
	}
	if err := u.store.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record only; the owner's id list is not touched.
func (u *profileUsecase[T, P]) Delete(ctx context.Context, id string) error {
	rec, err := u.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.authorize(ctx, P(rec).GetUserID()); err != nil {
		return err
	}
	return u.store.Delete(ctx, id)
}

func (u *profileUsecase[T, P]) ListByUser(ctx context.Context, userID string) ([]T, error) {
	return u.store.ListByUser(ctx, userID)
}

func (u *profileUsecase[T, P]) authorize(ctx context.Context, ownerID string) error {
	return authorizeOwner(ctx, ownerID, "You can only modify your own "+strings.ToLower(u.entity)+" records")
}

// authorizeOwner lets the owner or an admin through.
func authorizeOwner(ctx context.Context, ownerID, message string) error {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return apperror.Unauthorized("Unauthorized")
	}
	if !id.CanModify(ownerID) {
		return apperror.Forbidden(message)
	}
	return nil
}
