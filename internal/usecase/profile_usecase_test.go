package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/internal/usecase"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func asUser(id string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: id, Role: domain.RoleUser})
}

func asAdmin(id string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: id, Role: domain.RoleAdmin})
}

func TestProfileCreateLinksOwner(t *testing.T) {
	store := newMemStore[domain.Address]()
	mockRepo := new(MockUserRepo)
	uc := usecase.NewAddressUsecase(store, mockRepo, validation.New())
	ctx := asUser("u1")

	mockRepo.On("AppendRef", ctx, "u1", domain.RefAddresses, mock.AnythingOfType("string")).Return(nil).Once()

	addr, err := uc.Create(ctx, "u1", &domain.Address{UserID: "someone-else", City: " <b>Lisbon</b> ", Country: "PT"})
	require.NoError(t, err)

	assert.NotEmpty(t, addr.ID)
	assert.Equal(t, "u1", addr.UserID)
	assert.Equal(t, "Lisbon", addr.City)
	mockRepo.AssertNumberOfCalls(t, "AppendRef", 1)
	mockRepo.AssertCalled(t, "AppendRef", ctx, "u1", domain.RefAddresses, addr.ID)
	assert.Equal(t, 1, store.len())
}

func TestProfileCreateLinkFailureKeepsRecord(t *testing.T) {
	store := newMemStore[domain.Skill]()
	users := newMemUsers(&domain.User{ID: "u1"})
	users.appendRefErr = errors.New("connection reset")
	uc := usecase.NewSkillUsecase(store, users, validation.New())

	_, err := uc.Create(asUser("u1"), "u1", &domain.Skill{Name: "Go", Proficiency: domain.ProficiencyExpert})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))

	t.Run("Should leave the record findable by owner", func(t *testing.T) {
		skills, err := uc.ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, "Go", skills[0].Name)
	})

	t.Run("Should leave the owner's list empty", func(t *testing.T) {
		u, _ := users.GetByID(context.Background(), "u1")
		assert.Empty(t, u.Skills)
	})
}

func TestProfileCreateValidation(t *testing.T) {
	store := newMemStore[domain.Education]()
	mockRepo := new(MockUserRepo)
	uc := usecase.NewEducationUsecase(store, mockRepo, validation.New())
	start := time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Should reject an end date before the start date", func(t *testing.T) {
		_, err := uc.Create(asUser("u1"), "u1", &domain.Education{
			Degree:      "BSc",
			Institution: "Uni",
			StartDate:   start,
			EndDate:     start.AddDate(-1, 0, 0),
		})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindInvalidInput, appErr.Kind)
		details := appErr.Details.([]validation.FieldError)
		require.Len(t, details, 1)
		assert.Equal(t, "endDate", details[0].Field)
	})

	t.Run("Should reject missing required fields", func(t *testing.T) {
		_, err := uc.Create(asUser("u1"), "u1", &domain.Education{})
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
	})

	t.Run("Should require an owner", func(t *testing.T) {
		_, err := uc.Create(context.Background(), "", &domain.Education{})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))
	})

	assert.Equal(t, 0, store.len())
	mockRepo.AssertNotCalled(t, "AppendRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileUpdateAuthorization(t *testing.T) {
	store := newMemStore[domain.Experience]()
	users := newMemUsers(&domain.User{ID: "owner"})
	uc := usecase.NewExperienceUsecase(store, users, validation.New())

	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	exp, err := uc.Create(asUser("owner"), "owner", &domain.Experience{
		JobTitle: "Dev", Company: "Acme", StartDate: start, EndDate: start.AddDate(2, 0, 0),
	})
	require.NoError(t, err)

	title := "Senior Dev"
	patch := domain.ExperiencePatch{JobTitle: &title}

	t.Run("Should forbid another user", func(t *testing.T) {
		_, err := uc.Update(asUser("intruder"), exp.ID, patch)
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
		err = uc.Delete(asUser("intruder"), exp.ID)
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	})

	t.Run("Should require authentication", func(t *testing.T) {
		_, err := uc.Update(context.Background(), exp.ID, patch)
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))
	})

	t.Run("Should let the owner update and keep ownership", func(t *testing.T) {
		updated, err := uc.Update(asUser("owner"), exp.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, "Senior Dev", updated.JobTitle)
		assert.Equal(t, "owner", updated.UserID)
		assert.Equal(t, exp.ID, updated.ID)
	})

	t.Run("Should validate the merged record", func(t *testing.T) {
		end := start.AddDate(-1, 0, 0)
		_, err := uc.Update(asUser("owner"), exp.ID, domain.ExperiencePatch{EndDate: &end})
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
	})

	t.Run("Should let an admin delete without touching the owner's list", func(t *testing.T) {
		require.NoError(t, uc.Delete(asAdmin("root"), exp.ID))
		_, err := uc.GetByID(context.Background(), exp.ID)
		assert.True(t, apperror.IsNotFound(err))

		u, _ := users.GetByID(context.Background(), "owner")
		assert.Equal(t, []string{exp.ID}, u.Experiences)
	})
}

func TestProfileFreeTextRoundTrips(t *testing.T) {
	store := newMemStore[domain.Skill]()
	uc := usecase.NewSkillUsecase(store, newMemUsers(&domain.User{ID: "u1"}), validation.New())
	ctx := asUser("u1")

	created, err := uc.Create(ctx, "u1", &domain.Skill{
		Name:        "R&D",
		Description: `Tom's "quoted" 1 < 2`,
		Proficiency: domain.ProficiencyAdvanced,
	})
	require.NoError(t, err)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "R&D", got.Name)
	assert.Equal(t, `Tom's "quoted" 1 < 2`, got.Description)

	name := "Sales & Marketing"
	updated, err := uc.Update(ctx, created.ID, domain.SkillPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sales & Marketing", updated.Name)
}

// sameJSON fetches twice and requires byte-identical encodings.
func sameJSON(t *testing.T, fetch func() (interface{}, error)) {
	t.Helper()
	first, err := fetch()
	require.NoError(t, err)
	second, err := fetch()
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGetByIDIsStable(t *testing.T) {
	users := newMemUsers(&domain.User{ID: "u1", Name: "Jo O'Neil", Email: "jo@example.com", Occupation: "Dev", Role: domain.RoleUser})
	v := validation.New()
	ctx := asUser("u1")

	t.Run("Address", func(t *testing.T) {
		uc := usecase.NewAddressUsecase(newMemStore[domain.Address](), users, v)
		addr, err := uc.Create(ctx, "u1", &domain.Address{Street: "1 Rue & Co", City: "Lyon", Country: "FR"})
		require.NoError(t, err)
		sameJSON(t, func() (interface{}, error) { return uc.GetByID(context.Background(), addr.ID) })
	})

	t.Run("Skill", func(t *testing.T) {
		uc := usecase.NewSkillUsecase(newMemStore[domain.Skill](), users, v)
		skill, err := uc.Create(ctx, "u1", &domain.Skill{Name: "Go", Proficiency: domain.ProficiencyExpert})
		require.NoError(t, err)
		sameJSON(t, func() (interface{}, error) { return uc.GetByID(context.Background(), skill.ID) })
	})

	t.Run("Job", func(t *testing.T) {
		uc, _, _, _ := newJobFixture()
		job, err := uc.CreateJob(asUser("poster"), "poster", sampleJob())
		require.NoError(t, err)
		sameJSON(t, func() (interface{}, error) { return uc.GetJob(context.Background(), job.ID) })
	})

	t.Run("Account", func(t *testing.T) {
		uc := usecase.NewAccountUsecase(users, new(MockStorage), v)
		sameJSON(t, func() (interface{}, error) { return uc.GetAccount(context.Background(), "u1") })
	})
}
