package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard-api/config"
	"jobboard-api/internal/delivery/http/middleware"
	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/auth"
	"jobboard-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticHealth struct{}

func (staticHealth) Check(context.Context) (map[string]string, bool) {
	return map[string]string{"status": "ok", "database": "up"}, true
}

type resolverFunc func(ctx context.Context, id string) (*domain.User, error)

func (f resolverFunc) GetByID(ctx context.Context, id string) (*domain.User, error) { return f(ctx, id) }

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenService("router-secret", time.Hour)
	jobUC := new(MockJobUsecase)
	addrUC := new(MockAddressUsecase)
	audit := security.NopAuditLogger()

	r := NewRouter(RouterDeps{
		JobUC:     jobUC,
		HealthUC:  staticHealth{},
		AddressUC: addrUC,
		Tokens:    tokens,
		Users: resolverFunc(func(_ context.Context, id string) (*domain.User, error) {
			if id == "u1" {
				return &domain.User{ID: "u1", Role: domain.RoleUser}, nil
			}
			return nil, apperror.NotFound("User not found")
		}),
		Audit:       audit,
		RateLimiter: middleware.NewRateLimiter(nil, audit),
		Config: &config.Config{
			GinMode:                  gin.TestMode,
			ClientURL:                "https://jobs.example.com",
			RateLimitWindowSeconds:   60,
			RateLimitAuthThreshold:   10,
			RateLimitGlobalThreshold: 1000,
			MaxUploadMB:              5,
		},
	})

	userToken, err := tokens.Sign("u1", domain.RoleUser)
	require.NoError(t, err)

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Health is public and carries the global headers", func(t *testing.T) {
		w := do(http.MethodGet, "/v1/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("Job listing is public", func(t *testing.T) {
		jobUC.On("ListJobs", mock.Anything, "").Return([]domain.Job{}, nil).Once()
		w := do(http.MethodGet, "/v1/jobs", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Resource reads are public but writes are gated", func(t *testing.T) {
		addrUC.On("GetByID", mock.Anything, testJobID).Return(nil, apperror.NotFound("Address not found")).Once()
		w := do(http.MethodGet, "/v1/addresses/"+testJobID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Address not found")

		w = do(http.MethodPost, "/v1/addresses", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Applied job reads require a token", func(t *testing.T) {
		w := do(http.MethodGet, "/v1/applied-jobs/"+testJobID, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Own records are behind the gate", func(t *testing.T) {
		w := do(http.MethodGet, "/v1/account/addresses", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Admin routes reject anonymous and plain users", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/v1/admin/users", "").Code)

		w := do(http.MethodGet, "/v1/admin/users", userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin access required")
	})

	t.Run("Unknown routes use the error envelope", func(t *testing.T) {
		w := do(http.MethodGet, "/v1/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Route not found")
	})

	t.Run("CORS answers preflight for the client origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/jobs", nil)
		req.Header.Set("Origin", "https://jobs.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "https://jobs.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	jobUC.AssertExpectations(t)
	addrUC.AssertExpectations(t)
}
