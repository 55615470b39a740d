package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobboard-api/internal/delivery/http/middleware"
	"jobboard-api/internal/domain"
	"jobboard-api/internal/usecase"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJobID = "5b0f1f44-3d7e-4c2b-9a57-0c7f3b1b9e11"

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) Register(ctx context.Context, input domain.RegisterInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockAuthUsecase) UpdateEmail(ctx context.Context, userID, newEmail string) (*domain.User, error) {
	args := m.Called(ctx, userID, newEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUsecase) UpdatePassword(ctx context.Context, userID string, input domain.UpdatePasswordInput) error {
	return m.Called(ctx, userID, input).Error(0)
}

type MockJobUsecase struct{ mock.Mock }

func (m *MockJobUsecase) CreateJob(ctx context.Context, userID string, job *domain.Job) (*domain.Job, error) {
	args := m.Called(ctx, userID, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUsecase) GetJob(ctx context.Context, id string) (*domain.JobDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobDetails), args.Error(1)
}

func (m *MockJobUsecase) ListJobs(ctx context.Context, status string) ([]domain.Job, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobUsecase) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUsecase) DeleteJob(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockApplicationUsecase struct{ mock.Mock }

func (m *MockApplicationUsecase) ApplyWithExistingCV(ctx context.Context, jobID, userID string) (*domain.AppliedJob, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedJob), args.Error(1)
}

func (m *MockApplicationUsecase) ApplyWithNewCV(ctx context.Context, jobID, userID string, cv *domain.FileUpload) (*domain.AppliedJob, error) {
	args := m.Called(ctx, jobID, userID, cv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedJob), args.Error(1)
}

type MockAddressUsecase struct{ mock.Mock }

func (m *MockAddressUsecase) Create(ctx context.Context, userID string, rec *domain.Address) (*domain.Address, error) {
	args := m.Called(ctx, userID, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressUsecase) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressUsecase) Update(ctx context.Context, id string, patch domain.Patch[domain.Address]) (*domain.Address, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressUsecase) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAddressUsecase) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

// asCaller stands in for AuthMiddleware: it trusts X-Test-User and fails closed without it.
func asCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-Test-User")
		if userID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		identity := domain.Identity{UserID: userID, Role: domain.RoleUser}
		c.Set(string(domain.KeyIdentity), identity)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func testEngine() (*gin.Engine, *gin.RouterGroup, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	public := r.Group("/v1")
	protected := public.Group("", asCaller())
	return r, public, protected
}

func serve(r *gin.Engine, method, path, user string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler(t *testing.T) {
	authUC := new(MockAuthUsecase)
	r, public, protected := testEngine()
	NewAuthHandler(public, protected, authUC, security.NopAuditLogger(), func(c *gin.Context) { c.Next() })

	t.Run("Register returns the new user id", func(t *testing.T) {
		input := domain.RegisterInput{Name: "Ada Lovelace", Email: "ada@example.com", Password: "s3cretpass"}
		authUC.On("Register", mock.Anything, input).Return("u-1", nil).Once()

		payload, _ := json.Marshal(input)
		w := serve(r, http.MethodPost, "/v1/auth/register", "", payload, "application/json")

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "u-1", body["userId"])
		assert.Equal(t, "User registered successfully", body["message"])
		assert.NotEmpty(t, body["request_id"])
	})

	t.Run("Register rejects a malformed body", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/v1/auth/register", "", []byte("{not json"), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeBody(t, w)["message"])
	})

	t.Run("Login returns user and token side by side", func(t *testing.T) {
		input := domain.LoginInput{Email: "ada@example.com", Password: "s3cretpass"}
		authUC.On("Login", mock.Anything, input).
			Return(&domain.LoginResult{User: &domain.User{ID: "u-1", Email: input.Email}, Token: "jwt"}, nil).Once()

		payload, _ := json.Marshal(input)
		w := serve(r, http.MethodPost, "/v1/auth/login", "", payload, "application/json")

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "jwt", body["token"])
		assert.Equal(t, "u-1", body["user"].(map[string]interface{})["id"])
	})

	t.Run("Login failure keeps the usecase message", func(t *testing.T) {
		input := domain.LoginInput{Email: "ada@example.com", Password: "wrongpass"}
		authUC.On("Login", mock.Anything, input).Return(nil, usecase.ErrInvalidCredentials).Once()

		payload, _ := json.Marshal(input)
		w := serve(r, http.MethodPost, "/v1/auth/login", "", payload, "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid email or password", decodeBody(t, w)["message"])
	})

	t.Run("UpdateEmail acts on the caller", func(t *testing.T) {
		authUC.On("UpdateEmail", mock.Anything, "u-1", "new@example.com").
			Return(&domain.User{ID: "u-1", Email: "new@example.com"}, nil).Once()

		w := serve(r, http.MethodPut, "/v1/auth/email", "u-1", []byte(`{"newEmail":"new@example.com"}`), "application/json")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "new@example.com", decodeBody(t, w)["user"].(map[string]interface{})["email"])
	})

	authUC.AssertExpectations(t)
}

func TestJobHandler(t *testing.T) {
	jobUC := new(MockJobUsecase)
	applyUC := new(MockApplicationUsecase)
	r, public, protected := testEngine()
	NewJobHandler(public, protected, protected, jobUC, applyUC, 1<<20)

	t.Run("Get rejects a malformed id before the usecase", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/v1/jobs/not-a-uuid", "", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid job ID", decodeBody(t, w)["message"])
		jobUC.AssertNotCalled(t, "GetJob", mock.Anything, mock.Anything)
	})

	t.Run("Get maps a missing job to 404", func(t *testing.T) {
		jobUC.On("GetJob", mock.Anything, testJobID).Return(nil, apperror.NotFound("Job not found")).Once()
		w := serve(r, http.MethodGet, "/v1/jobs/"+testJobID, "", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Job not found", decodeBody(t, w)["message"])
	})

	t.Run("List always returns an array", func(t *testing.T) {
		jobUC.On("ListJobs", mock.Anything, "open").Return(nil, nil).Once()
		w := serve(r, http.MethodGet, "/v1/jobs?status=open", "", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{}, decodeBody(t, w)["jobs"])
	})

	t.Run("Create requires a caller", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/v1/jobs", "", []byte(`{}`), "application/json")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Apply uses the stored CV", func(t *testing.T) {
		applyUC.On("ApplyWithExistingCV", mock.Anything, testJobID, "u-1").
			Return(&domain.AppliedJob{ID: "a-1", JobID: testJobID, UserID: "u-1"}, nil).Once()

		w := serve(r, http.MethodPost, "/v1/jobs/"+testJobID+"/apply", "u-1", nil, "")

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "a-1", decodeBody(t, w)["appliedJob"].(map[string]interface{})["id"])
	})

	t.Run("ApplyWithCV forwards the uploaded file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("cv", "cv.pdf")
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, mw.Close())

		applyUC.On("ApplyWithNewCV", mock.Anything, testJobID, "u-1", mock.MatchedBy(func(f *domain.FileUpload) bool {
			return f != nil && f.Filename == "cv.pdf" && strings.HasPrefix(string(f.Data), "%PDF")
		})).Return(&domain.AppliedJob{ID: "a-2", CV: "https://cdn.example.com/cvs/u-1/cv.pdf"}, nil).Once()

		w := serve(r, http.MethodPost, "/v1/jobs/"+testJobID+"/apply/cv", "u-1", buf.Bytes(), mw.FormDataContentType())

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "a-2", decodeBody(t, w)["appliedJob"].(map[string]interface{})["id"])
	})

	t.Run("ApplyWithCV rejects files over the limit", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("cv", "huge.pdf")
		require.NoError(t, err)
		_, _ = part.Write(bytes.Repeat([]byte("a"), 2<<20))
		require.NoError(t, mw.Close())

		w := serve(r, http.MethodPost, "/v1/jobs/"+testJobID+"/apply/cv", "u-1", buf.Bytes(), mw.FormDataContentType())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"cv"`)
	})

	jobUC.AssertExpectations(t)
	applyUC.AssertExpectations(t)
}

func TestResourceHandler(t *testing.T) {
	addrUC := new(MockAddressUsecase)
	r, public, protected := testEngine()
	NewResourceHandler[domain.Address, domain.AddressPatch](addrUC, "Address", "address", "addresses").
		Register(public, protected, "addresses", true)

	t.Run("Create binds the body and attributes the caller", func(t *testing.T) {
		addrUC.On("Create", mock.Anything, "u-1", mock.MatchedBy(func(a *domain.Address) bool {
			return a.City == "Lyon" && a.Country == "France"
		})).Return(&domain.Address{ID: "ad-1", UserID: "u-1", City: "Lyon", Country: "France"}, nil).Once()

		w := serve(r, http.MethodPost, "/v1/addresses", "u-1", []byte(`{"city":"Lyon","country":"France"}`), "application/json")

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Address created successfully", body["message"])
		assert.Equal(t, "ad-1", body["address"].(map[string]interface{})["id"])
	})

	t.Run("Get names the entity in id errors", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/v1/addresses/42", "", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid address ID", decodeBody(t, w)["message"])
	})

	t.Run("Update passes the typed patch", func(t *testing.T) {
		addrUC.On("Update", mock.Anything, testJobID, mock.MatchedBy(func(p domain.Patch[domain.Address]) bool {
			ap, ok := p.(domain.AddressPatch)
			return ok && ap.City != nil && *ap.City == "Paris" && ap.Country == nil
		})).Return(&domain.Address{ID: testJobID, City: "Paris"}, nil).Once()

		w := serve(r, http.MethodPut, "/v1/addresses/"+testJobID, "u-1", []byte(`{"city":"Paris"}`), "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Delete surfaces forbidden", func(t *testing.T) {
		addrUC.On("Delete", mock.Anything, testJobID).Return(apperror.Forbidden("Forbidden")).Once()
		w := serve(r, http.MethodDelete, "/v1/addresses/"+testJobID, "u-2", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ListMine returns an empty array for no records", func(t *testing.T) {
		addrUC.On("ListByUser", mock.Anything, "u-3").Return(nil, nil).Once()
		w := serve(r, http.MethodGet, "/v1/account/addresses", "u-3", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{}, decodeBody(t, w)["addresses"])
	})

	addrUC.AssertExpectations(t)
}
