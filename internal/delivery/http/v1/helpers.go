package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"jobboard-api/internal/delivery/http/middleware"
	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID reads a UUID path parameter, pushing a 400 naming entity when it is malformed.
func pathID(c *gin.Context, param, entity string) (string, bool) {
	id := c.Param(param)
	if _, err := uuid.Parse(id); err != nil {
		c.Error(apperror.BadRequest(fmt.Sprintf("Invalid %s ID", entity)))
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}

// callerID returns the authenticated user's id; routes behind AuthMiddleware always have one.
func callerID(c *gin.Context) (string, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.Error(apperror.Unauthorized("Unauthorized"))
		return "", false
	}
	return id.UserID, true
}

// formFile reads an optional multipart file fully, rejecting anything over maxBytes.
// A missing field yields nil without error.
func formFile(c *gin.Context, field string, maxBytes int64) (*domain.FileUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperror.BadRequest("Invalid multipart form")
	}

	tooLarge := apperror.InvalidInput("Invalid input", []validation.FieldError{
		{Field: field, Message: fmt.Sprintf("must be at most %d MB", maxBytes>>20)},
	})
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, tooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest("Invalid multipart form")
	}
	defer f.Close()

	limit := maxBytes
	if limit <= 0 {
		limit = fh.Size
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if int64(len(data)) > limit {
		return nil, tooLarge
	}
	return &domain.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// optionalForm returns a pointer to a submitted form value, or nil when the field was not sent.
func optionalForm(c *gin.Context, field string) *string {
	v, ok := c.GetPostForm(field)
	if !ok {
		return nil
	}
	return &v
}
