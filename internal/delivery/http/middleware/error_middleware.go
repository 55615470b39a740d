package middleware

import (
	"net/http"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := apperror.As(err); ok {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.ErrorContext(c.Request.Context(), "request failed",
					"path", c.FullPath(), "kind", appErr.Kind, "error", err)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.ErrorContext(c.Request.Context(), "unhandled error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, apperror.InternalMessage, nil)
	}
}
