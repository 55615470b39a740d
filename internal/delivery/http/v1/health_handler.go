package v1

import (
	"net/http"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Failure      503  {object}  response.Envelope
// @Router       /health [get]
func healthHandler(healthUC domain.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := healthUC.Check(c.Request.Context())
		if !ok {
			response.Success(c, http.StatusServiceUnavailable, "System degraded", "health", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", "health", status)
	}
}
