package middleware

import (
	"errors"
	"net/http"
	"strings"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/auth"
	"jobboard-api/pkg/logger"
	"jobboard-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// Policy selects what the access gate requires beyond a valid token.
type Policy int

const (
	// PolicyAuthenticated admits any verified user.
	PolicyAuthenticated Policy = iota
	// PolicyUser behaves exactly like PolicyAuthenticated; it marks routes meant for applicants.
	PolicyUser
	// PolicyAdmin additionally requires the stored role to be admin.
	PolicyAdmin
)

type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// AuthMiddleware verifies the bearer token, loads the user it names and enforces policy.
// The role is read from the stored user, not from the token.
func AuthMiddleware(tokens TokenVerifier, users domain.IdentityResolver, audit *security.AuditLogger, policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		reqID := c.GetString(string(domain.KeyRequestID))

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || tokenString == "" {
			audit.LogUnauthorized(ctx, c.ClientIP(), reqID, c.FullPath(), "missing bearer token")
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			audit.LogUnauthorized(ctx, c.ClientIP(), reqID, c.FullPath(), err.Error())
			response.Error(c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			if apperror.IsNotFound(err) {
				response.Error(c, http.StatusNotFound, "User not found", nil)
			} else {
				logger.Log.ErrorContext(ctx, "failed to resolve token subject", "user_id", claims.UserID, "error", err)
				response.Error(c, http.StatusInternalServerError, apperror.InternalMessage, nil)
			}
			c.Abort()
			return
		}

		identity := domain.Identity{UserID: user.ID, Role: user.Role}
		if policy == PolicyAdmin && !identity.IsAdmin() {
			audit.LogAdminDenied(ctx, user.ID, c.ClientIP(), reqID, c.FullPath())
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyIdentity), identity)
		c.Request = c.Request.WithContext(domain.WithIdentity(ctx, identity))
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(string(domain.KeyIdentity))
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok && id.UserID != ""
}
