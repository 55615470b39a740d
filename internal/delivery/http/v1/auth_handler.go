package v1

import (
	"errors"
	"net/http"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"
	"jobboard-api/internal/usecase"
	"jobboard-api/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	audit  *security.AuditLogger
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, audit *security.AuditLogger, limit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, audit: audit}

	authGroup := public.Group("/auth", limit)
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.PUT("/email", handler.UpdateEmail)
		protectedAuth.PUT("/password", handler.UpdatePassword)
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body      domain.RegisterInput  true  "Registration"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.ErrorEnvelope
// @Failure      409   {object}  response.ErrorEnvelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	userID, err := h.authUC.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "User registered successfully", "userId", userID)
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      domain.LoginInput  true  "Credentials"
// @Success      200          {object}  response.Envelope
// @Failure      400          {object}  response.ErrorEnvelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	reqID := domain.RequestIDFromContext(ctx)
	res, err := h.authUC.Login(ctx, req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.audit.LogLoginFailed(ctx, req.Email, c.ClientIP(), reqID, "invalid_credentials")
		}
		c.Error(err)
		return
	}
	h.audit.LogLoginSuccess(ctx, res.User.ID, c.ClientIP(), reqID)

	response.SuccessFields(c, http.StatusOK, "Login successful", gin.H{
		"user":  res.User,
		"token": res.Token,
	})
}

// UpdateEmail godoc
// @Summary      Change the caller's email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UpdateEmailInput  true  "New email"
// @Success      200   {object}  response.Envelope
// @Failure      409   {object}  response.ErrorEnvelope
// @Router       /auth/email [put]
// @Security     BearerAuth
func (h *AuthHandler) UpdateEmail(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req domain.UpdateEmailInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.UpdateEmail(c.Request.Context(), userID, req.NewEmail)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email updated successfully", "user", user)
}

// UpdatePassword godoc
// @Summary      Change the caller's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UpdatePasswordInput  true  "Passwords"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.ErrorEnvelope
// @Router       /auth/password [put]
// @Security     BearerAuth
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req domain.UpdatePasswordInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.UpdatePassword(c.Request.Context(), userID, req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated successfully", "", nil)
}
