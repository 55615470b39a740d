package v1

import (
	"net/http"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountUC domain.AccountUsecase
	maxUpload int64
}

func NewAccountHandler(protected *gin.RouterGroup, accountUC domain.AccountUsecase, maxUpload int64) {
	handler := &AccountHandler{accountUC: accountUC, maxUpload: maxUpload}

	account := protected.Group("/account")
	{
		account.GET("", handler.GetMe)
		account.PUT("", handler.Update)
		account.DELETE("", handler.Delete)
		account.GET("/email/:email", handler.GetByEmail)
		account.GET("/:userId", handler.GetByID)
	}
}

// GetAccount godoc
// @Summary      Get the caller's account
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.ErrorEnvelope
// @Router       /account [get]
// @Security     BearerAuth
func (h *AccountHandler) GetMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	h.respondUser(c, func() (*domain.User, error) {
		return h.accountUC.GetAccount(c.Request.Context(), userID)
	})
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}
	h.respondUser(c, func() (*domain.User, error) {
		return h.accountUC.GetAccount(c.Request.Context(), userID)
	})
}

func (h *AccountHandler) GetByEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.Error(apperror.BadRequest("Invalid email"))
		return
	}
	h.respondUser(c, func() (*domain.User, error) {
		return h.accountUC.GetByEmail(c.Request.Context(), email)
	})
}

func (h *AccountHandler) respondUser(c *gin.Context, get func() (*domain.User, error)) {
	user, err := get()
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved successfully", "user", user)
}

// UpdateAccount godoc
// @Summary      Update the caller's profile
// @Description  Only the fields sent are changed. profileImage is downscaled before upload.
// @Tags         account
// @Accept       multipart/form-data
// @Produce      json
// @Param        name          formData  string  false  "Name"
// @Param        email         formData  string  false  "Email"
// @Param        occupation    formData  string  false  "Occupation"
// @Param        phone         formData  string  false  "Phone"
// @Param        profileImage  formData  file    false  "Profile image"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.ErrorEnvelope
// @Failure      409  {object}  response.ErrorEnvelope
// @Router       /account [put]
// @Security     BearerAuth
func (h *AccountHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	img, err := formFile(c, "profileImage", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}
	patch := domain.AccountPatch{
		Name:         optionalForm(c, "name"),
		Email:        optionalForm(c, "email"),
		Occupation:   optionalForm(c, "occupation"),
		Phone:        optionalForm(c, "phone"),
		ProfileImage: img,
	}

	user, err := h.accountUC.UpdateAccount(c.Request.Context(), userID, patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", "user", user)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.accountUC.DeleteAccount(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", "", nil)
}
