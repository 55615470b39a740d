package v1

import (
	"fmt"
	"net/http"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"
	"jobboard-api/internal/usecase"

	"github.com/gin-gonic/gin"
)

var exportContentTypes = map[string]string{
	usecase.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	usecase.ExportCSV:  "text/csv; charset=utf-8",
}

type AdminHandler struct {
	adminUC usecase.AdminService
}

// NewAdminHandler mounts the admin routes; admins must be a group guarded by PolicyAdmin.
func NewAdminHandler(admins *gin.RouterGroup, adminUC usecase.AdminService) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := admins.Group("/admin")
	{
		admin.GET("/users", handler.ListUsers)
		admin.PUT("/users/:id/role", handler.SetRole)
		admin.DELETE("/users/:id", handler.DeleteUser)
		admin.GET("/jobs/:id/applications", handler.ListApplications)
		admin.GET("/jobs/:id/applications/export", handler.ExportApplications)
	}
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUC.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	response.Success(c, http.StatusOK, "Users retrieved successfully", "users", users)
}

// SetRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "User ID"
// @Param        body  body      SetRoleRequest  true  "Role"
// @Success      200   {object}  response.Envelope
// @Failure      403   {object}  response.ErrorEnvelope
// @Router       /admin/users/{id}/role [put]
// @Security     BearerAuth
func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	var req SetRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminUC.SetRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role updated successfully", "user", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.adminUC.DeleteUser(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", "", nil)
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	rows, err := h.adminUC.ListApplications(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved successfully", "applications", rows)
}

// ExportApplications godoc
// @Summary      Download a job's applications
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path      string  true   "Job ID"
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Success      200     {file}    binary
// @Router       /admin/jobs/{id}/applications/export [get]
// @Security     BearerAuth
func (h *AdminHandler) ExportApplications(c *gin.Context) {
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", usecase.ExportXLSX)

	data, filename, err := h.adminUC.ExportApplicationsAs(c.Request.Context(), jobID, format)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, exportContentTypes[format], data)
}
