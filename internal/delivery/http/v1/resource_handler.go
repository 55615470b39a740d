package v1

import (
	"net/http"
	"strings"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// ResourceHandler serves create/read/update/delete for one owned record type.
// P is the JSON patch type accepted by PUT.
type ResourceHandler[T any, P domain.Patch[T]] struct {
	uc      domain.ProfileUsecase[T]
	entity  string // used in messages, e.g. "Address"
	key     string // payload key for one record
	listKey string // payload key for a list
}

func NewResourceHandler[T any, P domain.Patch[T]](uc domain.ProfileUsecase[T], entity, key, listKey string) *ResourceHandler[T, P] {
	return &ResourceHandler[T, P]{uc: uc, entity: entity, key: key, listKey: listKey}
}

// Register mounts the routes under path. Reads are public unless publicRead is false.
// The caller's own records are listed at /account/<path>.
func (h *ResourceHandler[T, P]) Register(public, protected *gin.RouterGroup, path string, publicRead bool) {
	readGroup := protected
	if publicRead {
		readGroup = public
	}
	readGroup.GET("/"+path+"/:id", h.Get)

	g := protected.Group("/" + path)
	{
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
	protected.GET("/account/"+path, h.ListMine)
}

func (h *ResourceHandler[T, P]) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var rec T
	if !bindJSON(c, &rec) {
		return
	}

	created, err := h.uc.Create(c.Request.Context(), userID, &rec)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, h.entity+" created successfully", h.key, created)
}

func (h *ResourceHandler[T, P]) Get(c *gin.Context) {
	id, ok := pathID(c, "id", strings.ToLower(h.entity))
	if !ok {
		return
	}

	rec, err := h.uc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.entity+" retrieved successfully", h.key, rec)
}

func (h *ResourceHandler[T, P]) Update(c *gin.Context) {
	id, ok := pathID(c, "id", strings.ToLower(h.entity))
	if !ok {
		return
	}
	var patch P
	if !bindJSON(c, &patch) {
		return
	}

	rec, err := h.uc.Update(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.entity+" updated successfully", h.key, rec)
}

func (h *ResourceHandler[T, P]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", strings.ToLower(h.entity))
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.entity+" deleted successfully", "", nil)
}

func (h *ResourceHandler[T, P]) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	recs, err := h.uc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	if recs == nil {
		recs = []T{}
	}
	response.Success(c, http.StatusOK, h.entity+" records retrieved successfully", h.listKey, recs)
}
