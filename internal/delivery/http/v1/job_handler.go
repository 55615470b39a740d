package v1

import (
	"net/http"

	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC     domain.JobUsecase
	applyUC   domain.ApplicationUsecase
	maxUpload int64
}

func NewJobHandler(public, protected, applicants *gin.RouterGroup, jobUC domain.JobUsecase, applyUC domain.ApplicationUsecase, maxUpload int64) {
	handler := &JobHandler{jobUC: jobUC, applyUC: applyUC, maxUpload: maxUpload}

	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.Get)
	}

	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
	}

	applyJobs := applicants.Group("/jobs")
	{
		applyJobs.POST("/:id/apply", handler.Apply)
		applyJobs.POST("/:id/apply/cv", handler.ApplyWithCV)
	}
}

// ListJobs godoc
// @Summary      List job postings
// @Description  Newest first. Optionally filtered by status.
// @Tags         jobs
// @Produce      json
// @Param        status  query     string  false  "open or closed"
// @Success      200     {object}  response.Envelope
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobUC.ListJobs(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	response.Success(c, http.StatusOK, "Jobs retrieved successfully", "jobs", jobs)
}

// GetJob godoc
// @Summary      Get a job posting
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.ErrorEnvelope
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved successfully", "job", job)
}

// CreateJob godoc
// @Summary      Create a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.Job  true  "Job JSON"
// @Success      201  {object}  response.Envelope
// @Failure      400  {object}  response.ErrorEnvelope
// @Failure      401  {object}  response.ErrorEnvelope
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var job domain.Job
	if !bindJSON(c, &job) {
		return
	}

	created, err := h.jobUC.CreateJob(c.Request.Context(), userID, &job)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", "job", created)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	var patch domain.JobPatch
	if !bindJSON(c, &patch) {
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated successfully", "job", job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted successfully", "", nil)
}

// Apply godoc
// @Summary      Apply to a job with the stored CV
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      201  {object}  response.Envelope
// @Failure      400  {object}  response.ErrorEnvelope
// @Failure      404  {object}  response.ErrorEnvelope
// @Router       /jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *JobHandler) Apply(c *gin.Context) {
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	applied, err := h.applyUC.ApplyWithExistingCV(c.Request.Context(), jobID, userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Applied to job successfully", "appliedJob", applied)
}

// ApplyWithCV godoc
// @Summary      Upload a CV and apply to a job
// @Description  Without a cv file the stored CV is used.
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path      string  true   "Job ID"
// @Param        cv   formData  file    false  "CV (pdf, doc, docx)"
// @Success      201  {object}  response.Envelope
// @Failure      400  {object}  response.ErrorEnvelope
// @Router       /jobs/{id}/apply/cv [post]
// @Security     BearerAuth
func (h *JobHandler) ApplyWithCV(c *gin.Context) {
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	cv, err := formFile(c, "cv", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}

	applied, err := h.applyUC.ApplyWithNewCV(c.Request.Context(), jobID, userID, cv)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Applied to job successfully", "appliedJob", applied)
}
