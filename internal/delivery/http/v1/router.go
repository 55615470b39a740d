package v1

import (
	"net/http"
	"time"

	"jobboard-api/config"
	"jobboard-api/internal/delivery/http/middleware"
	"jobboard-api/internal/delivery/http/response"
	"jobboard-api/internal/domain"
	"jobboard-api/internal/usecase"
	"jobboard-api/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	AccountUC     domain.AccountUsecase
	JobUC         domain.JobUsecase
	ApplicationUC usecase.ApplicationService
	AdminUC       usecase.AdminService
	HealthUC      domain.HealthUsecase
	AddressUC     domain.ProfileUsecase[domain.Address]
	EducationUC   domain.ProfileUsecase[domain.Education]
	ExperienceUC  domain.ProfileUsecase[domain.Experience]
	SkillUC       domain.ProfileUsecase[domain.Skill]
	CompanyUC     domain.ProfileUsecase[domain.Company]
	Tokens        middleware.TokenVerifier
	Users         domain.IdentityResolver
	Audit         *security.AuditLogger
	RateLimiter   *middleware.RateLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes() + 1<<20

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.ClientURL, cfg.GinMode == gin.ReleaseMode)) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.EnableHSTS))

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	}
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	v1 := r.Group("/v1")

	v1.GET("/health", healthHandler(deps.HealthUC))
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	gate := func(p middleware.Policy) gin.HandlerFunc {
		return middleware.AuthMiddleware(deps.Tokens, deps.Users, deps.Audit, p)
	}
	protected := v1.Group("", gate(middleware.PolicyAuthenticated))
	applicants := v1.Group("", gate(middleware.PolicyUser))
	admins := v1.Group("", gate(middleware.PolicyAdmin))

	authLimit := func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		authLimit = deps.RateLimiter.Middleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window))
	}

	NewAuthHandler(v1, protected, deps.AuthUC, deps.Audit, authLimit)
	NewAccountHandler(protected, deps.AccountUC, cfg.MaxUploadBytes())
	NewJobHandler(v1, protected, applicants, deps.JobUC, deps.ApplicationUC, cfg.MaxUploadBytes())
	NewAdminHandler(admins, deps.AdminUC)

	NewResourceHandler[domain.Address, domain.AddressPatch](deps.AddressUC, "Address", "address", "addresses").
		Register(v1, protected, "addresses", true)
	NewResourceHandler[domain.Education, domain.EducationPatch](deps.EducationUC, "Education", "education", "educations").
		Register(v1, protected, "educations", true)
	NewResourceHandler[domain.Experience, domain.ExperiencePatch](deps.ExperienceUC, "Experience", "experience", "experiences").
		Register(v1, protected, "experiences", true)
	NewResourceHandler[domain.Skill, domain.SkillPatch](deps.SkillUC, "Skill", "skill", "skills").
		Register(v1, protected, "skills", true)
	NewResourceHandler[domain.Company, domain.CompanyPatch](deps.CompanyUC, "Company", "company", "companies").
		Register(v1, protected, "companies", true)
	NewResourceHandler[domain.AppliedJob, domain.AppliedJobPatch](deps.ApplicationUC, "Applied job", "appliedJob", "appliedJobs").
		Register(v1, protected, "applied-jobs", false)

	return r
}
