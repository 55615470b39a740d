package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard-api/config"
	_ "jobboard-api/docs" // Important for Swagger
	"jobboard-api/internal/delivery/http/middleware"
	v1 "jobboard-api/internal/delivery/http/v1"
	"jobboard-api/internal/domain"
	mongorepo "jobboard-api/internal/repository/mongo"
	"jobboard-api/internal/repository/postgres"
	"jobboard-api/internal/usecase"
	"jobboard-api/pkg/auth"
	"jobboard-api/pkg/database"
	"jobboard-api/pkg/logger"
	"jobboard-api/pkg/redis"
	"jobboard-api/pkg/security"
	"jobboard-api/pkg/storage"
	"jobboard-api/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// repositories is the set of stores backing the usecases, whichever driver provides them.
type repositories struct {
	users       domain.UserRepository
	jobs        domain.JobRepository
	applied     domain.AppliedJobRepository
	addresses   domain.OwnedStore[domain.Address]
	educations  domain.OwnedStore[domain.Education]
	experiences domain.OwnedStore[domain.Experience]
	skills      domain.OwnedStore[domain.Skill]
	companies   domain.OwnedStore[domain.Company]
	health      domain.Pinger
	close       func()
}

// @title           Job Board API
// @version         1.0
// @description     REST backend for accounts, profiles, job postings and applications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "db_driver", cfg.DBDriver)
	audit := security.NewAuditLogger("jobboard-api", cfg.GinMode)

	ctx := context.Background()

	// 3. Setup Database
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	// 4. Optional Redis for rate limiting
	var redisClient *goredis.Client
	var redisHealth domain.Pinger
	if cfg.RedisURL != "" {
		redisClient, err = redis.New(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			redisHealth = redis.Pinger{Client: redisClient}
		}
	}

	// 5. Object storage
	var files domain.FileStorage = storage.Disabled{}
	if cfg.StorageConfigured() {
		s3cfg := storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
		}
		client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			logger.Log.Error("Failed to configure object storage", "error", err)
			os.Exit(1)
		}
		files = storage.NewS3Storage(client, s3cfg)
	} else {
		logger.Log.Warn("Object storage not configured - CV and profile image uploads are disabled")
	}

	// 6. Setup UseCases
	validate := validation.New()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	companyUC := usecase.NewCompanyUsecase(repos.companies, repos.users, validate)
	applicationUC := usecase.NewApplicationUsecase(repos.applied, repos.jobs, repos.users, files, validate, audit, cfg.MaxUploadBytes())

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        usecase.NewAuthUsecase(repos.users, hasher, tokens, validate, cfg.AdminEmails),
		AccountUC:     usecase.NewAccountUsecase(repos.users, files, validate),
		JobUC:         usecase.NewJobUsecase(repos.jobs, repos.users, companyUC, validate),
		ApplicationUC: applicationUC,
		AdminUC:       usecase.NewAdminUsecase(repos.users, repos.jobs, repos.applied),
		HealthUC:      usecase.NewHealthUsecase(map[string]domain.Pinger{"database": repos.health, "redis": redisHealth}),
		AddressUC:     usecase.NewAddressUsecase(repos.addresses, repos.users, validate),
		EducationUC:   usecase.NewEducationUsecase(repos.educations, repos.users, validate),
		ExperienceUC:  usecase.NewExperienceUsecase(repos.experiences, repos.users, validate),
		SkillUC:       usecase.NewSkillUsecase(repos.skills, repos.users, validate),
		CompanyUC:     companyUC,
		Tokens:        tokens,
		Users:         repos.users,
		Audit:         audit,
		RateLimiter:   middleware.NewRateLimiter(redisClient, audit),
		Config:        cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store := mongorepo.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &repositories{
			users:       mongorepo.NewUserRepository(store),
			jobs:        mongorepo.NewJobRepository(store),
			applied:     mongorepo.NewAppliedJobRepository(store),
			addresses:   mongorepo.NewAddressRepository(store),
			educations:  mongorepo.NewEducationRepository(store),
			experiences: mongorepo.NewExperienceRepository(store),
			skills:      mongorepo.NewSkillRepository(store),
			companies:   mongorepo.NewCompanyRepository(store),
			health:      store,
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(disconnectCtx)
			},
		}, nil

	case config.DriverPostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &repositories{
			users:       postgres.NewUserRepository(store),
			jobs:        postgres.NewJobRepository(store),
			applied:     postgres.NewAppliedJobRepository(store),
			addresses:   postgres.NewAddressRepository(store),
			educations:  postgres.NewEducationRepository(store),
			experiences: postgres.NewExperienceRepository(store),
			skills:      postgres.NewSkillRepository(store),
			companies:   postgres.NewCompanyRepository(store),
			health:      store,
			close:       pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
