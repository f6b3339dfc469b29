package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/placement/internal/app/controllers"
	appMigrations "github.com/yigit/placement/internal/app/migrations"
	"github.com/yigit/placement/internal/app/models"
	appRepos "github.com/yigit/placement/internal/app/repositories"
	appRoutes "github.com/yigit/placement/internal/app/routes"
	appServices "github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/config"
	"github.com/yigit/placement/internal/db"
	appMiddleware "github.com/yigit/placement/internal/middleware"
	pkgAuth "github.com/yigit/placement/internal/pkg/auth"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/kvstore"
	"github.com/yigit/placement/internal/pkg/logger"
	"github.com/yigit/placement/internal/pkg/validation"
	"github.com/yigit/placement/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DriveService        appServices.DriveService
	RegistrationService appServices.RegistrationService
	AnalyticsService    appServices.AnalyticsService
	SheetService        appServices.SheetService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	ApplyLimit          appRoutes.ApplyLimit
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	FileStorage         *filestorage.LocalStorage
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env and configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using process environment")
	}

	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
// When Postgres is unreachable and degraded start is allowed it returns a nil pool.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	ctx := context.Background()

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		if cfg.Remote.AllowDegradedStart {
			lgr.Warn().Err(err).Msg("Database unavailable, starting on the local store only")
			return nil, nil
		}
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.Migrate(ctx, appMigrations.Embedded()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupRedis connects to Redis. A nil client means the in-process store is used instead.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, using in-memory local store")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, using in-memory local store")
		_ = client.Close()
		return nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established.")
	return client
}

// CohortFromConfig converts the configured cohort into the analytics model
func CohortFromConfig(c config.CohortConfig) models.Cohort {
	cohort := models.Cohort{
		TotalStudents: c.TotalStudents,
		Branches:      make(map[models.Branch]int, len(c.Branches)),
		Years:         make(map[models.Year]int, len(c.Years)),
	}
	for branch, size := range c.Branches {
		cohort.Branches[models.Branch(branch).Normalize()] += size
	}
	for year, size := range c.Years {
		cohort.Years[models.Year(year)] = size
	}
	return cohort
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var kv kvstore.Store = kvstore.NewMemoryStore()
	if redisClient != nil {
		kv = kvstore.NewRedisStore(redisClient, cfg.Redis.KeyPrefix)
	}
	deps.Repos = appRepos.NewRepositories(dbPool, kv, cfg.Remote.Timeout, lgr)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	startMonth := time.Month(cfg.Cohort.AcademicYearStartMonth)
	clock := time.Now
	driveLocks := appServices.NewDriveLocks()

	deps.DriveService = appServices.NewDriveService(deps.Repos.Drives, deps.Repos.Registrations, driveLocks, clock, lgr)
	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.Drives,
		deps.Repos.Registrations,
		deps.FileStorage,
		driveLocks,
		startMonth,
		clock,
		lgr,
	)
	deps.AnalyticsService = appServices.NewAnalyticsService(
		deps.Repos.Drives,
		deps.Repos.Registrations,
		appServices.AnalyticsSettings{
			Cohort:      CohortFromConfig(cfg.Cohort),
			StartMonth:  startMonth,
			TrendMonths: cfg.Cohort.TrendMonths,
		},
		clock,
		lgr,
	)
	deps.SheetService = appServices.NewSheetService(deps.Repos.Drives, deps.Repos.Registrations, clock, lgr)

	checks := map[string]appControllers.Pinger{"postgres": nil, "redis": nil}
	if dbPool != nil {
		checks["postgres"] = dbPool
	}
	if redisClient != nil {
		checks["redis"] = redisPinger{client: redisClient}
	}

	deps.Controllers = appRoutes.Controllers{
		Health:       appControllers.NewHealthController(checks),
		Drive:        appControllers.NewDriveController(deps.DriveService),
		Registration: appControllers.NewRegistrationController(deps.RegistrationService),
		Analytics:    appControllers.NewAnalyticsController(deps.AnalyticsService),
		Sheet:        appControllers.NewSheetController(deps.SheetService),
	}

	var limiter appMiddleware.Limiter = appMiddleware.NewMemoryLimiter()
	if redisClient != nil {
		limiter = appMiddleware.NewRedisLimiter(redisClient, cfg.Redis.KeyPrefix+":ratelimit")
	}
	deps.ApplyLimit = appRoutes.ApplyLimit{
		Limiter: limiter,
		Limit:   cfg.RateLimit.ApplyLimit,
		Window:  cfg.RateLimit.ApplyWindow,
	}

	if strings.ToLower(cfg.Server.Mode) == "development" {
		if err := seed.CreateDemoDrives(context.Background(), deps.Repos.Drives, clock(), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return deps, nil
}

// RegisterValidators adds the custom binding tags to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return validation.RegisterRules(v)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(lgr))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.ApplyLimit)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}

// requestLogger writes one structured line per request
func requestLogger(lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := lgr.Info()
		if status >= http.StatusInternalServerError {
			event = lgr.Error()
		} else if status >= http.StatusBadRequest {
			event = lgr.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("Request handled")
	}
}
