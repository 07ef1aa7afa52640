package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/gamage-recruiters/platform/internal/app/controllers"
	appMigrations "github.com/gamage-recruiters/platform/internal/app/migrations"
	appRepos "github.com/gamage-recruiters/platform/internal/app/repositories"
	appRoutes "github.com/gamage-recruiters/platform/internal/app/routes"
	appServices "github.com/gamage-recruiters/platform/internal/app/services"
	"github.com/gamage-recruiters/platform/internal/config"
	"github.com/gamage-recruiters/platform/internal/db"
	appMiddleware "github.com/gamage-recruiters/platform/internal/middleware"
	pkgAuth "github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/email"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
	"github.com/gamage-recruiters/platform/internal/pkg/oauth"
	"github.com/gamage-recruiters/platform/internal/pkg/otp"
	pkgRedis "github.com/gamage-recruiters/platform/internal/pkg/redis"
	"github.com/gamage-recruiters/platform/internal/seed"
)

const metricsNamespace = "recruiters"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Redis       *goredis.Client // nil when OTPs are kept in memory
	Registry    *prometheus.Registry

	AuthService        *appServices.AuthService
	FederatedService   *appServices.FederatedService
	UserService        *appServices.UserService
	OTPService         *appServices.OTPService
	JobService         *appServices.JobService
	ApplicationService *appServices.ApplicationService
	WorkshopService    *appServices.WorkshopService
	AdminService       *appServices.AdminService

	AuthController        *appControllers.AuthController
	OAuthController       *appControllers.OAuthController
	UserController        *appControllers.UserController
	JobController         *appControllers.JobController
	ApplicationController *appControllers.ApplicationController
	WorkshopController    *appControllers.WorkshopController
	AdminController       *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	OTPLimiter     *appMiddleware.IPRateLimiter
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// setupOTPStore picks Redis when it is enabled and falls back to process memory
func setupOTPStore(cfg *config.Config, lgr zerolog.Logger) (otp.Store, *goredis.Client, error) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, one-time passwords are kept in memory")
		return otp.NewMemoryStore(), nil, nil
	}

	client, err := pkgRedis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("One-time passwords are kept in Redis")
	return otp.NewRedisStore(client), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	otpStore, redisClient, err := setupOTPStore(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize OTP store")
		return nil, fmt.Errorf("failed to initialize OTP store: %w", err)
	}
	deps.Redis = redisClient

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromName:    cfg.SMTP.FromName,
		FromEmail:   cfg.SMTP.FromEmail,
		UseTLS:      cfg.SMTP.UseTLS,
		FrontendURL: cfg.Server.FrontendURL,
	}, logger.Component("email"))

	// One TTL drives both the token expiry claim and the cookie max-age
	sessionTTL := cfg.SessionTTL()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    sessionTTL,
		TokenIssuer: cfg.JWT.Issuer,
	})
	cookie := pkgAuth.CookieConfig{
		Name:   cfg.Session.CookieName,
		Domain: cfg.Session.Domain,
		Secure: cfg.Session.Secure,
		MaxAge: sessionTTL,
	}

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(
		repos.UserRepository,
		repos.AdminRepository,
		repos.SessionRepository,
		deps.JWTService,
		emailService,
		logger.Component("auth"),
	)
	deps.FederatedService = appServices.NewFederatedService(
		repos.UserRepository,
		repos.FederatedLoginRepository,
		deps.AuthService,
		cfg.Server.FrontendURL,
		logger.Component("federated"),
	)
	deps.UserService = appServices.NewUserService(
		database,
		repos.UserRepository,
		repos.ActivityLogRepository,
		repos.ApplicationRepository,
		repos.BlogRepository,
		repos.SessionRepository,
		deps.FileStorage,
		emailService,
		logger.Component("users"),
	)
	deps.OTPService = appServices.NewOTPService(otpStore, emailService, cfg.OTPTTL(), cfg.OTP.Length, logger.Component("otp"))
	deps.JobService = appServices.NewJobService(
		repos.JobRepository,
		repos.ApplicationRepository,
		repos.UserRepository,
		deps.FileStorage,
		logger.Component("jobs"),
	)
	deps.ApplicationService = appServices.NewApplicationService(
		database,
		repos.JobRepository,
		repos.UserRepository,
		repos.ApplicationRepository,
		repos.ActivityLogRepository,
		deps.FileStorage,
		cfg.Applications.NameMatch,
		logger.Component("applications"),
	)
	deps.WorkshopService = appServices.NewWorkshopService(repos.WorkshopRepository, deps.FileStorage, logger.Component("workshops"))
	deps.AdminService = appServices.NewAdminService(
		database,
		repos.AdminRepository,
		repos.SessionRepository,
		deps.FileStorage,
		logger.Component("admins"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.SessionRepository, appMiddleware.AuthConfig{
		CookieName:            cfg.Session.CookieName,
		StoreBackedRevocation: cfg.Session.StoreBackedRevocation,
	}, logger.Component("auth-middleware"))
	deps.OTPLimiter = appMiddleware.NewIPRateLimiter(cfg.OTP.RatePerSecond, cfg.OTP.RateBurst)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.AuthMiddleware, cookie, lgr)
	providers := oauth.NewRegistry(cfg)
	lgr.Info().Strs("providers", providers.Names()).Msg("Federated login providers configured")
	deps.OAuthController = appControllers.NewOAuthController(
		providers,
		deps.FederatedService,
		cookie,
		cfg.OAuth.StateCookieName,
		cfg.Server.FrontendURL,
		lgr,
	)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.OTPService, deps.ApplicationService, cookie, lgr)
	deps.JobController = appControllers.NewJobController(deps.JobService, deps.ApplicationService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, lgr)
	deps.WorkshopController = appControllers.NewWorkshopController(deps.WorkshopService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, lgr)

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Seed after the services exist; a failure is logged and startup continues
	if err := seed.CreateDefaultData(context.Background(), cfg, deps.AdminService, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	metrics := appMiddleware.NewMetrics(deps.Registry, metricsNamespace)

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
		metrics.Middleware(),
	)
	router.NoRoute(appMiddleware.NotFoundHandler)

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", metrics.Handler())

	appRoutes.SetupRouter(router, appRoutes.Handlers{
		Auth:           deps.AuthController,
		OAuth:          deps.OAuthController,
		User:           deps.UserController,
		Job:            deps.JobController,
		Application:    deps.ApplicationController,
		Workshop:       deps.WorkshopController,
		Admin:          deps.AdminController,
		AuthMiddleware: deps.AuthMiddleware,
		OTPLimiter:     deps.OTPLimiter,
	})

	return router, nil
}
