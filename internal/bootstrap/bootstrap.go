package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appAuth "github.com/formco/backend/internal/app/auth"
	appControllers "github.com/formco/backend/internal/app/controllers"
	appMigrations "github.com/formco/backend/internal/app/migrations"
	appRepos "github.com/formco/backend/internal/app/repositories"
	appRoutes "github.com/formco/backend/internal/app/routes"
	appServices "github.com/formco/backend/internal/app/services"
	"github.com/formco/backend/internal/config"
	"github.com/formco/backend/internal/db"
	appMiddleware "github.com/formco/backend/internal/middleware"
	pkgAuth "github.com/formco/backend/internal/pkg/auth"
	"github.com/formco/backend/internal/pkg/email"
	"github.com/formco/backend/internal/pkg/filestorage"
	"github.com/formco/backend/internal/pkg/helpers"
	"github.com/formco/backend/internal/pkg/logger"
	"github.com/formco/backend/internal/pkg/qrcode"
	"github.com/formco/backend/internal/seed"
)

// Stores are the persistence ports the services run on
type Stores struct {
	Users         appRepos.IUserRepository
	Organizations appRepos.IOrganizationRepository
	Competitions  appRepos.ICompetitionRepository
	Applications  appRepos.IApplicationRepository
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Stores         Stores
	JWTService     *pkgAuth.JWTService
	PasswordHasher *pkgAuth.PasswordHasher
	AuthzService   *appAuth.AuthorizationService
	FileStorage    filestorage.FileStorage
	Mailer         email.EmailService

	AuthService         *appServices.AuthService
	OrganizationService *appServices.OrganizationService
	CompetitionService  *appServices.CompetitionService
	ApplicationService  *appServices.ApplicationService

	AuthController         *appControllers.AuthController
	OrganizationController *appControllers.OrganizationController
	CompetitionController  *appControllers.CompetitionController
	ApplicationController  *appControllers.ApplicationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	SubmitLimiter  *appMiddleware.RateLimiter
	Ping           func(ctx context.Context) error
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

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database, lgr)

	migrationsDir := cfg.Database.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return database, nil
}

// NewFileStorage builds the receipt storage selected by the storage driver
func NewFileStorage(cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "s3":
		return filestorage.NewS3Storage(filestorage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Prefix:          cfg.Storage.Prefix,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicURL:       cfg.Storage.PublicURL,
		}, lgr)
	default:
		// Must match the static file serving URL path
		baseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads"
		return filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL, lgr)
	}
}

// BuildDependencies initializes application repositories, services, and controllers on Postgres.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	repos := appRepos.NewRepositories(database)
	stores := Stores{
		Users:         repos.UserRepository,
		Organizations: repos.OrganizationRepository,
		Competitions:  repos.CompetitionRepository,
		Applications:  repos.ApplicationRepository,
	}

	storage, err := NewFileStorage(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		UseTLS:    cfg.Email.UseTLS,
	}, lgr)

	deps := Wire(cfg, stores, storage, mailer, pkgAuth.NewPasswordHasher(pkgAuth.BcryptCost), lgr)
	deps.Ping = database.Ping

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := seed.CreateDefaultData(ctx, stores.Users, deps.PasswordHasher, seed.DefaultOrganization{
		Email:    cfg.Seed.OrganizationEmail,
		Password: cfg.Seed.OrganizationPassword,
		Name:     cfg.Seed.OrganizationName,
	}, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return deps, nil
}

// Wire builds services, controllers and middleware on the given stores and adapters
func Wire(cfg *config.Config, stores Stores, storage filestorage.FileStorage, mailer email.EmailService, hasher *pkgAuth.PasswordHasher, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Stores:         stores,
		FileStorage:    storage,
		Mailer:         mailer,
		PasswordHasher: hasher,
		Logger:         lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(stores.Users, stores.Organizations)

	component := func(name string) zerolog.Logger {
		return lgr.With().Str("component", name).Logger()
	}

	deps.AuthService = appServices.NewAuthService(stores.Users, deps.JWTService, hasher, component("auth"))
	deps.OrganizationService = appServices.NewOrganizationService(stores.Users, stores.Organizations, component("organizations"))
	deps.CompetitionService = appServices.NewCompetitionService(stores.Competitions, stores.Applications, storage, nil, component("competitions"))
	deps.ApplicationService = appServices.NewApplicationService(
		stores.Users,
		stores.Competitions,
		stores.Applications,
		storage,
		mailer,
		qrcode.NewGenerator(nil),
		nil,
		component("applications"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)
	deps.SubmitLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.ApplicationsPerMinute, cfg.RateLimit.Burst)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.OrganizationController = appControllers.NewOrganizationController(deps.OrganizationService)
	deps.CompetitionController = appControllers.NewCompetitionController(deps.CompetitionService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, lgr)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.CORS(cfg.CORS.AllowedOrigins))

	if cfg.Metrics.Enabled {
		router.Use(appMiddleware.MetricsMiddleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router, appRoutes.Handlers{
		Auth:           deps.AuthController,
		Organization:   deps.OrganizationController,
		Competition:    deps.CompetitionController,
		Application:    deps.ApplicationController,
		AuthMiddleware: deps.AuthMiddleware,
		SubmitLimiter:  deps.SubmitLimiter,
		Ping:           deps.Ping,
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
