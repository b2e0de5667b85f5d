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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/schoolsite/internal/app/controllers"
	appMigrations "github.com/yigit/schoolsite/internal/app/migrations"
	appRepos "github.com/yigit/schoolsite/internal/app/repositories"
	appRoutes "github.com/yigit/schoolsite/internal/app/routes"
	appServices "github.com/yigit/schoolsite/internal/app/services"
	"github.com/yigit/schoolsite/internal/config"
	"github.com/yigit/schoolsite/internal/db"
	appMiddleware "github.com/yigit/schoolsite/internal/middleware"
	pkgAuth "github.com/yigit/schoolsite/internal/pkg/auth"
	"github.com/yigit/schoolsite/internal/pkg/filestorage"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
	"github.com/yigit/schoolsite/internal/pkg/logger"
	"github.com/yigit/schoolsite/internal/pkg/visitor"
	"github.com/yigit/schoolsite/internal/pkg/websocket"
	"github.com/yigit/schoolsite/internal/seed"
	"github.com/yigit/schoolsite/internal/web"
	"github.com/yigit/schoolsite/migrations"
)

// DefaultConfigPath is used when CONFIG_PATH is unset
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	AdmissionService    *appServices.AdmissionService
	ConfirmationService *appServices.ConfirmationService
	NoticeService       *appServices.NoticeService
	HomeService         *appServices.HomeService
	StatsService        *appServices.StatsService
	AuthService         *appServices.AuthService
	AdminService        *appServices.AdminService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	JWTService          *pkgAuth.JWTService
	FileStorage         *filestorage.LocalStorage
	Visitors            *visitor.Store
	NoticeHub           *websocket.Hub
	VisitorConfig       appMiddleware.VisitorConfig
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool without touching the schema
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// Migrate applies the embedded SQL migrations
func Migrate(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool).MigrateFS(ctx, migrations.Files)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and seeds the database.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := Migrate(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	if err := seed.CreateDefaultData(ctx, database, cfg, lgr); err != nil {
		// the site still serves what exists; missing rows surface as 503s
		lgr.Warn().Err(err).Msg("Default data creation encountered errors.")
	}

	return database, nil
}

// BuildDependencies creates all repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Server.StoragePath).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	sessionTTL := helpers.ParseDuration(cfg.Session.TTL, 30*time.Minute)
	deps.Visitors = visitor.NewStore(sessionTTL)
	deps.VisitorConfig = appMiddleware.VisitorConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        sessionTTL,
		Secure:     cfg.Session.SecureCookie,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	repos := deps.Repos
	deps.AdmissionService = appServices.NewAdmissionService(
		database,
		repos.ClassRepository,
		repos.UserRepository,
		repos.AdmissionRepository,
		deps.FileStorage,
		pkgAuth.NewHasher(cfg.Admission.BcryptCost),
		appServices.AdmissionConfig{
			MaxAttempts:   cfg.Admission.MaxAttempts,
			MaxPhotoBytes: cfg.Admission.MaxPhotoBytes,
		},
		lgr,
	)
	deps.ConfirmationService = appServices.NewConfirmationService(repos.AdmissionRepository, repos.SiteRepository, deps.FileStorage, lgr)
	deps.NoticeService = appServices.NewNoticeService(repos.NoticeRepository, deps.FileStorage, cfg.Notices.PageSize, lgr)
	deps.HomeService = appServices.NewHomeService(repos.SiteRepository, repos.NoticeRepository, repos.StatsRepository, deps.FileStorage, lgr)
	deps.StatsService = appServices.NewStatsService(repos.StatsRepository, lgr)
	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, lgr)
	deps.NoticeHub = websocket.NewHub(lgr)
	deps.AdminService = appServices.NewAdminService(database, repos.ClassRepository, repos.NoticeRepository, deps.NoticeHub, lgr)

	deps.Controllers = appRoutes.Controllers{
		Site:      appControllers.NewSiteController(deps.HomeService, deps.NoticeService, lgr),
		Admission: appControllers.NewAdmissionController(deps.AdmissionService, deps.ConfirmationService, deps.HomeService, deps.Visitors, lgr),
		Stats:     appControllers.NewStatsController(deps.StatsService, database, lgr),
		Auth:      appControllers.NewAuthController(deps.AuthService, lgr),
		Admin:     appControllers.NewAdminController(deps.AdminService, lgr),
		Live:      websocket.NewHandler(deps.NoticeHub, cfg.Server.BaseURL, lgr),
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

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), appMiddleware.Recovery())
	router.MaxMultipartMemory = cfg.Admission.MaxPhotoBytes + 1<<20

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	setupStaticFileServing(router, cfg, lgr)
	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.VisitorConfig)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}

// setupStaticFileServing serves uploaded files and site assets
func setupStaticFileServing(router *gin.Engine, cfg *config.Config, lgr zerolog.Logger) {
	for _, dir := range []struct{ url, path string }{
		{"/uploads", cfg.Server.StoragePath},
		{"/assets", cfg.Server.AssetsPath},
	} {
		if _, err := os.Stat(dir.path); os.IsNotExist(err) {
			if err := os.MkdirAll(dir.path, os.ModePerm); err != nil {
				lgr.Error().Err(err).Str("path", dir.path).Msg("Failed to create static directory")
				continue
			}
		}
		router.Static(dir.url, dir.path)
		lgr.Info().Str("url", dir.url).Str("path", dir.path).Msg("Static file serving configured")
	}
}
