package cli

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	appMigrations "github.com/yigit/schoolsite/internal/app/migrations"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	appRepos "github.com/yigit/schoolsite/internal/app/repositories"
	appServices "github.com/yigit/schoolsite/internal/app/services"
	"github.com/yigit/schoolsite/internal/bootstrap"
	"github.com/yigit/schoolsite/internal/config"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/logger"
	"github.com/yigit/schoolsite/internal/seed"
	"github.com/yigit/schoolsite/migrations"
)

// postgresBackend runs the commands against the configured database
type postgresBackend struct {
	cfg      *config.Config
	database *db.PostgresDB
	repos    *appRepos.Repositories
	admin    *appServices.AdminService
	logger   zerolog.Logger
}

// OpenPostgres loads configPath and connects to its database. Logs go to
// stderr so command output stays parseable.
func OpenPostgres(configPath string) (Backend, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Configure(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
		Output: os.Stderr,
	})
	lgr := log.Logger

	database, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	repos := appRepos.NewRepositories(database.Pool)
	return &postgresBackend{
		cfg:      cfg,
		database: database,
		repos:    repos,
		admin:    appServices.NewAdminService(database, repos.ClassRepository, repos.NoticeRepository, nil, lgr),
		logger:   lgr,
	}, nil
}

func (b *postgresBackend) Migrate(ctx context.Context) (int, error) {
	return appMigrations.NewMigrator(b.database.Pool).MigrateFS(ctx, migrations.Files)
}

func (b *postgresBackend) Seed(ctx context.Context) error {
	return seed.CreateDefaultData(ctx, b.database, b.cfg, b.logger)
}

func (b *postgresBackend) SetCurrentYear(ctx context.Context, id int64) (*dto.AcademicYearResponse, error) {
	return b.admin.SetCurrentYear(ctx, id)
}

func (b *postgresBackend) PeekNextUserID(ctx context.Context, role models.RoleType) (int64, error) {
	return b.repos.AdmissionRepository.PeekNextUserID(ctx, role)
}

func (b *postgresBackend) Close() {
	b.database.Close()
}
