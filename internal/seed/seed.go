package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/schoolsite/internal/app/models"
	appRepos "github.com/yigit/schoolsite/internal/app/repositories"
	"github.com/yigit/schoolsite/internal/config"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/auth"
)

// ClassCount is the number of classes offered, named "Class 1" to "Class N"
const ClassCount = 12

// Options controls the default rows
type Options struct {
	SchoolName    string
	AdminUsername string
	AdminPassword string
	AdminEmail    string
	// Now picks the name and start date of the first academic year
	Now func() time.Time
}

// Transactor runs fn inside one database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// ClassStore creates classes and academic years
type ClassStore interface {
	CreateClass(ctx context.Context, name string) (int64, bool, error)
	CurrentAcademicYear(ctx context.Context) (*appModels.AcademicYear, error)
	CreateYear(ctx context.Context, q db.Querier, name string, start time.Time, current bool) (int64, error)
}

// UserStore finds and allocates users
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*appModels.User, error)
}

// UserAllocator hands out band ids and inserts users
type UserAllocator interface {
	NextUserID(ctx context.Context, q db.Querier, role appModels.RoleType) (int64, error)
	InsertUser(ctx context.Context, q db.Querier, user *appModels.User) error
}

// ProfileStore creates the school profile row
type ProfileStore interface {
	EnsureProfile(ctx context.Context, name string) (bool, error)
}

// PasswordHasher hashes the admin password
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Seeder inserts the rows a fresh installation needs. Every step is
// idempotent so it can run on each start.
type Seeder struct {
	tx       Transactor
	classes  ClassStore
	users    UserStore
	alloc    UserAllocator
	profiles ProfileStore
	hasher   PasswordHasher
	logger   zerolog.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(tx Transactor, classes ClassStore, users UserStore, alloc UserAllocator, profiles ProfileStore, hasher PasswordHasher, logger zerolog.Logger) *Seeder {
	return &Seeder{
		tx:       tx,
		classes:  classes,
		users:    users,
		alloc:    alloc,
		profiles: profiles,
		hasher:   hasher,
		logger:   logger,
	}
}

// Run creates whatever default data is missing. A failing step is logged
// and does not stop the others; all failures are returned joined.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s.logger.Info().Msg("Checking/Creating default data...")
	var finalErr error

	if err := s.seedClasses(ctx); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	if err := s.seedYear(ctx, opts.Now()); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	if err := s.seedAdmin(ctx, opts); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	created, err := s.profiles.EnsureProfile(ctx, opts.SchoolName)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating school profile")
		finalErr = errors.Join(finalErr, err)
	} else if created {
		s.logger.Info().Str("name", opts.SchoolName).Msg("Unpublished school profile created")
	}

	if finalErr != nil {
		s.logger.Warn().Err(finalErr).Msg("Default data creation finished with errors")
	} else {
		s.logger.Info().Msg("Default data check/creation finished.")
	}
	return finalErr
}

func (s *Seeder) seedClasses(ctx context.Context) error {
	var finalErr error
	created := 0
	for i := 1; i <= ClassCount; i++ {
		name := "Class " + strconv.Itoa(i)
		_, isNew, err := s.classes.CreateClass(ctx, name)
		if err != nil {
			s.logger.Error().Err(err).Str("class", name).Msg("Error creating class")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if isNew {
			created++
		}
	}
	if created > 0 {
		s.logger.Info().Int("count", created).Msg("Classes created")
	}
	return finalErr
}

func (s *Seeder) seedYear(ctx context.Context, now time.Time) error {
	_, err := s.classes.CurrentAcademicYear(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNoCurrentAcademicYear) {
		s.logger.Error().Err(err).Msg("Error reading current academic year")
		return err
	}

	name := strconv.Itoa(now.Year())
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := s.classes.CreateYear(ctx, tx, name, start, true)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("year", name).Msg("Error creating academic year")
		return err
	}
	s.logger.Info().Str("year", name).Msg("Current academic year created")
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, opts Options) error {
	_, err := s.users.GetByUsername(ctx, opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		s.logger.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	s.logger.Info().Msg("Creating default admin user...")
	hash, err := s.hasher.Hash(opts.AdminPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	var adminID int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := s.alloc.NextUserID(ctx, tx, appModels.RoleAdmin)
		if err != nil {
			return err
		}
		adminID = id
		return s.alloc.InsertUser(ctx, tx, &appModels.User{
			ID:           id,
			Username:     opts.AdminUsername,
			PasswordHash: hash,
			Role:         appModels.RoleAdmin,
			FullName:     "Administrator",
			Email:        opts.AdminEmail,
			IsActive:     true,
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating admin user")
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	s.logger.Info().Int64("id", adminID).Str("username", opts.AdminUsername).Msg("Default admin user created")
	return nil
}

// OptionsFromConfig reads the seed section of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SchoolName:    cfg.Seed.SchoolName,
		AdminUsername: cfg.Seed.AdminUsername,
		AdminPassword: cfg.Seed.AdminPassword,
		AdminEmail:    cfg.Seed.AdminEmail,
	}
}

// CreateDefaultData wires a Seeder to the database and runs it
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, cfg *config.Config, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(database.Pool)
	seeder := NewSeeder(
		database,
		repos.ClassRepository,
		repos.UserRepository,
		repos.AdmissionRepository,
		repos.SiteRepository,
		auth.NewHasher(cfg.Admission.BcryptCost),
		lgr,
	)
	return seeder.Run(ctx, OptionsFromConfig(cfg))
}
