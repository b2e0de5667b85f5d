package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/dberrors"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

// ClassRepository handles classes and academic years
type ClassRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(q db.Querier) *ClassRepository {
	return &ClassRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListClasses returns all classes ordered by id
func (r *ClassRepository) ListClasses(ctx context.Context) ([]models.Class, error) {
	sql, args, err := r.sb.Select("id", "name").
		From("classes").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list classes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list classes query")
		return nil, fmt.Errorf("error querying classes: %w", err)
	}
	defer rows.Close()

	classes := []models.Class{}
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("error scanning class row: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class rows: %w", err)
	}
	return classes, nil
}

// ClassByID retrieves one class
func (r *ClassRepository) ClassByID(ctx context.Context, id int64) (*models.Class, error) {
	sql, args, err := r.sb.Select("id", "name").
		From("classes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get class query: %w", err)
	}

	var c models.Class
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		logger.Error().Err(err).Int64("classID", id).Msg("Error scanning class row")
		return nil, fmt.Errorf("error getting class: %w", err)
	}
	return &c, nil
}

// CreateClass inserts a class, returning the existing id when the name is taken
func (r *ClassRepository) CreateClass(ctx context.Context, name string) (int64, bool, error) {
	sql, args, err := r.sb.Insert("classes").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("failed to build create class query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("error creating class: %w", err)
	}

	sql, args, err = r.sb.Select("id").From("classes").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("failed to build class lookup query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("error looking up class %q: %w", name, err)
	}
	return id, false, nil
}

var yearColumns = []string{"id", "year_name", "start_date", "is_current"}

func scanYear(row pgx.Row) (*models.AcademicYear, error) {
	var y models.AcademicYear
	if err := row.Scan(&y.ID, &y.Name, &y.StartDate, &y.IsCurrent); err != nil {
		return nil, err
	}
	return &y, nil
}

// CurrentAcademicYear returns the year flagged current
func (r *ClassRepository) CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error) {
	sql, args, err := r.sb.Select(yearColumns...).
		From("academic_years").
		Where(squirrel.Eq{"is_current": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build current year query: %w", err)
	}

	year, err := scanYear(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoCurrentAcademicYear
		}
		logger.Error().Err(err).Msg("Error reading current academic year")
		return nil, fmt.Errorf("error getting current academic year: %w", err)
	}
	return year, nil
}

// YearByID retrieves one academic year
func (r *ClassRepository) YearByID(ctx context.Context, q db.Querier, id int64) (*models.AcademicYear, error) {
	sql, args, err := r.sb.Select(yearColumns...).
		From("academic_years").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get year query: %w", err)
	}

	year, err := scanYear(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		return nil, fmt.Errorf("error getting academic year: %w", err)
	}
	return year, nil
}

// CreateYear inserts an academic year; an existing name is not an error
func (r *ClassRepository) CreateYear(ctx context.Context, q db.Querier, name string, start time.Time, current bool) (int64, error) {
	sql, args, err := r.sb.Insert("academic_years").
		Columns("year_name", "start_date", "is_current").
		Values(name, start, current).
		Suffix("ON CONFLICT (year_name) DO UPDATE SET year_name = EXCLUDED.year_name RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create year query: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: another academic year is already current", apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("error creating academic year: %w", err)
	}
	return id, nil
}

// SetCurrentYear clears the current flag everywhere and sets it on id.
// Run it on a transaction so readers never see zero or two current years.
func (r *ClassRepository) SetCurrentYear(ctx context.Context, q db.Querier, id int64) error {
	if _, err := r.YearByID(ctx, q, id); err != nil {
		return err
	}

	clearSQL, clearArgs, err := r.sb.Update("academic_years").
		Set("is_current", false).
		Where(squirrel.Eq{"is_current": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear current year query: %w", err)
	}
	if _, err := q.Exec(ctx, clearSQL, clearArgs...); err != nil {
		return fmt.Errorf("error clearing current year: %w", err)
	}

	setSQL, setArgs, err := r.sb.Update("academic_years").
		Set("is_current", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set current year query: %w", err)
	}
	tag, err := q.Exec(ctx, setSQL, setArgs...)
	if err != nil {
		return fmt.Errorf("error setting current year: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAcademicYearNotFound
	}
	return nil
}
