package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

const (
	boysColumn  = "COUNT(DISTINCT s.id) FILTER (WHERE LOWER(s.gender) = 'male')"
	girlsColumn = "COUNT(DISTINCT s.id) FILTER (WHERE LOWER(s.gender) = 'female')"
)

// StatsRepository computes student counts over active students
type StatsRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(q db.Querier) *StatsRepository {
	return &StatsRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StatsRepository) enrolled(columns ...string) squirrel.SelectBuilder {
	return r.sb.Select(columns...).
		From("student_enrollments se").
		Join("students s ON se.student_id = s.id").
		Join("classes c ON se.class_id = c.id").
		Join("academic_years ay ON se.academic_year_id = ay.id").
		Where(squirrel.Eq{"s.is_active": true})
}

// ClassStats counts active students per class for every academic year,
// latest year first and classes in id order
func (r *StatsRepository) ClassStats(ctx context.Context) ([]models.ClassStat, error) {
	sql, args, err := r.enrolled("ay.year_name", "c.name", "COUNT(DISTINCT s.id)", boysColumn, girlsColumn).
		GroupBy("ay.id", "ay.year_name", "ay.start_date", "c.id", "c.name").
		OrderBy("ay.start_date DESC", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build class stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying class stats")
		return nil, fmt.Errorf("error querying class stats: %w", err)
	}
	defer rows.Close()

	stats := []models.ClassStat{}
	for rows.Next() {
		var s models.ClassStat
		if err := rows.Scan(&s.YearName, &s.ClassName, &s.Total, &s.Boys, &s.Girls); err != nil {
			return nil, fmt.Errorf("error scanning class stat row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PlusTwoStats counts active Class 11 and 12 students per academic year
func (r *StatsRepository) PlusTwoStats(ctx context.Context) ([]models.PlusTwoStat, error) {
	sql, args, err := r.enrolled("ay.year_name", "COUNT(DISTINCT s.id)", boysColumn, girlsColumn).
		Where(squirrel.Eq{"c.name": models.PlusTwoClassNames}).
		GroupBy("ay.id", "ay.year_name", "ay.start_date").
		OrderBy("ay.start_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build plus-two stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying plus-two stats")
		return nil, fmt.Errorf("error querying plus-two stats: %w", err)
	}
	defer rows.Close()

	stats := []models.PlusTwoStat{}
	for rows.Next() {
		var s models.PlusTwoStat
		if err := rows.Scan(&s.YearName, &s.Total, &s.Boys, &s.Girls); err != nil {
			return nil, fmt.Errorf("error scanning plus-two stat row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Summary counts all active students regardless of enrollment
func (r *StatsRepository) Summary(ctx context.Context) (models.StudentSummary, error) {
	var sum models.StudentSummary

	sql, args, err := r.sb.Select("COUNT(DISTINCT s.id)", boysColumn, girlsColumn).
		From("students s").
		Where(squirrel.Eq{"s.is_active": true}).
		ToSql()
	if err != nil {
		return sum, fmt.Errorf("failed to build student summary query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&sum.Total, &sum.Boys, &sum.Girls); err != nil {
		logger.Error().Err(err).Msg("Error reading student summary")
		return sum, fmt.Errorf("error reading student summary: %w", err)
	}
	return sum, nil
}

// CurrentPlusTwo counts distinct active students enrolled in Class 11 or 12
// in the current academic year
func (r *StatsRepository) CurrentPlusTwo(ctx context.Context) (int64, error) {
	sql, args, err := r.enrolled("COUNT(DISTINCT s.id)").
		Where(squirrel.Eq{"ay.is_current": true, "c.name": models.PlusTwoClassNames}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build plus-two count query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting plus-two students")
		return 0, fmt.Errorf("error counting plus-two students: %w", err)
	}
	return n, nil
}
