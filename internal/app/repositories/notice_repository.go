package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

// NoticeRepository handles the notice board
type NoticeRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(q db.Querier) *NoticeRepository {
	return &NoticeRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// categoryFilter narrows a query to one category; empty means all
func categoryFilter(q squirrel.SelectBuilder, category string) squirrel.SelectBuilder {
	if category == "" {
		return q
	}
	return q.Where(squirrel.Eq{"category": category})
}

// Count returns how many notices match category
func (r *NoticeRepository) Count(ctx context.Context, category string) (int64, error) {
	sql, args, err := categoryFilter(r.sb.Select("COUNT(*)").From("notices"), category).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count notices query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("category", category).Msg("Error counting notices")
		return 0, fmt.Errorf("error counting notices: %w", err)
	}
	return total, nil
}

var noticeColumns = []string{"id", "title", "notice_text", "link", "photo", "category", "created_at"}

func scanNotices(rows pgx.Rows) ([]models.Notice, error) {
	defer rows.Close()

	notices := []models.Notice{}
	for rows.Next() {
		var (
			n           models.Notice
			link, photo *string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &link, &photo, &n.Category, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notice row: %w", err)
		}
		n.Link = deref(link)
		n.Photo = deref(photo)
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notice rows: %w", err)
	}
	return notices, nil
}

// List returns one page of notices, newest first
func (r *NoticeRepository) List(ctx context.Context, category string, offset, limit uint64) ([]models.Notice, error) {
	query := categoryFilter(r.sb.Select(noticeColumns...).From("notices"), category).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notices query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("category", category).Msg("Error listing notices")
		return nil, fmt.Errorf("error querying notices: %w", err)
	}
	return scanNotices(rows)
}

// Latest returns the newest n notices across all categories
func (r *NoticeRepository) Latest(ctx context.Context, n uint64) ([]models.Notice, error) {
	return r.List(ctx, "", 0, n)
}

// Categories returns the distinct categories in alphabetical order
func (r *NoticeRepository) Categories(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("category").
		Distinct().
		From("notices").
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build notice categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying notice categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning notice category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Create inserts a notice and fills in its id and timestamp
func (r *NoticeRepository) Create(ctx context.Context, n *models.Notice) error {
	sql, args, err := r.sb.Insert("notices").
		Columns("title", "notice_text", "link", "photo", "category").
		Values(n.Title, n.Text, nullable(n.Link), nullable(n.Photo), n.Category).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notice query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating notice")
		return fmt.Errorf("error creating notice: %w", err)
	}
	return nil
}
