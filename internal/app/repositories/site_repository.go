package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

// SiteRepository reads homepage content
type SiteRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewSiteRepository creates a new SiteRepository
func NewSiteRepository(q db.Querier) *SiteRepository {
	return &SiteRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var profileColumns = []string{
	"id", "school_name", "logo_path", "hero_bg_image", "hero_subtitle", "hero_description",
	"overview", "contact_email", "contact_phone", "contact_location", "google_maps_link",
	"footer_note", "is_published",
}

// PublishedProfile returns the published school profile.
// apperrors.ErrResourceNotFound means nothing is published yet.
func (r *SiteRepository) PublishedProfile(ctx context.Context) (*models.SchoolProfile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("school_info").
		Where(squirrel.Eq{"is_published": true}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build school profile query: %w", err)
	}

	var (
		p                                 models.SchoolProfile
		logo, hero, subtitle, description *string
		overview, email, phone, location  *string
		maps, footer                      *string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.SchoolName, &logo, &hero, &subtitle, &description,
		&overview, &email, &phone, &location, &maps, &footer, &p.IsPublished,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Msg("Error reading school profile")
		return nil, fmt.Errorf("error getting school profile: %w", err)
	}

	p.LogoPath, p.HeroImage, p.HeroSubtitle = deref(logo), deref(hero), deref(subtitle)
	p.HeroDescription, p.Overview = deref(description), deref(overview)
	p.ContactEmail, p.ContactPhone, p.ContactLocation = deref(email), deref(phone), deref(location)
	p.MapsLink, p.FooterNote = deref(maps), deref(footer)
	return &p, nil
}

// EnsureProfile inserts an unpublished profile named name when the table is empty
func (r *SiteRepository) EnsureProfile(ctx context.Context, name string) (bool, error) {
	const sql = `INSERT INTO school_info (school_name, is_published)
		SELECT $1, FALSE WHERE NOT EXISTS (SELECT 1 FROM school_info)`

	tag, err := r.db.Exec(ctx, sql, name)
	if err != nil {
		return false, fmt.Errorf("error creating school profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LatestNews returns up to limit news items, newest first
func (r *SiteRepository) LatestNews(ctx context.Context, limit uint64) ([]models.News, error) {
	sql, args, err := r.sb.Select("id", "title", "content", "image", "posted_on").
		From("news").
		OrderBy("id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build news query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying news: %w", err)
	}
	defer rows.Close()

	news := []models.News{}
	for rows.Next() {
		var (
			n     models.News
			image *string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &image, &n.PostedOn); err != nil {
			return nil, fmt.Errorf("error scanning news row: %w", err)
		}
		n.Image = deref(image)
		news = append(news, n)
	}
	return news, rows.Err()
}

// LatestPrincipalMessage returns the newest message of the school, or nil when none exists
func (r *SiteRepository) LatestPrincipalMessage(ctx context.Context, schoolID int64) (*models.PrincipalMessage, error) {
	sql, args, err := r.sb.Select("name", "message", "photo", "created_at").
		From("principal_messages").
		Where(squirrel.Eq{"school_id": schoolID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build principal message query: %w", err)
	}

	var (
		m     models.PrincipalMessage
		photo *string
	)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.Name, &m.Message, &photo, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting principal message: %w", err)
	}
	m.Photo = deref(photo)
	return &m, nil
}

// Teachers returns every teacher with their distinct subject and class names
func (r *SiteRepository) Teachers(ctx context.Context) ([]models.Teacher, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.name", "t.email", "t.photo",
		"ARRAY_REMOVE(ARRAY_AGG(DISTINCT s.subject), NULL)",
		"ARRAY_REMOVE(ARRAY_AGG(DISTINCT c.name), NULL)",
	).
		From("teachers t").
		LeftJoin("teacher_subjects ts ON t.id = ts.teacher_id").
		LeftJoin("subjects s ON ts.subject_id = s.id").
		LeftJoin("teacher_classes tc ON t.id = tc.teacher_id").
		LeftJoin("classes c ON tc.class_id = c.id").
		GroupBy("t.id", "t.name", "t.email", "t.photo").
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying teachers: %w", err)
	}
	defer rows.Close()

	teachers := []models.Teacher{}
	for rows.Next() {
		var (
			t            models.Teacher
			email, photo *string
		)
		if err := rows.Scan(&t.ID, &t.Name, &email, &photo, &t.Subjects, &t.Classes); err != nil {
			return nil, fmt.Errorf("error scanning teacher row: %w", err)
		}
		t.Email = deref(email)
		t.Photo = deref(photo)
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// QuoteCount returns how many quotes exist
func (r *SiteRepository) QuoteCount(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("quotes").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build quote count query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting quotes: %w", err)
	}
	return n, nil
}

// QuoteAt returns the quote at zero-based position index in id order
func (r *SiteRepository) QuoteAt(ctx context.Context, index uint64) (*models.Quote, error) {
	sql, args, err := r.sb.Select("quote", "author").
		From("quotes").
		OrderBy("id").
		Limit(1).
		Offset(index).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quote query: %w", err)
	}

	var q models.Quote
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&q.Text, &q.Author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting quote: %w", err)
	}
	return &q, nil
}

// Facilities returns the facility tiles in id order
func (r *SiteRepository) Facilities(ctx context.Context) ([]models.Facility, error) {
	sql, args, err := r.sb.Select("title", "icon", "description").
		From("facilities").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build facilities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying facilities: %w", err)
	}
	defer rows.Close()

	facilities := []models.Facility{}
	for rows.Next() {
		var (
			f                 models.Facility
			icon, description *string
		)
		if err := rows.Scan(&f.Title, &icon, &description); err != nil {
			return nil, fmt.Errorf("error scanning facility row: %w", err)
		}
		f.Icon = deref(icon)
		f.Description = deref(description)
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

// Gallery returns gallery photos, newest first
func (r *SiteRepository) Gallery(ctx context.Context) ([]models.GalleryPhoto, error) {
	sql, args, err := r.sb.Select("title", "description", "image_path").
		From("photo_gallery").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build gallery query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying gallery: %w", err)
	}
	defer rows.Close()

	photos := []models.GalleryPhoto{}
	for rows.Next() {
		var (
			p                  models.GalleryPhoto
			title, description *string
		)
		if err := rows.Scan(&title, &description, &p.ImagePath); err != nil {
			return nil, fmt.Errorf("error scanning gallery row: %w", err)
		}
		p.Title = deref(title)
		p.Description = deref(description)
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
