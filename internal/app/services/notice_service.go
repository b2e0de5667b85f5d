package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/filestorage"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
)

// Notice board constants
const (
	NoticePhotoDir       = "notices"
	DefaultNoticePic     = "/assets/images/no-image.jpg"
	NoticeExcerptLength  = 100
	NoticeNewWindow      = 3 * 24 * time.Hour
	DefaultNoticePerPage = 6

	MsgNoticesFailed = "Could not load notices. Please try again later."
)

// NoticeCard is one rendered notice
type NoticeCard struct {
	ID            int64
	Title         string
	Excerpt       string
	Text          string
	Category      string
	PhotoURL      string
	Date          string
	IsNew         bool
	AttachmentURL string
}

// NoticeBoard is one rendered page of the notice board
type NoticeBoard struct {
	Branding
	Categories   []string
	Category     string
	Notices      []NoticeCard
	Total        int64
	Page         int
	TotalPages   int
	Pager        helpers.Pager
	EmptyMessage string
}

// NoticeQuery selects a page of the board. Query is the full request query
// so pagination links keep the other parameters.
type NoticeQuery struct {
	Category string
	Page     int
	Path     string
	Query    url.Values
}

// NoticeService serves the notice board
type NoticeService struct {
	notices  NoticeStore
	files    filestorage.FileStorage
	pageSize int
	now      Clock
	logger   zerolog.Logger
}

// NewNoticeService creates a new NoticeService
func NewNoticeService(notices NoticeStore, files filestorage.FileStorage, pageSize int, logger zerolog.Logger) *NoticeService {
	if pageSize <= 0 {
		pageSize = DefaultNoticePerPage
	}
	// listing and page count must agree on one size
	pageSize = helpers.ClampPageSize(pageSize)
	return &NoticeService{
		notices:  notices,
		files:    files,
		pageSize: pageSize,
		now:      time.Now,
		logger:   logger,
	}
}

// EmptyNoticeMessage is shown when a page has no notices
func EmptyNoticeMessage(category string) string {
	if category == "" {
		return "No notices found."
	}
	return fmt.Sprintf("No notices found for %q.", category)
}

// Card renders one notice relative to now
func (s *NoticeService) Card(n models.Notice, now time.Time) NoticeCard {
	card := NoticeCard{
		ID:       n.ID,
		Title:    n.Title,
		Excerpt:  helpers.Excerpt(n.Text, NoticeExcerptLength),
		Text:     n.Text,
		Category: n.Category,
		PhotoURL: DefaultNoticePic,
		Date:     helpers.LongDate(n.CreatedAt),
		IsNew:    now.Sub(n.CreatedAt) < NoticeNewWindow,
	}
	if n.Photo != "" && s.files.Exists(NoticePhotoDir, n.Photo) {
		card.PhotoURL = "/uploads/" + NoticePhotoDir + "/" + n.Photo
	}
	if helpers.IsAttachmentLink(n.Link) {
		card.AttachmentURL = n.Link
	}
	return card
}

// Board loads one filtered page. Pages past the end come back empty with
// the empty-state message rather than as an error.
func (s *NoticeService) Board(ctx context.Context, q NoticeQuery) (*NoticeBoard, error) {
	category := strings.TrimSpace(q.Category)
	page := q.Page
	if page < 1 {
		page = 1
	}

	categories, err := s.notices.Categories(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load notice categories")
		categories = []string{}
	}

	total, err := s.notices.Count(ctx, category)
	if err != nil {
		return nil, apperrors.NewStorageError(MsgNoticesFailed, err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, s.pageSize)
	rows, err := s.notices.List(ctx, category, offset, limit)
	if err != nil {
		return nil, apperrors.NewStorageError(MsgNoticesFailed, err)
	}

	now := s.now()
	cards := make([]NoticeCard, 0, len(rows))
	for _, n := range rows {
		cards = append(cards, s.Card(n, now))
	}

	totalPages := helpers.TotalPages(total, s.pageSize)
	board := &NoticeBoard{
		Categories: categories,
		Category:   category,
		Notices:    cards,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
	if totalPages > 1 {
		board.Pager = helpers.BuildPager(q.Path, q.Query, page, totalPages)
	}
	if len(cards) == 0 {
		board.EmptyMessage = EmptyNoticeMessage(category)
	}
	return board, nil
}

// Latest returns the newest n notices for the homepage
func (s *NoticeService) Latest(ctx context.Context, n uint64) ([]models.Notice, error) {
	return s.notices.Latest(ctx, n)
}
