package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
)

// Admin messages
const (
	MsgYearNotFound    = "Academic year not found."
	MsgYearSwitchFail  = "Could not change the current academic year."
	MsgNoticeInvalid   = "Title, text and category are required."
	MsgNoticeSaveFail  = "Could not save the notice."
	defaultDateDisplay = "2006-01-02"
)

// EventNoticeCreated is published after a notice is stored
const EventNoticeCreated = "notice.created"

// Publisher pushes events to live subscribers
type Publisher interface {
	Publish(eventType string, data interface{})
}

// AdminService holds the administrator write paths
type AdminService struct {
	tx        Transactor
	years     YearWriter
	notices   NoticeStore
	publisher Publisher
	logger    zerolog.Logger
}

// NewAdminService creates a new AdminService. publisher may be nil.
func NewAdminService(tx Transactor, years YearWriter, notices NoticeStore, publisher Publisher, logger zerolog.Logger) *AdminService {
	return &AdminService{
		tx:        tx,
		years:     years,
		notices:   notices,
		publisher: publisher,
		logger:    logger,
	}
}

// SetCurrentYear makes id the only current academic year in one transaction
func (s *AdminService) SetCurrentYear(ctx context.Context, id int64) (*dto.AcademicYearResponse, error) {
	var year *models.AcademicYear
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.years.SetCurrentYear(ctx, tx, id); err != nil {
			return err
		}
		y, err := s.years.YearByID(ctx, tx, id)
		if err != nil {
			return err
		}
		year = y
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAcademicYearNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrAcademicYearNotFound, MsgYearNotFound)
		}
		s.logger.Error().Err(err).Int64("yearID", id).Msg("Failed to switch current academic year")
		return nil, apperrors.NewStorageError(MsgYearSwitchFail, err)
	}

	s.logger.Info().Int64("yearID", id).Str("year", year.Name).Msg("Current academic year changed")
	return &dto.AcademicYearResponse{
		ID:        year.ID,
		Name:      year.Name,
		StartDate: year.StartDate.Format(defaultDateDisplay),
		IsCurrent: year.IsCurrent,
	}, nil
}

// CreateNotice posts a notice to the board
func (s *AdminService) CreateNotice(ctx context.Context, req *dto.CreateNoticeRequest) (*dto.NoticeResponse, error) {
	n := &models.Notice{
		Title:    strings.TrimSpace(req.Title),
		Text:     strings.TrimSpace(req.Text),
		Category: strings.TrimSpace(req.Category),
		Link:     strings.TrimSpace(req.Link),
	}
	if n.Title == "" || n.Text == "" || n.Category == "" {
		return nil, apperrors.NewUserInputError(apperrors.ErrValidationFailed, MsgNoticeInvalid, "title", "text", "category")
	}

	if err := s.notices.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create notice")
		return nil, apperrors.NewStorageError(MsgNoticeSaveFail, err)
	}

	s.logger.Info().Int64("noticeID", n.ID).Str("category", n.Category).Msg("Notice created")
	resp := &dto.NoticeResponse{
		ID:        n.ID,
		Title:     n.Title,
		Text:      n.Text,
		Category:  n.Category,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
	if s.publisher != nil {
		s.publisher.Publish(EventNoticeCreated, resp)
	}
	return resp, nil
}
