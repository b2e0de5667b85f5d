package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
)

// MsgStatsFailed is returned when the counts cannot be read
const MsgStatsFailed = "Could not load statistics."

// StatsService serves the dashboard counters
type StatsService struct {
	stats  StatsReader
	logger zerolog.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(stats StatsReader, logger zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, logger: logger}
}

// Dashboard returns all-time active totals plus the current plus-two headcount
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	sum, err := s.stats.Summary(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read student summary")
		return nil, apperrors.NewStorageError(MsgStatsFailed, err)
	}

	plusTwo, err := s.stats.CurrentPlusTwo(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read plus-two count")
		return nil, apperrors.NewStorageError(MsgStatsFailed, err)
	}

	return &models.DashboardStats{
		TotalStudents: sum.Total,
		Boys:          sum.Boys,
		Girls:         sum.Girls,
		PlusTwo:       plusTwo,
	}, nil
}
