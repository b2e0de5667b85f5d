package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/middleware"
)

// healthTimeout bounds the database ping of the health check
const healthTimeout = 2 * time.Second

// StatsProvider serves the dashboard counters
type StatsProvider interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// Pinger checks the database connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsController exposes the public JSON endpoints
type StatsController struct {
	stats  StatsProvider
	db     Pinger
	logger zerolog.Logger
}

// NewStatsController creates a new StatsController
func NewStatsController(stats StatsProvider, db Pinger, logger zerolog.Logger) *StatsController {
	return &StatsController{
		stats:  stats,
		db:     db,
		logger: logger,
	}
}

// Stats returns student counts
// @Summary Student statistics
// @Description Active student totals by gender and the number of plus-two students in the current academic year
// @Tags stats
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.DashboardStats} "Statistics"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /stats [get]
func (s *StatsController) Stats(c *gin.Context) {
	stats, err := s.stats.Dashboard(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// Health reports whether the service and its database are reachable
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Database unreachable"
// @Router /health [get]
func (s *StatsController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Health check failed")
		resp := dto.NewSuccessResponse(dto.HealthResponse{Status: "degraded", Database: "unreachable"}, "")
		resp.Success = false
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "ok", Database: "ok"}, ""))
}
