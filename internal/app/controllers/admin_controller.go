package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/middleware"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
)

// AdminOperator performs administrator writes
type AdminOperator interface {
	SetCurrentYear(ctx context.Context, id int64) (*dto.AcademicYearResponse, error)
	CreateNotice(ctx context.Context, req *dto.CreateNoticeRequest) (*dto.NoticeResponse, error)
}

// AdminController exposes the administrator API
type AdminController struct {
	admin  AdminOperator
	logger zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(admin AdminOperator, logger zerolog.Logger) *AdminController {
	return &AdminController{
		admin:  admin,
		logger: logger,
	}
}

// SetCurrentYear switches the current academic year
// @Summary Set the current academic year
// @Description Makes the given academic year the only current one. New admissions enroll into it.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Academic year ID"
// @Success 200 {object} dto.APIResponse{data=dto.AcademicYearResponse} "Current year changed"
// @Failure 400 {object} dto.APIResponse "Invalid ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Academic year not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /admin/academic-years/{id}/current [put]
func (a *AdminController) SetCurrentYear(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(c, apperrors.NewUserInputError(apperrors.ErrBadRequest, "Invalid academic year ID", "id"))
		return
	}

	year, err := a.admin.SetCurrentYear(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	a.logger.Info().Int64("yearID", id).Int64("by", c.GetInt64(middleware.ContextUserID)).Msg("Academic year switched via API")
	c.JSON(http.StatusOK, dto.NewSuccessResponse(year, "Current academic year updated"))
}

// CreateNotice posts a notice
// @Summary Create a notice
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNoticeRequest true "Notice"
// @Success 201 {object} dto.APIResponse{data=dto.NoticeResponse} "Notice created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /admin/notices [post]
func (a *AdminController) CreateNotice(c *gin.Context) {
	req, ok := middleware.BindJSON[dto.CreateNoticeRequest](c)
	if !ok {
		return
	}

	notice, err := a.admin.CreateNotice(c.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(notice, "Notice created"))
}
