package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/services"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
	"github.com/yigit/schoolsite/internal/web"
)

// SiteController serves the public homepage and notice board
type SiteController struct {
	home    HomePager
	notices NoticeBoarder
	logger  zerolog.Logger
}

// NewSiteController creates a new SiteController
func NewSiteController(home HomePager, notices NoticeBoarder, logger zerolog.Logger) *SiteController {
	return &SiteController{
		home:    home,
		notices: notices,
		logger:  logger,
	}
}

// Home renders the homepage. Missing sections are simply left out.
func (s *SiteController) Home(c *gin.Context) {
	page := s.home.Page(c.Request.Context())
	c.HTML(http.StatusOK, web.PageHome, view{
		Title:    page.Title,
		Branding: page.Branding,
		Page:     page,
	})
}

// Notices renders one filtered page of the notice board
func (s *SiteController) Notices(c *gin.Context) {
	ctx := c.Request.Context()
	branding := s.home.Branding(ctx)

	board, err := s.notices.Board(ctx, services.NoticeQuery{
		Category: c.Query("category"),
		Page:     helpers.ParsePage(c.Query("page")),
		Path:     c.Request.URL.Path,
		Query:    c.Request.URL.Query(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load notice board")
		renderError(c, http.StatusInternalServerError, branding, errorHeading(http.StatusInternalServerError),
			apperrors.UserMessage(err, services.MsgNoticesFailed))
		return
	}
	board.Branding = branding

	c.HTML(http.StatusOK, web.PageNotices, view{
		Title:    "Notice Board | " + branding.SchoolName,
		Branding: branding,
		Board:    board,
	})
}
