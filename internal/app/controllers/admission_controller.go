package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/app/services"
	"github.com/yigit/schoolsite/internal/middleware"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/visitor"
	"github.com/yigit/schoolsite/internal/web"
)

// Admission routes
const (
	AdmissionPath    = "/admission"
	ConfirmationPath = "/admission/confirmation"
)

// Genders offered on the admission form
var Genders = []string{"Male", "Female", "Other"}

// AdmissionController handles the admission form, its submission and the confirmation report
type AdmissionController struct {
	admissions   Admitter
	confirmation ConfirmationBuilder
	home         HomePager
	state        *visitor.Store
	logger       zerolog.Logger
}

// NewAdmissionController creates a new AdmissionController
func NewAdmissionController(admissions Admitter, confirmation ConfirmationBuilder, home HomePager, state *visitor.Store, logger zerolog.Logger) *AdmissionController {
	return &AdmissionController{
		admissions:   admissions,
		confirmation: confirmation,
		home:         home,
		state:        state,
		logger:       logger,
	}
}

// Form renders the admission form with any echoed values and flash message.
// Both are consumed by this render.
func (a *AdmissionController) Form(c *gin.Context) {
	ctx := c.Request.Context()
	branding := a.home.Branding(ctx)
	st := a.state.Take(middleware.VisitorID(c))

	v := view{
		Title:    "Admission | " + branding.SchoolName,
		Branding: branding,
		Flash:    st.Flash,
		Form:     st.Echo,
		Genders:  Genders,
	}
	classes, err := a.admissions.Classes(ctx)
	if err != nil {
		v.ClassError = apperrors.UserMessage(err, services.MsgClassListFailed)
	}
	v.Classes = classes

	c.HTML(http.StatusOK, web.PageAdmission, v)
}

// Submit processes the admission form and redirects: back to the form on
// failure, to the confirmation report on success.
func (a *AdmissionController) Submit(c *gin.Context) {
	vid := middleware.VisitorID(c)
	a.state.ClearEcho(vid)

	var form dto.AdmissionForm
	if err := c.ShouldBind(&form); err != nil {
		a.logger.Warn().Err(err).Msg("Unreadable admission submission")
		a.state.SetFlash(vid, visitor.FlashError, services.MsgRequiredFields)
		c.Redirect(http.StatusSeeOther, AdmissionPath)
		return
	}
	// Submit trims the form in place; echo what the visitor typed
	submitted := form.Values()

	var photo *dto.PhotoUpload
	fh, err := c.FormFile("photo")
	switch {
	case err == nil:
		photo = &dto.PhotoUpload{Header: fh}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		a.logger.Warn().Err(err).Msg("Unreadable photo upload")
		a.state.SetEcho(vid, submitted)
		a.state.SetFlash(vid, visitor.FlashError, services.MsgPhotoUpload)
		c.Redirect(http.StatusSeeOther, AdmissionPath)
		return
	}

	result, err := a.admissions.Submit(c.Request.Context(), &form, photo)
	if err != nil {
		a.state.SetEcho(vid, submitted)
		a.state.SetFlash(vid, visitor.FlashError, apperrors.UserMessage(err, services.MsgAdmissionFailed))
		c.Redirect(http.StatusSeeOther, AdmissionPath)
		return
	}

	a.state.SetNewStudent(vid, result.StudentID)
	c.Redirect(http.StatusSeeOther, ConfirmationPath)
}

// Confirmation renders the report for the just-admitted student, or for ?id=
// when there is none. Without either it redirects home.
func (a *AdmissionController) Confirmation(c *gin.Context) {
	ctx := c.Request.Context()

	studentID, ok := a.state.TakeNewStudent(middleware.VisitorID(c))
	if !ok {
		id, err := strconv.ParseInt(c.Query("id"), 10, 64)
		if err != nil || id <= 0 {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		studentID = id
	}

	report, err := a.confirmation.Build(ctx, studentID)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.KindOf(err) == apperrors.KindResolution {
			status = http.StatusNotFound
		}
		renderError(c, status, a.home.Branding(ctx), errorHeading(status), apperrors.UserMessage(err, services.MsgReportFailed))
		return
	}

	c.HTML(http.StatusOK, web.PageConfirmation, view{
		Title:    "Admission Confirmation | " + report.SchoolName,
		Branding: report.Branding,
		Report:   report,
	})
}
