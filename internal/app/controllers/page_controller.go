// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/app/services"
	"github.com/yigit/schoolsite/internal/pkg/visitor"
	"github.com/yigit/schoolsite/internal/web"
)

// HomePager renders the homepage and the shared branding
type HomePager interface {
	Page(ctx context.Context) *services.HomePage
	Branding(ctx context.Context) services.Branding
}

// NoticeBoarder loads a page of the notice board
type NoticeBoarder interface {
	Board(ctx context.Context, q services.NoticeQuery) (*services.NoticeBoard, error)
}

// Admitter runs admissions
type Admitter interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Submit(ctx context.Context, form *dto.AdmissionForm, photo *dto.PhotoUpload) (*dto.AdmissionResult, error)
}

// ConfirmationBuilder builds the printable admission report
type ConfirmationBuilder interface {
	Build(ctx context.Context, studentID int64) (*services.ConfirmationReport, error)
}

// view is the data every HTML page is rendered with. Pages read only the
// fields they need.
type view struct {
	Title    string
	Branding services.Branding

	Flash      *visitor.Flash
	Form       map[string]string
	Classes    []models.Class
	Genders    []string
	ClassError string

	Report *services.ConfirmationReport
	Board  *services.NoticeBoard
	Page   *services.HomePage

	Heading string
	Message string
}

// renderError writes a terminal error page
func renderError(c *gin.Context, status int, branding services.Branding, heading, message string) {
	c.HTML(status, web.PageError, view{
		Title:    heading,
		Branding: branding,
		Heading:  heading,
		Message:  message,
	})
}

func errorHeading(status int) string {
	if status == http.StatusNotFound {
		return "Record not found"
	}
	return "Something went wrong"
}
