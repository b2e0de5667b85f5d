package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/filestorage"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
)

// Report defaults
const (
	NotAvailable       = "N/A"
	DefaultSchoolName  = "Our School"
	DefaultLogoURL     = "/assets/img/logo.png"
	DefaultStudentPic  = "/assets/img/default.jpg"
	DefaultPasswordTip = "(Same as username)"

	MsgStudentNotFound = "No student record found for the provided ID."
	MsgReportFailed    = "Something went wrong while loading the admission details. Please try again later."
)

// Branding is the school name and logo shown on printed pages
type Branding struct {
	SchoolName string
	LogoURL    string
}

// ConfirmationReport is the printable admission card
type ConfirmationReport struct {
	Branding
	StudentID     int64
	PhotoURL      string
	FullName      string
	Username      string
	PasswordNote  string
	Email         string
	DOBBS         string
	DOBAD         string
	Gender        string
	ParentContact string
	Address       string
	ClassName     string
	Section       string
	RollNo        string
	YearName      string
	AdmittedOn    string
}

// ConfirmationService builds the admission confirmation report
type ConfirmationService struct {
	store  AdmissionStore
	site   SiteReader
	files  filestorage.FileStorage
	logger zerolog.Logger
}

// NewConfirmationService creates a new ConfirmationService
func NewConfirmationService(store AdmissionStore, site SiteReader, files filestorage.FileStorage, logger zerolog.Logger) *ConfirmationService {
	return &ConfirmationService{
		store:  store,
		site:   site,
		files:  files,
		logger: logger,
	}
}

// PublicURL turns a stored relative path into a root-relative URL
func PublicURL(p string) string {
	return "/" + strings.TrimPrefix(p, "/")
}

// LoadBranding returns the published school's name and logo, or the defaults
func LoadBranding(ctx context.Context, site SiteReader, logger zerolog.Logger) Branding {
	b := Branding{SchoolName: DefaultSchoolName, LogoURL: DefaultLogoURL}
	profile, err := site.PublishedProfile(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Warn().Err(err).Msg("Falling back to default branding")
		}
		return b
	}
	if profile.SchoolName != "" {
		b.SchoolName = profile.SchoolName
	}
	if profile.LogoPath != "" {
		b.LogoURL = PublicURL(profile.LogoPath)
	}
	return b
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func ptrOrNA(s *string) string {
	return orNA(helpers.StringOr(s, ""))
}

// photoURL serves the stored photo when it is still on disk
func (s *ConfirmationService) photoURL(name string) string {
	if name == "" || !s.files.Exists(StudentPhotoDir, name) {
		return DefaultStudentPic
	}
	return "/uploads/" + StudentPhotoDir + "/" + name
}

// Build loads the student and renders every value the report shows.
// Unknown ids yield a resolution error, anything else a storage error.
func (s *ConfirmationService) Build(ctx context.Context, studentID int64) (*ConfirmationReport, error) {
	rec, err := s.store.GetAdmissionRecord(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, MsgStudentNotFound)
		}
		s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to load admission record")
		return nil, apperrors.NewStorageError(MsgReportFailed, err)
	}
	return s.render(ctx, rec), nil
}

func (s *ConfirmationService) render(ctx context.Context, rec *models.AdmissionRecord) *ConfirmationReport {
	r := &ConfirmationReport{
		Branding:      LoadBranding(ctx, s.site, s.logger),
		StudentID:     rec.StudentID,
		PhotoURL:      s.photoURL(rec.Photo),
		FullName:      orNA(rec.FullName),
		Username:      ptrOrNA(rec.Username),
		PasswordNote:  DefaultPasswordTip,
		Email:         orNA(rec.Email),
		DOBBS:         orNA(rec.DOBBS),
		DOBAD:         helpers.FormatDate(rec.DOB, NotAvailable),
		Gender:        orNA(rec.Gender),
		ParentContact: orNA(rec.ParentContact),
		Address:       orNA(rec.Address),
		ClassName:     ptrOrNA(rec.ClassName),
		Section:       ptrOrNA(rec.Section),
		RollNo:        NotAvailable,
		YearName:      ptrOrNA(rec.YearName),
		AdmittedOn:    helpers.FormatDate(&rec.CreatedAt, NotAvailable),
	}
	if rec.RollNo != nil {
		r.RollNo = strconv.Itoa(*rec.RollNo)
	}
	if rec.Username == nil {
		r.PasswordNote = NotAvailable
	}
	return r
}
