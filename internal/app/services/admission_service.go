package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/dberrors"
	"github.com/yigit/schoolsite/internal/pkg/filestorage"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
	"github.com/yigit/schoolsite/internal/pkg/validation"
)

// StudentPhotoDir is the storage subdirectory for admission photos
const StudentPhotoDir = "students"

// Visitor-facing admission messages
const (
	MsgRequiredFields    = "Please fill in all required fields."
	MsgInvalidEmail      = "Please enter a valid email address."
	MsgInvalidDOB        = "Please enter a valid date of birth (YYYY-MM-DD)."
	MsgInvalidGender     = "Please select a valid gender."
	MsgFieldTooLong      = "One or more fields are longer than allowed."
	MsgClassNotFound     = "The selected class does not exist."
	MsgEmailRegistered   = "This email address is already registered."
	MsgNoCurrentYear     = "No current academic year is set. Please contact the administrator."
	MsgBandExhausted     = "The student ID range is full. Please contact the administrator."
	MsgPhotoUpload       = "There was an error uploading the photo."
	MsgConcurrentAttempt = "Another admission was being processed at the same time. Please submit the form again."
	MsgAdmissionFailed   = "An error occurred during admission. Please try again."
	MsgClassListFailed   = "Could not load class list. Please contact administrator."
)

// AdmissionStage names the steps a submission moves through
type AdmissionStage string

const (
	StageReceived  AdmissionStage = "received"
	StageValidated AdmissionStage = "validated"
	StageEnriched  AdmissionStage = "enriched"
	StagePersisted AdmissionStage = "persisted"
	StageConfirmed AdmissionStage = "confirmed"
	StageRejected  AdmissionStage = "rejected"
)

// PasswordHasher produces the stored credential hash
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// AdmissionConfig holds the tunables of the admission flow
type AdmissionConfig struct {
	MaxAttempts   int
	MaxPhotoBytes int64
}

// AdmissionService turns a submitted form into user, student and enrollment rows
type AdmissionService struct {
	tx      Transactor
	classes ClassReader
	users   UserReader
	store   AdmissionStore
	files   filestorage.FileStorage
	hasher  PasswordHasher
	cfg     AdmissionConfig
	logger  zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(
	tx Transactor,
	classes ClassReader,
	users UserReader,
	store AdmissionStore,
	files filestorage.FileStorage,
	hasher PasswordHasher,
	cfg AdmissionConfig,
	logger zerolog.Logger,
) *AdmissionService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &AdmissionService{
		tx:      tx,
		classes: classes,
		users:   users,
		store:   store,
		files:   files,
		hasher:  hasher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Classes returns the classes offered on the admission form
func (s *AdmissionService) Classes(ctx context.Context) ([]models.Class, error) {
	classes, err := s.classes.ListClasses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load class list")
		return nil, apperrors.NewStorageError(MsgClassListFailed, err)
	}
	return classes, nil
}

// validationError maps field failures to the single message shown to the visitor.
// Missing required fields win over format problems.
func validationError(failures []validation.FieldError) error {
	var missing, invalid []string
	message := ""
	for _, f := range failures {
		if f.Tag == "required" {
			missing = append(missing, f.Field)
			continue
		}
		invalid = append(invalid, f.Field)
		if message != "" {
			continue
		}
		switch {
		case f.Field == "email":
			message = MsgInvalidEmail
		case f.Field == "dob_ad":
			message = MsgInvalidDOB
		case f.Field == "gender":
			message = MsgInvalidGender
		case f.Field == "class_id":
			message = MsgClassNotFound
		default:
			message = MsgFieldTooLong
		}
	}
	if len(missing) > 0 {
		return apperrors.NewUserInputError(apperrors.ErrValidationFailed, MsgRequiredFields, missing...)
	}
	return apperrors.NewUserInputError(apperrors.ErrValidationFailed, message, invalid...)
}

// Validate trims the form and checks it against the field rules
func (s *AdmissionService) Validate(form *dto.AdmissionForm) error {
	form.Trim()
	failures, err := validation.Struct(form)
	if err != nil {
		return apperrors.NewStorageError(MsgAdmissionFailed, err)
	}
	if len(failures) > 0 {
		return validationError(failures)
	}
	return nil
}

// enrich resolves the class and current year and checks the email is free
func (s *AdmissionService) enrich(ctx context.Context, form *dto.AdmissionForm) (*models.Class, *models.AcademicYear, error) {
	class, err := s.classes.ClassByID(ctx, form.ClassIDValue())
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, nil, apperrors.NewUserInputError(apperrors.ErrClassNotFound, MsgClassNotFound, "class_id")
		}
		return nil, nil, apperrors.NewStorageError(MsgAdmissionFailed, err)
	}

	exists, err := s.users.EmailExists(ctx, form.Email)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(MsgAdmissionFailed, err)
	}
	if exists {
		return nil, nil, apperrors.NewUserInputError(apperrors.ErrEmailAlreadyExists, MsgEmailRegistered, "email")
	}

	year, err := s.classes.CurrentAcademicYear(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoCurrentAcademicYear) {
			return nil, nil, apperrors.NewConfigurationError(apperrors.ErrNoCurrentAcademicYear, MsgNoCurrentYear)
		}
		return nil, nil, apperrors.NewStorageError(MsgAdmissionFailed, err)
	}
	return class, year, nil
}

// savePhoto stores the optional upload and returns its generated name
func (s *AdmissionService) savePhoto(photo *dto.PhotoUpload) (string, error) {
	if !photo.Present() {
		return "", nil
	}
	if err := filestorage.ValidateImage(photo.Header, s.cfg.MaxPhotoBytes); err != nil {
		return "", apperrors.NewUserInputError(apperrors.ErrPhotoUpload, MsgPhotoUpload, "photo").WithCause(err)
	}
	name, err := s.files.SaveFileWithPath(photo.Header, StudentPhotoDir, "student_")
	if err != nil {
		return "", apperrors.NewUserInputError(apperrors.ErrPhotoUpload, MsgPhotoUpload, "photo").WithCause(err)
	}
	return name, nil
}

// persist writes the three rows in one transaction and returns what was created
func (s *AdmissionService) persist(ctx context.Context, form *dto.AdmissionForm, class *models.Class, year *models.AcademicYear, dob time.Time, photo string) (*dto.AdmissionResult, error) {
	var result *dto.AdmissionResult

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.store.NextUserID(ctx, tx, models.RoleStudent)
		if err != nil {
			return err
		}

		username := helpers.UsernameBase(form.FullName) + strconv.FormatInt(userID, 10)
		hash, err := s.hasher.Hash(username)
		if err != nil {
			return fmt.Errorf("failed to hash default password: %w", err)
		}

		rollNo, err := s.store.NextRollNo(ctx, tx, class.ID, year.ID)
		if err != nil {
			return err
		}

		user := &models.User{
			ID:           userID,
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleStudent,
			FullName:     form.FullName,
			Email:        form.Email,
			Gender:       strings.ToLower(form.Gender),
			IsActive:     true,
		}
		if err := s.store.InsertUser(ctx, tx, user); err != nil {
			return err
		}

		student := &models.Student{
			UserID:        userID,
			FullName:      form.FullName,
			Email:         form.Email,
			DOBBS:         form.DOBBS,
			DOB:           &dob,
			Address:       form.Address,
			Gender:        form.Gender,
			ParentContact: form.ParentContact,
			Photo:         photo,
			IsActive:      true,
		}
		studentID, err := s.store.InsertStudent(ctx, tx, student)
		if err != nil {
			return err
		}

		enrollment := &models.Enrollment{
			StudentID:      studentID,
			ClassID:        class.ID,
			AcademicYearID: year.ID,
			Section:        helpers.NullIfEmpty(form.Section),
			RollNo:         rollNo,
			Status:         models.EnrollmentStatusEnrolled,
		}
		if err := s.store.InsertEnrollment(ctx, tx, enrollment); err != nil {
			return err
		}

		result = &dto.AdmissionResult{
			StudentID:      studentID,
			UserID:         userID,
			Username:       username,
			RollNo:         rollNo,
			AcademicYearID: year.ID,
			Photo:          photo,
		}
		return nil
	})
	return result, err
}

// classify turns a failed transaction into the error shown to the visitor
// and reports whether a fresh attempt may succeed.
func classify(err error) (retry bool, visible error) {
	switch {
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return false, apperrors.NewUserInputError(apperrors.ErrEmailAlreadyExists, MsgEmailRegistered, "email").WithCause(err)
	case errors.Is(err, apperrors.ErrIdentifierBandExhausted):
		return false, apperrors.NewConfigurationError(apperrors.ErrIdentifierBandExhausted, MsgBandExhausted).WithCause(err)
	case errors.Is(err, apperrors.ErrAllocationConflict), dberrors.IsRetryable(err):
		return true, apperrors.NewRetryableError(MsgConcurrentAttempt, err)
	default:
		return false, apperrors.NewStorageError(MsgAdmissionFailed, err)
	}
}

// Submit runs the whole admission. Every returned error is an *apperrors.CustomError
// whose Message is safe to show.
func (s *AdmissionService) Submit(ctx context.Context, form *dto.AdmissionForm, photo *dto.PhotoUpload) (*dto.AdmissionResult, error) {
	log := s.logger.With().Str("email", strings.TrimSpace(form.Email)).Logger()
	log.Debug().Str("stage", string(StageReceived)).Msg("Admission received")

	reject := func(err error) (*dto.AdmissionResult, error) {
		ev := log.Warn()
		if apperrors.KindOf(err) == apperrors.KindStorage {
			ev = log.Error()
		}
		ev.Err(err).Str("stage", string(StageRejected)).Str("kind", apperrors.KindOf(err).String()).Msg("Admission rejected")
		return nil, err
	}

	if err := s.Validate(form); err != nil {
		return reject(err)
	}
	dob, err := time.Parse("2006-01-02", form.DOBAD)
	if err != nil {
		return reject(apperrors.NewUserInputError(apperrors.ErrValidationFailed, MsgInvalidDOB, "dob_ad"))
	}
	log.Debug().Str("stage", string(StageValidated)).Msg("Admission validated")

	class, year, err := s.enrich(ctx, form)
	if err != nil {
		return reject(err)
	}
	log.Debug().Str("stage", string(StageEnriched)).Int64("classID", class.ID).Int64("yearID", year.ID).Msg("Admission enriched")

	photoName, err := s.savePhoto(photo)
	if err != nil {
		return reject(err)
	}

	var result *dto.AdmissionResult
	for attempt := 1; ; attempt++ {
		result, err = s.persist(ctx, form, class, year, dob, photoName)
		if err == nil {
			break
		}
		retry, visible := classify(err)
		if !retry || attempt >= s.cfg.MaxAttempts {
			s.discardPhoto(photoName)
			return reject(visible)
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Admission transaction conflicted, retrying")
	}
	log.Debug().Str("stage", string(StagePersisted)).Msg("Admission persisted")

	log.Info().
		Str("stage", string(StageConfirmed)).
		Int64("studentID", result.StudentID).
		Int64("userID", result.UserID).
		Int("rollNo", result.RollNo).
		Msg("Admission confirmed")
	return result, nil
}

func (s *AdmissionService) discardPhoto(name string) {
	if name == "" {
		return
	}
	if err := s.files.DeleteFile(StudentPhotoDir, name); err != nil {
		s.logger.Error().Err(err).Str("photo", name).Msg("Failed to remove photo of failed admission")
	}
}
