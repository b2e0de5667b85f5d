package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/dberrors"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

// advisoryNamespace is mixed into single-key advisory locks so they do not
// collide with locks taken by other applications on the same database
const advisoryNamespace int64 = 0x5343484c << 32

// Constraint names the admission flow reacts to
const (
	ConstraintUsersEmail     = "users_email_key"
	ConstraintStudentsEmail  = "students_email_key"
	ConstraintUsersPkey      = "users_pkey"
	ConstraintUsersUsername  = "users_username_key"
	ConstraintEnrollmentRoll = "student_enrollments_roll_key"
)

// BandLockKey is the advisory lock key guarding id allocation in a role band
func BandLockKey(band models.IDBand) int64 {
	return advisoryNamespace | band.Min
}

// AdmissionRepository allocates identifiers and writes admission rows.
// Methods that take a db.Querier are meant to run on the admission transaction.
type AdmissionRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewAdmissionRepository creates a new AdmissionRepository
func NewAdmissionRepository(q db.Querier) *AdmissionRepository {
	return &AdmissionRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// maxUserIDInBand returns the highest id in band, or 0 when the band is empty
func (r *AdmissionRepository) maxUserIDInBand(ctx context.Context, q db.Querier, band models.IDBand) (int64, error) {
	sql, args, err := r.sb.Select("COALESCE(MAX(id), 0)").
		From("users").
		Where(squirrel.Expr("id BETWEEN ? AND ?", band.Min, band.Max)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build max id query: %w", err)
	}

	var maxID int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read max user id: %w", err)
	}
	return maxID, nil
}

func nextInBand(maxID int64, band models.IDBand) (int64, error) {
	next := band.Min
	if maxID >= band.Min {
		next = maxID + 1
	}
	if next > band.Max {
		return 0, apperrors.ErrIdentifierBandExhausted
	}
	return next, nil
}

// NextUserID locks the role's band for the rest of the transaction and
// returns the next free id in it.
func (r *AdmissionRepository) NextUserID(ctx context.Context, q db.Querier, role models.RoleType) (int64, error) {
	band, ok := models.BandFor(role)
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, role)
	}

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", BandLockKey(band)); err != nil {
		return 0, fmt.Errorf("failed to lock id band: %w", err)
	}

	maxID, err := r.maxUserIDInBand(ctx, q, band)
	if err != nil {
		return 0, err
	}
	return nextInBand(maxID, band)
}

// PeekNextUserID reports the id NextUserID would hand out, without locking
func (r *AdmissionRepository) PeekNextUserID(ctx context.Context, role models.RoleType) (int64, error) {
	band, ok := models.BandFor(role)
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, role)
	}
	maxID, err := r.maxUserIDInBand(ctx, r.db, band)
	if err != nil {
		return 0, err
	}
	return nextInBand(maxID, band)
}

// NextRollNo locks the (class, year) pair for the rest of the transaction
// and returns one more than its highest roll number.
func (r *AdmissionRepository) NextRollNo(ctx context.Context, q db.Querier, classID, academicYearID int64) (int, error) {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", int32(classID), int32(academicYearID)); err != nil {
		return 0, fmt.Errorf("failed to lock roll sequence: %w", err)
	}

	sql, args, err := r.sb.Select("COALESCE(MAX(roll_no), 0) + 1").
		From("student_enrollments").
		Where(squirrel.Eq{"class_id": classID, "academic_year_id": academicYearID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build roll number query: %w", err)
	}

	var rollNo int
	if err := q.QueryRow(ctx, sql, args...).Scan(&rollNo); err != nil {
		return 0, fmt.Errorf("failed to read roll number: %w", err)
	}
	return rollNo, nil
}

// mapInsertConflict tags unique violations with the sentinel the admission flow acts on.
// A clash on an email constraint is a duplicate email; a clash on the
// allocated id or username means another transaction won the race.
func mapInsertConflict(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, ConstraintUsersEmail),
		dberrors.IsDuplicateConstraintError(err, ConstraintStudentsEmail):
		return fmt.Errorf("%w: %w", apperrors.ErrEmailAlreadyExists, err)
	case dberrors.IsDuplicateConstraintError(err, ConstraintUsersPkey),
		dberrors.IsDuplicateConstraintError(err, ConstraintUsersUsername),
		dberrors.IsDuplicateConstraintError(err, ConstraintEnrollmentRoll):
		return fmt.Errorf("%w: %w", apperrors.ErrAllocationConflict, err)
	}
	return err
}

// InsertUser inserts the login identity with its pre-allocated id
func (r *AdmissionRepository) InsertUser(ctx context.Context, q db.Querier, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("id", "username", "password", "role", "full_name", "email", "gender", "is_active").
		Values(user.ID, user.Username, user.PasswordHash, string(user.Role), user.FullName, user.Email, user.Gender, user.IsActive).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert user: %w", mapInsertConflict(err))
	}
	return nil
}

// InsertStudent inserts the profile and returns its generated id
func (r *AdmissionRepository) InsertStudent(ctx context.Context, q db.Querier, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "full_name", "email", "dob_bs", "dob", "address", "gender", "parent_contact", "photo", "is_active").
		Values(student.UserID, student.FullName, student.Email, nullable(student.DOBBS), student.DOB,
			nullable(student.Address), student.Gender, student.ParentContact, nullable(student.Photo), student.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build student insert: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert student: %w", mapInsertConflict(err))
	}
	student.ID = id
	return id, nil
}

// InsertEnrollment places the student in a class for an academic year
func (r *AdmissionRepository) InsertEnrollment(ctx context.Context, q db.Querier, e *models.Enrollment) error {
	sql, args, err := r.sb.Insert("student_enrollments").
		Columns("student_id", "class_id", "academic_year_id", "section", "roll_no", "status").
		Values(e.StudentID, e.ClassID, e.AcademicYearID, e.Section, e.RollNo, e.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrollment insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("failed to insert enrollment: %w", mapInsertConflict(err))
	}
	return nil
}

// GetAdmissionRecord loads a student with login, class and year for the
// confirmation report. The most recent enrollment wins.
func (r *AdmissionRepository) GetAdmissionRecord(ctx context.Context, studentID int64) (*models.AdmissionRecord, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.full_name", "s.email", "s.dob_bs", "s.dob", "s.address", "s.gender",
		"s.parent_contact", "s.photo", "s.created_at",
		"u.username", "c.name", "se.section", "se.roll_no", "ay.year_name",
	).
		From("students s").
		LeftJoin("users u ON s.user_id = u.id").
		LeftJoin("student_enrollments se ON s.id = se.student_id").
		LeftJoin("classes c ON se.class_id = c.id").
		LeftJoin("academic_years ay ON se.academic_year_id = ay.id").
		Where(squirrel.Eq{"s.id": studentID}).
		OrderBy("ay.start_date DESC NULLS LAST", "se.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build admission record query: %w", err)
	}

	var (
		rec                            models.AdmissionRecord
		dobBS, address, gender, parent *string
		photo                          *string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.StudentID, &rec.FullName, &rec.Email, &dobBS, &rec.DOB, &address, &gender,
		&parent, &photo, &rec.CreatedAt,
		&rec.Username, &rec.ClassName, &rec.Section, &rec.RollNo, &rec.YearName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to load admission record")
		return nil, fmt.Errorf("failed to load admission record: %w", err)
	}

	rec.DOBBS = deref(dobBS)
	rec.Address = deref(address)
	rec.Gender = deref(gender)
	rec.ParentContact = deref(parent)
	rec.Photo = deref(photo)
	return &rec, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
