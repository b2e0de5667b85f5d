package services

import (
	"context"
	"time"

	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
)

// Services defined in this package:
// - AdmissionService: validates and persists admission submissions
// - ConfirmationService: builds the admission confirmation report
// - NoticeService: paginated, filtered notice board
// - HomeService: public homepage content
// - StatsService: student counts for the dashboard API
// - AuthService: portal login
// - AdminService: academic year switching and notice posting

// Transactor runs fn inside one database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// ClassReader looks up classes and academic years
type ClassReader interface {
	ListClasses(ctx context.Context) ([]models.Class, error)
	ClassByID(ctx context.Context, id int64) (*models.Class, error)
	CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error)
}

// YearWriter switches the current academic year
type YearWriter interface {
	YearByID(ctx context.Context, q db.Querier, id int64) (*models.AcademicYear, error)
	SetCurrentYear(ctx context.Context, q db.Querier, id int64) error
}

// UserReader looks up login identities
type UserReader interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AdmissionStore allocates identifiers and writes admission rows.
// The db.Querier argument is the transaction the writes belong to.
type AdmissionStore interface {
	NextUserID(ctx context.Context, q db.Querier, role models.RoleType) (int64, error)
	NextRollNo(ctx context.Context, q db.Querier, classID, academicYearID int64) (int, error)
	InsertUser(ctx context.Context, q db.Querier, user *models.User) error
	InsertStudent(ctx context.Context, q db.Querier, student *models.Student) (int64, error)
	InsertEnrollment(ctx context.Context, q db.Querier, e *models.Enrollment) error
	GetAdmissionRecord(ctx context.Context, studentID int64) (*models.AdmissionRecord, error)
}

// NoticeStore reads and writes notices
type NoticeStore interface {
	Count(ctx context.Context, category string) (int64, error)
	List(ctx context.Context, category string, offset, limit uint64) ([]models.Notice, error)
	Latest(ctx context.Context, n uint64) ([]models.Notice, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, n *models.Notice) error
}

// SiteReader reads homepage content
type SiteReader interface {
	PublishedProfile(ctx context.Context) (*models.SchoolProfile, error)
	LatestNews(ctx context.Context, limit uint64) ([]models.News, error)
	LatestPrincipalMessage(ctx context.Context, schoolID int64) (*models.PrincipalMessage, error)
	Teachers(ctx context.Context) ([]models.Teacher, error)
	QuoteCount(ctx context.Context) (int, error)
	QuoteAt(ctx context.Context, index uint64) (*models.Quote, error)
	Facilities(ctx context.Context) ([]models.Facility, error)
	Gallery(ctx context.Context) ([]models.GalleryPhoto, error)
}

// StatsReader computes student counts
type StatsReader interface {
	ClassStats(ctx context.Context) ([]models.ClassStat, error)
	PlusTwoStats(ctx context.Context) ([]models.PlusTwoStat, error)
	Summary(ctx context.Context) (models.StudentSummary, error)
	CurrentPlusTwo(ctx context.Context) (int64, error)
}

// Clock returns the current time; tests pin it
type Clock func() time.Time
