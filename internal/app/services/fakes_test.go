package services

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/db"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
)

var errBoom = errors.New("boom")

var nopLogger = zerolog.Nop()

// fakeTx runs the function without a real transaction and counts calls
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

type fakeClasses struct {
	classes []models.Class
	year    *models.AcademicYear
	listErr error
	yearErr error
}

func (f *fakeClasses) ListClasses(ctx context.Context) ([]models.Class, error) {
	return f.classes, f.listErr
}

func (f *fakeClasses) ClassByID(ctx context.Context, id int64) (*models.Class, error) {
	for _, c := range f.classes {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrClassNotFound
}

func (f *fakeClasses) CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error) {
	if f.yearErr != nil {
		return nil, f.yearErr
	}
	if f.year == nil {
		return nil, apperrors.ErrNoCurrentAcademicYear
	}
	return f.year, nil
}

type fakeUsers struct {
	emails map[string]bool
	byName map[string]*models.User
	err    error
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.emails[email], nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

// fakeStore allocates ids like the band allocator and records inserted rows.
// insertUserErrs is consumed one error per InsertUser call.
type fakeStore struct {
	mu             sync.Mutex
	nextUserID     int64
	nextRoll       int
	userIDErr      error
	insertUserErrs []error
	users          []models.User
	students       []models.Student
	enrollments    []models.Enrollment
	record         *models.AdmissionRecord
	recordErr      error
}

func (f *fakeStore) NextUserID(ctx context.Context, q db.Querier, role models.RoleType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userIDErr != nil {
		return 0, f.userIDErr
	}
	if f.nextUserID == 0 {
		f.nextUserID = 101
	}
	return f.nextUserID, nil
}

func (f *fakeStore) NextRollNo(ctx context.Context, q db.Querier, classID, academicYearID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextRoll + 1, nil
}

func (f *fakeStore) InsertUser(ctx context.Context, q db.Querier, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.insertUserErrs) > 0 {
		err := f.insertUserErrs[0]
		f.insertUserErrs = f.insertUserErrs[1:]
		if err != nil {
			// a rival committed this id; the next attempt sees a higher max
			f.nextUserID = user.ID + 1
			return err
		}
	}
	f.users = append(f.users, *user)
	f.nextUserID = user.ID + 1
	return nil
}

func (f *fakeStore) InsertStudent(ctx context.Context, q db.Querier, student *models.Student) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student.ID = int64(len(f.students) + 1)
	f.students = append(f.students, *student)
	return student.ID, nil
}

func (f *fakeStore) InsertEnrollment(ctx context.Context, q db.Querier, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollments = append(f.enrollments, *e)
	f.nextRoll = e.RollNo
	return nil
}

func (f *fakeStore) GetAdmissionRecord(ctx context.Context, studentID int64) (*models.AdmissionRecord, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	if f.record == nil || f.record.StudentID != studentID {
		return nil, apperrors.ErrStudentNotFound
	}
	return f.record, nil
}

// fakeFiles is an in-memory file store
type fakeFiles struct {
	files   map[string]bool
	saveErr error
	deleted []string
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: map[string]bool{}}
}

func (f *fakeFiles) SaveFileWithPath(fh *multipart.FileHeader, subPath, prefix string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	name := prefix + "fixed.png"
	f.files[subPath+"/"+name] = true
	return name, nil
}

func (f *fakeFiles) DeleteFile(subPath, filename string) error {
	delete(f.files, subPath+"/"+filename)
	f.deleted = append(f.deleted, filename)
	return nil
}

func (f *fakeFiles) Exists(subPath, filename string) bool {
	return f.files[subPath+"/"+filename]
}

func (f *fakeFiles) GetFullPath(subPath, filename string) string {
	return "/tmp/" + subPath + "/" + filename
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

type fakeSite struct {
	profile      *models.SchoolProfile
	profileErr   error
	news         []models.News
	newsErr      error
	principal    *models.PrincipalMessage
	teachers     []models.Teacher
	quotes       []models.Quote
	quoteErr     error
	facilities   []models.Facility
	gallery      []models.GalleryPhoto
	galleryErr   error
	requestedRow uint64
}

func (f *fakeSite) PublishedProfile(ctx context.Context) (*models.SchoolProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	return f.profile, nil
}

func (f *fakeSite) LatestNews(ctx context.Context, limit uint64) ([]models.News, error) {
	return f.news, f.newsErr
}

func (f *fakeSite) LatestPrincipalMessage(ctx context.Context, schoolID int64) (*models.PrincipalMessage, error) {
	return f.principal, nil
}

func (f *fakeSite) Teachers(ctx context.Context) ([]models.Teacher, error) {
	return f.teachers, nil
}

func (f *fakeSite) QuoteCount(ctx context.Context) (int, error) {
	if f.quoteErr != nil {
		return 0, f.quoteErr
	}
	return len(f.quotes), nil
}

func (f *fakeSite) QuoteAt(ctx context.Context, index uint64) (*models.Quote, error) {
	f.requestedRow = index
	q := f.quotes[index]
	return &q, nil
}

func (f *fakeSite) Facilities(ctx context.Context) ([]models.Facility, error) {
	return f.facilities, nil
}

func (f *fakeSite) Gallery(ctx context.Context) ([]models.GalleryPhoto, error) {
	return f.gallery, f.galleryErr
}

// fakeNotices filters and pages an in-memory slice already in display order
type fakeNotices struct {
	notices []models.Notice
	catErr  error
	listErr error
	created []models.Notice
	offsets []uint64
	limits  []uint64
}

func (f *fakeNotices) filtered(category string) []models.Notice {
	if category == "" {
		return f.notices
	}
	var out []models.Notice
	for _, n := range f.notices {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotices) Count(ctx context.Context, category string) (int64, error) {
	return int64(len(f.filtered(category))), f.listErr
}

func (f *fakeNotices) List(ctx context.Context, category string, offset, limit uint64) ([]models.Notice, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.offsets = append(f.offsets, offset)
	f.limits = append(f.limits, limit)
	rows := f.filtered(category)
	if offset >= uint64(len(rows)) {
		return nil, nil
	}
	end := offset + limit
	if end > uint64(len(rows)) {
		end = uint64(len(rows))
	}
	return rows[offset:end], nil
}

func (f *fakeNotices) Latest(ctx context.Context, n uint64) ([]models.Notice, error) {
	return f.List(ctx, "", 0, n)
}

func (f *fakeNotices) Categories(ctx context.Context) ([]string, error) {
	if f.catErr != nil {
		return nil, f.catErr
	}
	seen := map[string]bool{}
	var out []string
	for _, n := range f.notices {
		if !seen[n.Category] {
			seen[n.Category] = true
			out = append(out, n.Category)
		}
	}
	return out, nil
}

func (f *fakeNotices) Create(ctx context.Context, n *models.Notice) error {
	if f.listErr != nil {
		return f.listErr
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *n)
	return nil
}

type fakeStats struct {
	classes []models.ClassStat
	plusTwo []models.PlusTwoStat
	summary models.StudentSummary
	current int64
	err     error
}

func (f *fakeStats) ClassStats(ctx context.Context) ([]models.ClassStat, error) {
	return f.classes, f.err
}

func (f *fakeStats) PlusTwoStats(ctx context.Context) ([]models.PlusTwoStat, error) {
	return f.plusTwo, f.err
}

func (f *fakeStats) Summary(ctx context.Context) (models.StudentSummary, error) {
	return f.summary, f.err
}

func (f *fakeStats) CurrentPlusTwo(ctx context.Context) (int64, error) {
	return f.current, f.err
}
