package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
)

func strPtr(s string) *string { return &s }

func TestConfirmation_RendersMissingValuesAsNA(t *testing.T) {
	store := &fakeStore{record: &models.AdmissionRecord{
		StudentID: 5,
		FullName:  "Ram Shrestha",
		Email:     "ram@example.com",
		CreatedAt: time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC),
	}}
	svc := NewConfirmationService(store, &fakeSite{}, newFakeFiles(), nopLogger)

	r, err := svc.Build(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, DefaultSchoolName, r.SchoolName)
	assert.Equal(t, DefaultLogoURL, r.LogoURL)
	assert.Equal(t, DefaultStudentPic, r.PhotoURL)
	assert.Equal(t, "Ram Shrestha", r.FullName)
	assert.Equal(t, NotAvailable, r.Username)
	assert.Equal(t, NotAvailable, r.PasswordNote)
	assert.Equal(t, NotAvailable, r.ClassName)
	assert.Equal(t, NotAvailable, r.Section)
	assert.Equal(t, NotAvailable, r.RollNo)
	assert.Equal(t, NotAvailable, r.YearName)
	assert.Equal(t, NotAvailable, r.DOBAD)
	assert.Equal(t, NotAvailable, r.Address)
	assert.Equal(t, "2024-04-20", r.AdmittedOn)
}

func TestConfirmation_FullRecord(t *testing.T) {
	dob := time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC)
	roll := 4
	store := &fakeStore{record: &models.AdmissionRecord{
		StudentID: 9,
		FullName:  "Sita Rai",
		DOB:       &dob,
		Photo:     "student_abc.png",
		Username:  strPtr("sitarai102"),
		ClassName: strPtr("Class 11"),
		Section:   strPtr("A"),
		RollNo:    &roll,
		YearName:  strPtr("2081"),
	}}
	files := newFakeFiles()
	files.files["students/student_abc.png"] = true
	site := &fakeSite{profile: &models.SchoolProfile{ID: 1, SchoolName: "Sunrise School", LogoPath: "uploads/logo.png"}}
	svc := NewConfirmationService(store, site, files, nopLogger)

	r, err := svc.Build(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, "Sunrise School", r.SchoolName)
	assert.Equal(t, "/uploads/logo.png", r.LogoURL)
	assert.Equal(t, "/uploads/students/student_abc.png", r.PhotoURL)
	assert.Equal(t, "sitarai102", r.Username)
	assert.Equal(t, DefaultPasswordTip, r.PasswordNote)
	assert.Equal(t, "4", r.RollNo)
	assert.Equal(t, "2010-05-01", r.DOBAD)
}

func TestConfirmation_PhotoMissingOnDiskFallsBack(t *testing.T) {
	store := &fakeStore{record: &models.AdmissionRecord{StudentID: 2, Photo: "gone.png"}}
	svc := NewConfirmationService(store, &fakeSite{}, newFakeFiles(), nopLogger)

	r, err := svc.Build(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, DefaultStudentPic, r.PhotoURL)
}

func TestConfirmation_Errors(t *testing.T) {
	svc := NewConfirmationService(&fakeStore{}, &fakeSite{}, newFakeFiles(), nopLogger)
	_, err := svc.Build(context.Background(), 404)
	ce := requireCustom(t, err)
	assert.Equal(t, apperrors.KindResolution, ce.Kind)
	assert.Equal(t, MsgStudentNotFound, ce.Message)

	svc = NewConfirmationService(&fakeStore{recordErr: errBoom}, &fakeSite{}, newFakeFiles(), nopLogger)
	_, err = svc.Build(context.Background(), 1)
	ce = requireCustom(t, err)
	assert.Equal(t, apperrors.KindStorage, ce.Kind)
	assert.Equal(t, MsgReportFailed, ce.Message)
}

func noticeFixtures(now time.Time) []models.Notice {
	var out []models.Notice
	for i := 1; i <= 8; i++ {
		cat := "Academic"
		if i%2 == 0 {
			cat = "Sports"
		}
		out = append(out, models.Notice{
			ID:        int64(i),
			Title:     "Notice",
			Text:      "<p>" + strings.Repeat("x", 120) + "</p>",
			Category:  cat,
			CreatedAt: now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	return out
}

func newNoticeService(store *fakeNotices, now time.Time) *NoticeService {
	svc := NewNoticeService(store, newFakeFiles(), 0, nopLogger)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBoard_PagesAndPager(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newNoticeService(&fakeNotices{notices: noticeFixtures(now)}, now)

	board, err := svc.Board(context.Background(), NoticeQuery{
		Page:  2,
		Path:  "/notices",
		Query: url.Values{"page": {"2"}, "q": {"x"}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8), board.Total)
	assert.Equal(t, 2, board.TotalPages)
	assert.Len(t, board.Notices, 2)
	assert.Empty(t, board.EmptyMessage)
	assert.ElementsMatch(t, []string{"Academic", "Sports"}, board.Categories)

	assert.False(t, board.Pager.Prev.Disabled)
	assert.True(t, board.Pager.Next.Disabled)
	assert.Equal(t, "/notices?page=1&q=x", board.Pager.Prev.URL)
	require.Len(t, board.Pager.Pages, 2)
	assert.True(t, board.Pager.Pages[1].Current)
}

func manyNotices(n int, now time.Time) []models.Notice {
	out := make([]models.Notice, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Notice{ID: int64(i), Title: "Notice", Category: "Academic", CreatedAt: now})
	}
	return out
}

func TestBoard_OversizedPageSizeStaysConsistent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeNotices{notices: manyNotices(300, now)}
	svc := NewNoticeService(store, newFakeFiles(), 150, nopLogger)
	svc.now = func() time.Time { return now }

	seen := 0
	first, err := svc.Board(context.Background(), NoticeQuery{Page: 1, Path: "/notices"})
	require.NoError(t, err)
	for page := 1; page <= first.TotalPages; page++ {
		board, err := svc.Board(context.Background(), NoticeQuery{Page: page, Path: "/notices"})
		require.NoError(t, err)
		seen += len(board.Notices)
	}

	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 300, seen, "every notice reachable through the pager")
	for _, lim := range store.limits {
		assert.Equal(t, uint64(100), lim)
	}
}

func TestBoard_HugePageRendersEmptyState(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeNotices{notices: noticeFixtures(now)}
	svc := newNoticeService(store, now)

	board, err := svc.Board(context.Background(), NoticeQuery{
		Page: helpers.ParsePage("9223372036854775807"),
		Path: "/notices",
	})
	require.NoError(t, err)

	assert.Empty(t, board.Notices)
	assert.Equal(t, EmptyNoticeMessage(""), board.EmptyMessage)
	require.Len(t, store.offsets, 1)
	assert.Less(t, store.offsets[0], uint64(1<<63-1))
}

func TestBoard_CardFields(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newNoticeService(&fakeNotices{notices: noticeFixtures(now)}, now)

	board, err := svc.Board(context.Background(), NoticeQuery{Page: 1})
	require.NoError(t, err)
	require.Len(t, board.Notices, DefaultNoticePerPage)

	first := board.Notices[0]
	assert.True(t, first.IsNew, "one day old notice is new")
	assert.False(t, board.Notices[3].IsNew, "four day old notice is not new")
	assert.Equal(t, strings.Repeat("x", NoticeExcerptLength)+"...", first.Excerpt)
	assert.Equal(t, DefaultNoticePic, first.PhotoURL)
	assert.Equal(t, "May 31, 2024", first.Date)
}

func TestBoard_CategoryFilterAndEmptyState(t *testing.T) {
	now := time.Now()
	svc := newNoticeService(&fakeNotices{notices: noticeFixtures(now)}, now)

	board, err := svc.Board(context.Background(), NoticeQuery{Category: " Sports ", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "Sports", board.Category)
	assert.Equal(t, int64(4), board.Total)
	assert.Equal(t, 1, board.TotalPages)
	assert.Empty(t, board.Pager.Pages, "single page renders no pager")

	board, err = svc.Board(context.Background(), NoticeQuery{Category: "Sports", Page: 5})
	require.NoError(t, err)
	assert.Empty(t, board.Notices)
	assert.Equal(t, `No notices found for "Sports".`, board.EmptyMessage)

	board, err = svc.Board(context.Background(), NoticeQuery{Category: "Holiday"})
	require.NoError(t, err)
	assert.Equal(t, 1, board.Page)
	assert.Zero(t, board.TotalPages)
	assert.Equal(t, `No notices found for "Holiday".`, board.EmptyMessage)
}

func TestBoard_CategoryFailureDegrades(t *testing.T) {
	now := time.Now()
	svc := newNoticeService(&fakeNotices{notices: noticeFixtures(now), catErr: errBoom}, now)

	board, err := svc.Board(context.Background(), NoticeQuery{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, board.Categories)
	assert.NotEmpty(t, board.Notices)
}

func TestBoard_ListFailure(t *testing.T) {
	svc := newNoticeService(&fakeNotices{listErr: errBoom}, time.Now())
	_, err := svc.Board(context.Background(), NoticeQuery{Page: 1})
	assert.Equal(t, MsgNoticesFailed, requireCustom(t, err).Message)
}

func TestCard_AttachmentLink(t *testing.T) {
	svc := newNoticeService(&fakeNotices{}, time.Now())
	card := svc.Card(models.Notice{Link: "https://example.com/files/notice.pdf"}, time.Now())
	assert.Equal(t, "https://example.com/files/notice.pdf", card.AttachmentURL)

	card = svc.Card(models.Notice{Link: "see office"}, time.Now())
	assert.Empty(t, card.AttachmentURL)
}

func TestHomePage_Unpublished(t *testing.T) {
	svc := NewHomeService(&fakeSite{}, &fakeNotices{}, &fakeStats{}, newFakeFiles(), nopLogger)
	page := svc.Page(context.Background())

	assert.False(t, page.Published)
	assert.Equal(t, UnpublishedTitle, page.Title)
	assert.Equal(t, DefaultSchoolName, page.SchoolName)
}

func TestHomePage_ProfileFailureRendersUnpublished(t *testing.T) {
	svc := NewHomeService(&fakeSite{profileErr: errBoom}, &fakeNotices{}, &fakeStats{}, newFakeFiles(), nopLogger)
	page := svc.Page(context.Background())
	assert.False(t, page.Published)
}

func TestHomePage_Published(t *testing.T) {
	site := &fakeSite{
		profile: &models.SchoolProfile{
			ID:              1,
			SchoolName:      "Sunrise School",
			MapsLink:        "https://www.google.com/maps/place/x/@27.7172,85.3240,17z",
			ContactLocation: "Kathmandu",
		},
		news:      []models.News{{ID: 1, Title: "Results out"}},
		principal: &models.PrincipalMessage{Name: "Principal", Message: strings.Repeat("a", 500)},
		quotes:    []models.Quote{{Text: "q0"}, {Text: "q1"}, {Text: "q2"}},
	}
	notices := &fakeNotices{notices: []models.Notice{{ID: 1, Category: "Sports"}, {ID: 2, Category: "Misc"}}}
	stats := &fakeStats{
		classes: []models.ClassStat{
			{YearName: "2081", ClassName: "Class 1", Total: 3},
			{YearName: "2081", ClassName: "Class 2", Total: 2},
			{YearName: "2080", ClassName: "Class 1", Total: 5},
		},
		summary: models.StudentSummary{Total: 10, Boys: 6, Girls: 4},
	}
	svc := NewHomeService(site, notices, stats, newFakeFiles(), nopLogger)
	// day 5 of the year picks the quote at index 4 % 3
	svc.now = func() time.Time { return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) }

	page := svc.Page(context.Background())
	require.True(t, page.Published)
	assert.Equal(t, "Sunrise School", page.Title)
	assert.Len(t, page.News, 1)

	require.NotNil(t, page.Principal)
	assert.True(t, page.Principal.IsLong)
	assert.Len(t, []rune(page.Principal.Message), PrincipalCharLimit)
	assert.Equal(t, DefaultStudentPic, page.Principal.PhotoURL)

	require.Len(t, page.Notices, 2)
	assert.Equal(t, "🏆", page.Notices[0].Icon)
	assert.Equal(t, DefaultNoticeIcon, page.Notices[1].Icon)

	assert.Equal(t, "q1", page.Quote.Text)
	assert.Equal(t, uint64(1), site.requestedRow)

	require.Len(t, page.YearStats, 2)
	assert.Equal(t, "2081", page.YearStats[0].YearName)
	assert.Len(t, page.YearStats[0].Classes, 2)
	assert.Equal(t, int64(10), page.Summary.Total)
	assert.Contains(t, page.MapEmbedURL, "27.7172,85.3240")
	assert.Contains(t, page.MapEmbedURL, "zoom=16")
}

func TestHomePage_SectionFailuresDegrade(t *testing.T) {
	site := &fakeSite{
		profile:    &models.SchoolProfile{ID: 1, SchoolName: "Sunrise School"},
		newsErr:    errBoom,
		quoteErr:   errBoom,
		galleryErr: errBoom,
	}
	svc := NewHomeService(site, &fakeNotices{listErr: errBoom}, &fakeStats{err: errBoom}, newFakeFiles(), nopLogger)

	page := svc.Page(context.Background())
	assert.True(t, page.Published)
	assert.Empty(t, page.News)
	assert.Empty(t, page.Notices)
	assert.Empty(t, page.Gallery)
	assert.Empty(t, page.YearStats)
	assert.Equal(t, FallbackQuoteText, page.Quote.Text)
	assert.Equal(t, FallbackQuoteAuthor, page.Quote.Author)
}

func TestNoticeIcon(t *testing.T) {
	assert.Equal(t, "📘", NoticeIcon(" ACADEMIC "))
	assert.Equal(t, "🎓", NoticeIcon("scholarship"))
	assert.Equal(t, DefaultNoticeIcon, NoticeIcon(""))
}
