package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/filestorage"
	"github.com/yigit/schoolsite/internal/pkg/helpers"
)

// Homepage constants
const (
	HomeNewsLimit       = 10
	HomeNoticeLimit     = 10
	PrincipalCharLimit  = 450
	MapZoom             = 16
	UnpublishedTitle    = "Your School is not Published"
	FallbackQuoteText   = "No quote available today."
	FallbackQuoteAuthor = "System"
)

// noticeIcons maps lower-cased notice categories to their homepage icon
var noticeIcons = map[string]string{
	"academic":    "📘",
	"event":       "🎉",
	"holiday":     "🏖️",
	"scholarship": "🎓",
	"sports":      "🏆",
}

// DefaultNoticeIcon is used for any other category
const DefaultNoticeIcon = "📢"

// NoticeIcon returns the icon of a notice category
func NoticeIcon(category string) string {
	if icon, ok := noticeIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return icon
	}
	return DefaultNoticeIcon
}

// PrincipalView is the principal's message ready for display
type PrincipalView struct {
	Name        string
	Message     string
	FullMessage string
	PhotoURL    string
	IsLong      bool
}

// HomeNotice is a homepage ticker entry
type HomeNotice struct {
	models.Notice
	Icon string
}

// YearStats groups class statistics of one academic year
type YearStats struct {
	YearName string
	Slug     string
	Classes  []models.ClassStat
}

// HomePage is everything the homepage renders
type HomePage struct {
	Branding
	Published   bool
	Title       string
	Profile     *models.SchoolProfile
	News        []models.News
	Principal   *PrincipalView
	Teachers    []models.Teacher
	Notices     []HomeNotice
	Quote       models.Quote
	Facilities  []models.Facility
	Gallery     []models.GalleryPhoto
	YearStats   []YearStats
	PlusTwo     []models.PlusTwoStat
	Summary     models.StudentSummary
	MapEmbedURL string
}

// HomeService assembles the public homepage
type HomeService struct {
	site    SiteReader
	notices NoticeStore
	stats   StatsReader
	files   filestorage.FileStorage
	now     Clock
	logger  zerolog.Logger
}

// NewHomeService creates a new HomeService
func NewHomeService(site SiteReader, notices NoticeStore, stats StatsReader, files filestorage.FileStorage, logger zerolog.Logger) *HomeService {
	return &HomeService{
		site:    site,
		notices: notices,
		stats:   stats,
		files:   files,
		now:     time.Now,
		logger:  logger,
	}
}

// Branding returns the school name and logo used in page headers
func (s *HomeService) Branding(ctx context.Context) Branding {
	return LoadBranding(ctx, s.site, s.logger)
}

// GroupClassStats splits ordered class rows into one block per year, keeping order
func GroupClassStats(rows []models.ClassStat) []YearStats {
	var out []YearStats
	for _, r := range rows {
		if n := len(out); n == 0 || out[n-1].YearName != r.YearName {
			out = append(out, YearStats{YearName: r.YearName, Slug: helpers.Slugify(r.YearName)})
		}
		last := &out[len(out)-1]
		last.Classes = append(last.Classes, r)
	}
	return out
}

// uploadURL serves a stored file or falls back when it is missing
func (s *HomeService) uploadURL(dir, name, fallback string) string {
	if name == "" || !s.files.Exists(dir, name) {
		return fallback
	}
	return "/uploads/" + dir + "/" + name
}

// degrade logs a failed secondary section; the page renders without it
func (s *HomeService) degrade(section string, err error) {
	s.logger.Error().Err(err).Str("section", section).Msg("Homepage section unavailable")
}

// Page loads the homepage. It never fails: an unreadable profile renders the
// unpublished page and every other section degrades to empty.
func (s *HomeService) Page(ctx context.Context) *HomePage {
	page := &HomePage{
		Branding: Branding{SchoolName: DefaultSchoolName, LogoURL: DefaultLogoURL},
		Title:    UnpublishedTitle,
		Quote:    models.Quote{Text: FallbackQuoteText, Author: FallbackQuoteAuthor},
	}

	profile, err := s.site.PublishedProfile(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			s.degrade("profile", err)
		}
		return page
	}

	page.Published = true
	page.Profile = profile
	page.Title = profile.SchoolName
	page.SchoolName = profile.SchoolName
	if profile.LogoPath != "" {
		page.LogoURL = PublicURL(profile.LogoPath)
	}
	page.MapEmbedURL = helpers.WithZoom(helpers.MapsEmbedURL(profile.MapsLink, profile.ContactLocation), MapZoom)

	if page.News, err = s.site.LatestNews(ctx, HomeNewsLimit); err != nil {
		s.degrade("news", err)
	}

	if msg, err := s.site.LatestPrincipalMessage(ctx, profile.ID); err != nil {
		s.degrade("principal", err)
	} else if msg != nil && msg.Message != "" {
		short, cut := helpers.Truncate(msg.Message, PrincipalCharLimit)
		page.Principal = &PrincipalView{
			Name:        msg.Name,
			Message:     short,
			FullMessage: msg.Message,
			PhotoURL:    s.uploadURL("principal", msg.Photo, DefaultStudentPic),
			IsLong:      cut,
		}
	}

	if page.Teachers, err = s.site.Teachers(ctx); err != nil {
		s.degrade("teachers", err)
	}

	if latest, err := s.notices.Latest(ctx, HomeNoticeLimit); err != nil {
		s.degrade("notices", err)
	} else {
		for _, n := range latest {
			page.Notices = append(page.Notices, HomeNotice{Notice: n, Icon: NoticeIcon(n.Category)})
		}
	}

	s.loadQuote(ctx, page)

	if page.Facilities, err = s.site.Facilities(ctx); err != nil {
		s.degrade("facilities", err)
	}
	if page.Gallery, err = s.site.Gallery(ctx); err != nil {
		s.degrade("gallery", err)
	}

	if rows, err := s.stats.ClassStats(ctx); err != nil {
		s.degrade("class stats", err)
	} else {
		page.YearStats = GroupClassStats(rows)
	}
	if page.PlusTwo, err = s.stats.PlusTwoStats(ctx); err != nil {
		s.degrade("plus-two stats", err)
	}
	if page.Summary, err = s.stats.Summary(ctx); err != nil {
		s.degrade("summary", err)
	}

	return page
}

// loadQuote picks the quote of the day by day-of-year, keeping the fallback on any failure
func (s *HomeService) loadQuote(ctx context.Context, page *HomePage) {
	count, err := s.site.QuoteCount(ctx)
	if err != nil {
		s.degrade("quote", err)
		return
	}
	if count == 0 {
		return
	}
	q, err := s.site.QuoteAt(ctx, uint64(helpers.DailyIndex(s.now(), count)))
	if err != nil {
		s.degrade("quote", err)
		return
	}
	page.Quote = *q
}
