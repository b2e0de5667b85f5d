package helpers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/yigit/schoolsite/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
	// MaxPage bounds requested page numbers so offsets cannot overflow
	MaxPage = 1<<31 - 1
	// PageWindow is how many page links are shown either side of the current page
	PageWindow = 2
)

// ClampPageSize returns size limited to MaxPageSize; non-positive sizes become DefaultPageSize
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	size = ClampPageSize(size)
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	return uint64(page-1) * uint64(size), uint64(size)
}

// TotalPages is the ceiling of total/size; zero items means zero pages
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// NewPaginationInfo creates a PaginationInfo. The current page is kept as
// requested even past the last page, so callers can render an empty state.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  TotalPages(totalItems, size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePage reads a 1-based page number; anything non-numeric or below 1 is
// page 1 and anything above MaxPage is MaxPage
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	page, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return MaxPage
	}
	if err != nil || page < 1 {
		return DefaultPage
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// PageLink is one entry of a rendered pager
type PageLink struct {
	Number   int
	URL      string
	Current  bool
	Disabled bool
}

// Pager holds the links needed to render pagination controls
type Pager struct {
	Prev  PageLink
	Next  PageLink
	Pages []PageLink
	// LeadingGap and TrailingGap mark pages hidden before or after the window
	LeadingGap  bool
	TrailingGap bool
}

// PageURL returns path with query carrying page, keeping every other parameter
func PageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		if k == "page" {
			continue
		}
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}

// BuildPager lays out previous/next and a window of PageWindow pages around current
func BuildPager(path string, query url.Values, current, totalPages int) Pager {
	var p Pager
	if totalPages <= 0 {
		return p
	}

	p.Prev = PageLink{Number: current - 1, Disabled: current <= 1}
	if !p.Prev.Disabled {
		p.Prev.URL = PageURL(path, query, current-1)
	}
	p.Next = PageLink{Number: current + 1, Disabled: current >= totalPages}
	if !p.Next.Disabled {
		p.Next.URL = PageURL(path, query, current+1)
	}

	start := max(1, current-PageWindow)
	end := min(totalPages, current+PageWindow)
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PageLink{
			Number:  i,
			URL:     PageURL(path, query, i),
			Current: i == current,
		})
	}
	p.LeadingGap = start > 1
	p.TrailingGap = end < totalPages
	return p
}
