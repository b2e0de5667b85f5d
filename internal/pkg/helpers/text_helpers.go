package helpers

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	slugPattern    = regexp.MustCompile(`[^A-Za-z0-9-]+`)
	nonAlnum       = regexp.MustCompile(`[^a-zA-Z0-9]`)
	coordinatesPat = regexp.MustCompile(`@([-0-9.]+),([-0-9.]+)`)
	zoomPattern    = regexp.MustCompile(`zoom=\d+`)
)

// Ellipsis is appended to shortened text
const Ellipsis = "..."

// StripTags removes anything that looks like an HTML tag
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// Excerpt returns the first n characters of the tag-free text, followed by
// an ellipsis when something was cut
func Excerpt(s string, n int) string {
	plain := StripTags(s)
	if utf8.RuneCountInString(plain) <= n {
		return plain
	}
	return string([]rune(plain)[:n]) + Ellipsis
}

// Truncate shortens s so that the result, ellipsis included, is at most width
// characters. It reports whether anything was cut.
func Truncate(s string, width int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= width {
		return s, false
	}
	keep := width - utf8.RuneCountInString(Ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + Ellipsis, true
}

// Slugify turns a label into a lower-case identifier safe for HTML ids
func Slugify(s string) string {
	return strings.ToLower(strings.Trim(slugPattern.ReplaceAllString(strings.TrimSpace(s), "-"), "-"))
}

// UsernameBase keeps only ASCII letters and digits of a full name, lower-cased
func UsernameBase(fullName string) string {
	return strings.ToLower(nonAlnum.ReplaceAllString(fullName, ""))
}

// AttachmentExtensions are the file types a notice link may point at
var AttachmentExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true,
	"zip": true, "rar": true, "jpg": true, "jpeg": true, "png": true, "gif": true, "txt": true,
	"mp4": true, "mov": true, "avi": true,
}

// IsAbsoluteURL reports whether s parses as a URL with a scheme and host
func IsAbsoluteURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// IsAttachmentLink reports whether a notice link is worth rendering
func IsAttachmentLink(link string) bool {
	if link == "" {
		return false
	}
	if IsAbsoluteURL(link) {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(link), "."))
	return AttachmentExtensions[ext]
}

// MapsEmbedURL derives an embeddable Google Maps URL from a shared maps link,
// falling back to a search on location. It returns "" when both are empty.
func MapsEmbedURL(mapsLink, location string) string {
	if mapsLink == "" && location == "" {
		return ""
	}
	if strings.Contains(mapsLink, "/embed") {
		return mapsLink + "&t=k"
	}
	if m := coordinatesPat.FindStringSubmatch(mapsLink); m != nil {
		return fmt.Sprintf("https://www.google.com/maps/q=%s,%s&output=embed&t=k", m[1], m[2])
	}
	query := location
	if query == "" {
		query = mapsLink
	}
	return "https://www.google.com/maps?q=" + url.QueryEscape(query) + "&output=embed&t=k"
}

// WithZoom sets or replaces the zoom parameter of a maps URL
func WithZoom(u string, zoom int) string {
	if u == "" {
		return ""
	}
	z := fmt.Sprintf("zoom=%d", zoom)
	if zoomPattern.MatchString(u) {
		return zoomPattern.ReplaceAllString(u, z)
	}
	if strings.Contains(u, "?") {
		return u + "&" + z
	}
	return u + "?" + z
}
