// Package web holds the server-rendered HTML templates.
package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names rendered by the controllers
const (
	PageHome         = "home.html"
	PageAdmission    = "admission.html"
	PageConfirmation = "confirmation.html"
	PageNotices      = "notices.html"
	PageError        = "error.html"
)

// Funcs is the helper set available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"eqStr": func(a, b string) bool { return a == b },
		"field": func(m map[string]string, key string) string {
			if m == nil {
				return ""
			}
			return m[key]
		},
	}
}

// Templates parses all embedded pages with their shared layout blocks
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}
