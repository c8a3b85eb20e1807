// Package views embeds the HTML templates shared by every module.
package views

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Meta is the per-page head data read by the layout. Every handler passes
// it under the "meta" key.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OGType      string
	Image       string
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"appName": func() string { return "Portfolio" },
		"baseURL": func() string { return "" },
		"now":     time.Now,
		"formatDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"join": strings.Join,
		// safeURL marks generated data: URLs, which the escaper filters otherwise.
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"indent": func(level int) int {
			if level <= 2 {
				return 0
			}
			return level - 2
		},
	}
}

// Load parses every embedded template. funcs override the defaults of
// the same name.
func Load(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").
		Funcs(defaultFuncs()).
		Funcs(funcs).
		ParseFS(files, "templates/*.html")
}

// Must is Load for callers that cannot continue without templates.
func Must(funcs template.FuncMap) *template.Template {
	return template.Must(Load(funcs))
}
