// Package views holds the HTML templates of the student pages.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are available to every template
var Funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"has": func(set map[int64]bool, id int64) bool {
		return set[id]
	},
	// inc turns a range index into a 1-based row number
	"inc": func(i int) int { return i + 1 },
}

// Templates parses all page templates. Each page is addressed by its file
// name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("views").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
