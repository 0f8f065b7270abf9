package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend/finance"
	"github.com/labstack/echo/v4"
)

//go:embed views
var viewsFS embed.FS

const (
	layoutTemplate   = "layout"
	partialsPattern  = "views/partials/*.html"
	pagesPattern     = "views/pages/*.html"
	announcementList = "announcement-list"
)

// Template renders full pages (a page wrapped in the layout) and the partial
// fragments htmx swaps in.
type Template struct {
	pages    map[string]*template.Template
	partials *template.Template
}

var templateFuncs = template.FuncMap{
	"money": func(c finance.Cents) string { return c.String() },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(finance.DateLayout)
	},
	"longDate": func(t time.Time) string { return t.Format("January 2, 2006") },
	"negative": func(c finance.Cents) bool { return c < 0 },
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
	"paragraphs": func(s string) []string {
		var out []string
		for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

func NewTemplate() (*Template, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(viewsFS, "views/layout.html", partialsPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	files, err := fs.Glob(viewsFS, pagesPattern)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(viewsFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[path.Base(file)] = page
	}
	return &Template{pages: pages, partials: base}, nil
}

func (t *Template) Render(w io.Writer, name string, data interface{}, ctx echo.Context) error {
	if page, ok := t.pages[name]; ok {
		return page.ExecuteTemplate(w, layoutTemplate, data)
	}
	if t.partials.Lookup(name) == nil {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.partials.ExecuteTemplate(w, name, data)
}
