// Package view holds the presentation layer: display arithmetic, view state parsing and
// the HTML templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hongminglow/sg-web/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Flash is the inline outcome message of a form submission.
type Flash struct {
	Error   string
	Success string
}

// Page is the data every template receives.
type Page struct {
	Title string
	Path  string
	User  *models.User
	Flash Flash
	Data  any
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the shared layout.
func NewRenderer(f *Formatter) (*Renderer, error) {
	funcs := funcMap(f)
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		t, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// Render writes page name with status. Nothing is written if execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func funcMap(f *Formatter) template.FuncMap {
	title := cases.Title(language.English)
	return template.FuncMap{
		"grams":         Grams,
		"weight":        Weight,
		"change":        ChangePercent,
		"perGram":       PerGram,
		"displayUnit":   DisplayUnit,
		"progress":      ProgressPercent,
		"money":         f.Money,
		"paise":         f.Paise,
		"paiseWhole":    f.PaiseWhole,
		"title":         func(s string) string { return title.String(strings.ReplaceAll(s, "_", " ")) },
		"date":          func(t time.Time) string { return t.Format("02 Jan 2006") },
		"add":           func(a, b int) int { return a + b },
		"float":         func(v int64) float64 { return float64(v) },
		"displayPrice":  DisplayPrice,
		"isSilver":      func(m models.Metal) bool { return m == models.Silver },
		"paidDate":      paidDate,
		"weightOptions": WeightsFor,
	}
}

func paidDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02 Jan 2006")
}
