package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded console templates. All entity data flows
// through html/template, so every value is escaped exactly once on output;
// nothing upstream pre-escapes.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"reltime": relTime,
		"dash":    dash,
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },
		"badgeClass": func(v BadgeVariant) string {
			// BadgeCell already normalized the variant to the known set.
			return "badge badge-" + string(v)
		},
	}

	tmpl, err := template.New("console").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render executes one named template with the given data.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// relTime renders a timestamp as a relative phrase. Missing timestamps show
// as an em dash placeholder, the same one used for any absent value.
func relTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return humanize.Time(*t)
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
