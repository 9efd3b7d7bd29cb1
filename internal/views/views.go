// Package views renders the HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var pages = []string{
	"home",
	"genres",
	"games",
	"search",
	"game",
	"profile",
	"login",
	"error",
	"notfound",
}

type Renderer struct {
	templates map[string]*template.Template
}

func New() (*Renderer, error) {
	const op = "views.New"

	funcs := template.FuncMap{
		"shortDate":       shortDate,
		"longDate":        longDate,
		"metacriticClass": metacriticClass,
		"stars":           stars,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").
			Funcs(funcs).
			ParseFS(files, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		templates[page] = t
	}

	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, page string, data any) error {
	const op = "views.Render"

	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, page)
	}

	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// shortDate renders catalog date strings the way the cards do: dd-MM-yyyy.
func shortDate(value string) string {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return t.Format("02-01-2006")
}

func longDate(value string) string {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return t.Format("02 January 2006")
}

// metacriticClass mirrors the score colouring of the detail page.
func metacriticClass(score int) string {
	switch {
	case score >= 75:
		return "score-high"
	case score >= 50:
		return "score-mid"
	default:
		return "score-low"
	}
}

func stars() []int {
	return []int{1, 2, 3, 4, 5}
}
