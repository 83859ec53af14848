// Package web renders the server-side HTML pages. Each page template is
// parsed together with the shared layout (navigation, flash messages) and
// exposed to Echo through the Renderer interface.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"login.html",
	"dashboard.html",
	"assets_list.html",
	"asset_form.html",
	"asset_delete.html",
	"loans_active.html",
	"loans_history.html",
	"loan_form.html",
	"loan_view.html",
	"loan_return.html",
	"loan_cancel.html",
	"error.html",
}

// FuncMap returns the template helper functions.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"fmtDate": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("2006-01-02")
		},
		"fmtDatePtr": func(t *time.Time) string {
			if t == nil {
				return "—"
			}
			return t.Format("2006-01-02")
		},
		"assetBadge": func(status domain.AssetStatus) string {
			switch status {
			case domain.AssetAvailable:
				return "bg-success"
			case domain.AssetOnLoan:
				return "bg-warning text-dark"
			case domain.AssetMaintenance:
				return "bg-info"
			case domain.AssetRetired:
				return "bg-danger"
			default:
				return "bg-secondary"
			}
		},
		"loanBadge": func(status domain.LoanStatus) string {
			switch status {
			case domain.LoanActive:
				return "bg-primary"
			case domain.LoanReturned:
				return "bg-success"
			case domain.LoanCancelled:
				return "bg-secondary"
			default:
				return "bg-light text-dark"
			}
		},
	}
}

// Renderer parses the embedded templates and satisfies echo.Renderer.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template against the shared layout.
func NewRenderer() (*Renderer, error) {
	layout, err := fs.ReadFile(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		body, err := fs.ReadFile(templateFS, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		if tmpl, err = tmpl.Parse(string(layout)); err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		if tmpl, err = tmpl.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Page is the base view model shared by all templates.
type Page struct {
	Title   string
	Active  string // marks the current navigation entry
	Session *domain.Session
	Error   string
	Success string
}
