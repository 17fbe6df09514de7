package site

import (
	"fmt"
	"html/template"
	"io"
	"slices"

	service "github.com/okian/trackboard/internal/app"
)

// Page is the data handed to the page template.
type Page struct {
	View    service.View
	Message string

	// Setup form values echoed back after a failed submit.
	Sport    string
	Athletes string
}

// Renderer renders the results page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates. assetVer is appended to static
// asset URLs for cache busting.
func NewRenderer(assetVer string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"assetVer": func() string { return assetVer },
		"hidden": func(cols []int, c int) bool {
			return slices.Contains(cols, c)
		},
	}
	tmpl, err := template.New("site").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for p to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
