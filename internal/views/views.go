// Package views renders the blog's HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/hungpv1995/blog-seeder/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data every template receives.
type Page struct {
	Title string
	Posts []models.Post
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses each page together with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{"home", "about"} {
		t, err := template.ParseFS(files, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page. Output is buffered so a template error still
// yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
