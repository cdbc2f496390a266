package app

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

// TemplateRenderer is the gin HTML renderer for the blog pages and the error
// page. Every page under templates/ is compiled on top of the shared layouts
// and partials, so a page defines blocks ("title", "content") and invokes
// {{ template "base" . }}.
//
// In debug mode the set is re-parsed on every render so template edits show
// up without a restart; otherwise it is parsed once.
type TemplateRenderer struct {
	templates map[string]*template.Template
	fs        fs.FS
	funcMap   template.FuncMap
	debug     bool
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer creates a TemplateRenderer over fsys, which must hold
//
//	templates/
//	  layouts/   page skeletons (base.html)
//	  partials/  shared fragments (nav.html)
//	  <module>/  pages, e.g. article/list.html, errors/error.html
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: templateFuncMap(),
		debug:   debug,
	}

	if !debug {
		templates, err := r.parseAllTemplates()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		r.templates = templates
	}

	return r, nil
}

// Instance returns the render for the page name, relative to templates/.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	templates := r.templates
	if r.debug {
		var err error
		if templates, err = r.parseAllTemplates(); err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
	}
	return &HTMLInstance{
		Template: templates[name],
		Name:     name,
		Data:     data,
	}
}

// parseAllTemplates compiles every page on a clone of the layouts+partials set.
func (r *TemplateRenderer) parseAllTemplates() (map[string]*template.Template, error) {
	var shared []string
	for _, pattern := range []string{"templates/layouts/*.html", "templates/partials/*.html"} {
		files, err := fs.Glob(r.fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		shared = append(shared, files...)
	}

	base := template.New("").Funcs(r.funcMap)
	for _, f := range shared {
		if err := r.parseInto(base, f, f); err != nil {
			return nil, err
		}
	}

	pages, err := r.discoverPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, pf := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", pf, err)
		}
		name := strings.TrimPrefix(pf, "templates/")
		if err := r.parseInto(clone, name, pf); err != nil {
			return nil, err
		}
		templates[name] = clone
	}

	return templates, nil
}

func (r *TemplateRenderer) parseInto(set *template.Template, name, path string) error {
	content, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := set.New(name).Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// discoverPageTemplates lists the .html files outside layouts/ and partials/.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, "templates/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	return pages, err
}

// templateFuncMap returns the helpers available to every page. Page numbers
// are uint64, matching domain.Paginated.
func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json renders v for embedding in a script context.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"add": func(a, b uint64) uint64 {
			return a + b
		},
		// sub saturates at zero.
		"sub": func(a, b uint64) uint64 {
			if b > a {
				return 0
			}
			return a - b
		},
	}
}

// HTMLInstance renders one page. It is returned by TemplateRenderer.Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error
}

const htmlContentType = "text/html; charset=utf-8"

// Render executes the page. A missing page or a debug-mode parse failure is
// returned as an error before anything is written.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets text/html unless a Content-Type is already present.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
