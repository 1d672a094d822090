package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses every template under TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{logger: logger}
	var t *template.Template
	t, err := template.New("root").Funcs(templateFuncs(&t)).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderParams{Name: "layout", Status: status, Data: data})
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderParams{Name: "content", Status: status, Data: data})
}

// RenderLoading renders the standalone placeholder shown while auth state is unknown.
func (r *TemplateRenderer) RenderLoading(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderParams{Name: "loading-layout", Status: status, Data: data})
}

type renderParams struct {
	Name   string
	Status int
	Data   any
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, p renderParams) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, p.Name, p.Data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", p.Name), slog.Any("error", err))
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.Status != 0 {
		w.WriteHeader(p.Status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.String("template", p.Name), slog.Any("error", err))
		return err
	}
	return nil
}

// templateFuncs closes over t so content templates can be chosen by name at execution time.
func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"contentTemplate": func(page access.Page) string { return ContentTemplateFor(page) },
		"renderContent": func(name string, data any) (template.HTML, error) {
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, name, data); err != nil {
				return "", err
			}
			//nolint:gosec // output of html/template is already escaped
			return template.HTML(buf.String()), nil
		},
		"isCurrent": func(path, current string) bool { return path == current },
	}
}
