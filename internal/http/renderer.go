package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/lubsanchez/pos-console/internal/access"
	accessfuncs "github.com/lubsanchez/pos-console/internal/http/templates/access"
	corefuncs "github.com/lubsanchez/pos-console/internal/http/templates/core"
	posfuncs "github.com/lubsanchez/pos-console/internal/http/templates/pos"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // Filesystem containing templates (required)
	// Evaluator backs the can/canAny/canAll helpers.
	Evaluator *access.Evaluator
	Location  *time.Location
	Now       func() time.Time
	Logger    *slog.Logger
}

// ErrorPageData is rendered by the standalone error template.
type ErrorPageData struct {
	Status  int
	Title   string
	Message string
	// BackURL is where the "go back" link points. Defaults to the dashboard.
	BackURL string
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
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
	funcs := template.FuncMap{}
	mergeTemplateFuncs(funcs,
		corefuncs.Funcs(corefuncs.Deps{
			Template:           &t,
			ContentTemplateFor: ContentTemplateFor,
			Location:           cfg.Location,
			Now:                cfg.Now,
		}),
		posfuncs.Funcs(),
		accessfuncs.Funcs(cfg.Evaluator),
	)

	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data, http.StatusOK)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "content", data, http.StatusOK)
}

// RenderFragment renders a single named template, used for htmx swaps.
func (r *TemplateRenderer) RenderFragment(w http.ResponseWriter, name string, data any) error {
	return r.renderTemplate(w, name, data, http.StatusOK)
}

// RenderError renders the standalone error page with data.Status.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data ErrorPageData) error {
	if data.Status == 0 {
		data.Status = http.StatusInternalServerError
	}
	if data.Title == "" {
		data.Title = http.StatusText(data.Status)
	}
	if data.BackURL == "" {
		data.BackURL = PathDashboard
	}
	if err := r.renderTemplate(w, "error-layout", data, data.Status); err != nil {
		http.Error(w, data.Message, data.Status)
		return err
	}
	return nil
}

// Has reports whether a template with the given name was parsed.
func (r *TemplateRenderer) Has(name string) bool {
	return r.t.Lookup(name) != nil
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any, status int) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func mergeTemplateFuncs(dst template.FuncMap, sources ...template.FuncMap) {
	for _, src := range sources {
		for key, val := range src {
			dst[key] = val
		}
	}
}
