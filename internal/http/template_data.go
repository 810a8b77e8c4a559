package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds the page navigation of an API listing. Prev/next links
// keep the current query and replace only the page number.
func (b *TemplateDataBuilder) WithPagination(meta pos.PageMeta, basePath string) *TemplateDataBuilder {
	p := viewmodel.Pagination{
		Page:       max(meta.CurrentPage, 1),
		LastPage:   max(meta.LastPage, 1),
		TotalCount: meta.Total,
	}
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page < p.LastPage
	if p.HasPrev {
		p.PrevURL = buildPageURL(basePath, b.r.URL.Query(), p.Page-1)
	}
	if p.HasNext {
		p.NextURL = buildPageURL(basePath, b.r.URL.Query(), p.Page+1)
	}
	b.data["Pagination"] = p
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildLayout constructs shared layout metadata from the request context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if identity, ok := IdentityFromContext(r.Context()); ok {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			ID:       identity.ID,
			FullName: identity.FullName,
			Email:    identity.Email,
			Role:     string(identity.Role),
		}
	}
	return layout
}

// basePageData constructs the common page data map with operator context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CSRFToken":       layout.CSRFToken,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// getPageParam parses the 1-based page query parameter.
func getPageParam(q url.Values) int {
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}

// buildPageURL returns basePath with page set, preserving other non-empty query params.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		kept := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			qq[k] = kept
		}
	}
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}
