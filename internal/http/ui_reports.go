package httpx

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/lubsanchez/pos-console/internal/service"
)

func reportQuery(q url.Values) service.ReportQuery {
	return service.ReportQuery{
		From: strings.TrimSpace(q.Get("desde")),
		To:   strings.TrimSpace(q.Get("hasta")),
		Page: getPageParam(q),
	}
}

// ReportsPage renders the period report. GET /reportes.
func (h *UIHandlers) ReportsPage(w http.ResponseWriter, r *http.Request) {
	query := reportQuery(r.URL.Query())
	b := NewTemplateData(r, PageMeta{Title: "Reports", CurrentPage: PageReports}).
		With("From", query.From).
		With("To", query.To).
		With("Definitions", h.Reports.Definitions())

	report, err := h.Reports.Load(r.Context(), query)
	if err != nil {
		data := b.Build()
		markPageError(data, err)
		h.renderPage(w, r, data)
		return
	}
	b.With("Report", report).
		With("From", report.From).
		With("To", report.To).
		WithPagination(report.Sales.Meta, "/reportes")
	h.renderPage(w, r, b.Build())
}

// ReportsExport downloads the period's sales as CSV. GET /reportes/exportar.
// The file is built before anything is written so a failure can still redirect.
func (h *UIHandlers) ReportsExport(w http.ResponseWriter, r *http.Request) {
	query := reportQuery(r.URL.Query())
	var buf bytes.Buffer
	if err := h.Reports.Export(r.Context(), query, &buf); err != nil {
		h.fail(w, r, "/reportes?"+r.URL.RawQuery, "Export report", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": h.Reports.ExportFilename(query)}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().DebugContext(r.Context(), "writing export failed", "error", err)
	}
}
