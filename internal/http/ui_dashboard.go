package httpx

import (
	"context"
	"net/http"
)

// DashboardPage renders the landing page. GET /dashboard.
// Sections fail independently; the regions load through /fragments.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Regions"] = h.Regions.All()
			d, err := h.Dashboard.Load(ctx)
			data["Dashboard"] = d
			return err
		},
	})
}
