package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/ports"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Sales   ports.SalesAPI
	Catalog ports.CatalogAPI
	Logger  *slog.Logger
}

// DashboardService loads the landing page figures.
type DashboardService struct {
	sales   ports.SalesAPI
	catalog ports.CatalogAPI
	logger  *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{sales: opts.Sales, catalog: opts.Catalog, logger: logger.With("component", "dashboard")}
}

// Dashboard is what the landing page shows. Sections load independently;
// a failed section keeps its zero value and records its error.
type Dashboard struct {
	Stats       pos.SaleStats
	LowStock    []pos.Product
	StatsErr    error
	LowStockErr error
}

// Load fetches statistics and low-stock products concurrently. It fails only
// when every section failed.
func (s *DashboardService) Load(ctx context.Context) (Dashboard, error) {
	var (
		d Dashboard
		g errgroup.Group
	)
	g.Go(func() error {
		stats, err := s.sales.SaleStats(ctx, pos.SaleQuery{})
		if err != nil {
			s.logger.WarnContext(ctx, "loading sales statistics failed", "error", err)
			d.StatsErr = apperrors.MapAPIError(err)
			return nil
		}
		d.Stats = stats
		return nil
	})
	g.Go(func() error {
		products, err := s.catalog.LowStockProducts(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "loading low stock products failed", "error", err)
			d.LowStockErr = apperrors.MapAPIError(err)
			return nil
		}
		d.LowStock = products
		return nil
	})
	_ = g.Wait()

	if d.StatsErr != nil && d.LowStockErr != nil {
		return d, errors.Join(d.StatsErr, d.LowStockErr)
	}
	return d, nil
}
