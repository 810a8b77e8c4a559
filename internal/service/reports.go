package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/lubsanchez/pos-console/internal/clock"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/ports"
)

const (
	reportFetchSize = maxPageSize
	// maxReportPages bounds how many sales pages one report pulls.
	maxReportPages = 50
	maxDailyRows   = 366
)

//go:embed reports.yaml
var defaultReportsYAML []byte

// ReportFormat controls how a figure is displayed.
type ReportFormat string

const (
	FormatNumber   ReportFormat = "number"
	FormatCurrency ReportFormat = "currency"
	FormatText     ReportFormat = "text"
)

// ReportDefinition is a named JMESPath expression evaluated over a period's sales.
type ReportDefinition struct {
	Name       string       `yaml:"name"`
	Title      string       `yaml:"title"`
	Format     ReportFormat `yaml:"format"`
	Expression string       `yaml:"expression"`
}

// LoadReportDefinitions decodes and validates a YAML list of definitions.
func LoadReportDefinitions(r io.Reader) ([]ReportDefinition, error) {
	var defs []ReportDefinition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode report definitions: %w", err)
	}

	seen := make(map[string]struct{}, len(defs))
	for i := range defs {
		d := &defs[i]
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, fmt.Errorf("report definition %d: name is required", i)
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("report definition %q: duplicate name", d.Name)
		}
		seen[d.Name] = struct{}{}
		if d.Title == "" {
			d.Title = d.Name
		}
		switch d.Format {
		case "":
			d.Format = FormatNumber
		case FormatNumber, FormatCurrency, FormatText:
		default:
			return nil, fmt.Errorf("report definition %q: unknown format %q", d.Name, d.Format)
		}
		if strings.TrimSpace(d.Expression) == "" {
			return nil, fmt.Errorf("report definition %q: expression is required", d.Name)
		}
		if _, err := jmespath.Compile(d.Expression); err != nil {
			return nil, fmt.Errorf("report definition %q: %w", d.Name, err)
		}
	}
	return defs, nil
}

var defaultReports = sync.OnceValues(func() ([]ReportDefinition, error) {
	return LoadReportDefinitions(bytes.NewReader(defaultReportsYAML))
})

// DefaultReportDefinitions returns the embedded definitions.
func DefaultReportDefinitions() ([]ReportDefinition, error) {
	defs, err := defaultReports()
	return slices.Clone(defs), err
}

// Figure is one evaluated report definition.
type Figure struct {
	Definition ReportDefinition
	Value      any
	Err        error
}

// Number returns the value as a float when it is numeric.
func (f Figure) Number() (float64, bool) {
	switch v := f.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

// Display renders the value for the page.
func (f Figure) Display() string {
	if f.Err != nil || f.Value == nil {
		return "-"
	}
	n, numeric := f.Number()
	switch {
	case f.Definition.Format == FormatCurrency && numeric:
		return "$" + strconv.FormatFloat(n, 'f', 2, 64)
	case numeric:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(f.Value)
	}
}

// DailyTotal aggregates the completed sales of one calendar day.
type DailyTotal struct {
	Date    string
	Sales   int
	Revenue float64
}

// ReportQuery selects the period and the page of the sales table.
// Dates are YYYY-MM-DD; empty dates default to the current month.
type ReportQuery struct {
	From string
	To   string
	Page int
}

// PeriodReport is everything the reports page shows for a period.
type PeriodReport struct {
	From      string
	To        string
	Stats     pos.SaleStats
	Sales     pos.Page[pos.Sale]
	Daily     []DailyTotal
	Figures   []Figure
	LowStock  []pos.Product
	Truncated bool
}

// DailySales sums the per-day rows.
func (r PeriodReport) DailySales() int {
	n := 0
	for _, d := range r.Daily {
		n += d.Sales
	}
	return n
}

// DailyRevenue sums the per-day revenue.
func (r PeriodReport) DailyRevenue() float64 {
	var total float64
	for _, d := range r.Daily {
		total += d.Revenue
	}
	return total
}

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Sales       ports.SalesAPI
	Catalog     ports.CatalogAPI
	Definitions []ReportDefinition
	Clock       clock.Clock
	// Location decides which calendar day a sale belongs to. Defaults to time.Local.
	Location *time.Location
	Logger   *slog.Logger
}

// ReportService builds period reports and CSV exports.
type ReportService struct {
	sales   ports.SalesAPI
	catalog ports.CatalogAPI
	defs    []ReportDefinition
	clock   clock.Clock
	loc     *time.Location
	logger  *slog.Logger
}

// NewReportService constructs a new ReportService. Without definitions the
// embedded set is used.
func NewReportService(opts ReportServiceOptions) (*ReportService, error) {
	defs := opts.Definitions
	if defs == nil {
		var err error
		if defs, err = DefaultReportDefinitions(); err != nil {
			return nil, err
		}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		sales:   opts.Sales,
		catalog: opts.Catalog,
		defs:    defs,
		clock:   clk,
		loc:     loc,
		logger:  logger.With("component", "reports"),
	}, nil
}

// Definitions returns the configured report definitions.
func (s *ReportService) Definitions() []ReportDefinition {
	return slices.Clone(s.defs)
}

// Period resolves the query dates, defaulting to the current month.
func (s *ReportService) Period(q ReportQuery) (string, string, error) {
	now := s.clock.Now().In(s.loc)
	from := strings.TrimSpace(q.From)
	to := strings.TrimSpace(q.To)
	if from == "" {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).Format(dateLayout)
	}
	if to == "" {
		to = now.Format(dateLayout)
	}
	if _, err := normalizeSaleQuery(pos.SaleQuery{From: from, To: to}); err != nil {
		return "", "", err
	}
	return from, to, nil
}

// Load fetches statistics, the requested sales page, every sale of the period
// and the low-stock list concurrently, then evaluates the figures.
func (s *ReportService) Load(ctx context.Context, q ReportQuery) (PeriodReport, error) {
	from, to, err := s.Period(q)
	if err != nil {
		return PeriodReport{}, err
	}
	report := PeriodReport{From: from, To: to}
	var all []pos.Sale

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.sales.SaleStats(gctx, pos.SaleQuery{From: from, To: to})
		if err != nil {
			return fmt.Errorf("sale statistics: %w", err)
		}
		report.Stats = stats
		return nil
	})
	g.Go(func() error {
		page, limit := normalizePage(q.Page, 0, defaultSalesPageSize)
		p, err := s.sales.ListSales(gctx, pos.SaleQuery{Page: page, Limit: limit, From: from, To: to})
		if err != nil {
			return fmt.Errorf("sales page: %w", err)
		}
		report.Sales = p
		return nil
	})
	g.Go(func() error {
		sales, truncated, err := s.collect(gctx, from, to)
		if err != nil {
			return err
		}
		all, report.Truncated = sales, truncated
		return nil
	})
	g.Go(func() error {
		products, err := s.catalog.LowStockProducts(gctx)
		if err != nil {
			return fmt.Errorf("low stock products: %w", err)
		}
		report.LowStock = products
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "loading report failed", "error", err, "from", from, "to", to)
		return PeriodReport{}, apperrors.MapAPIError(err)
	}

	report.Daily = s.daily(all, from, to)
	report.Figures = s.Evaluate(all)
	if report.Truncated {
		s.logger.WarnContext(ctx, "report period truncated", "from", from, "to", to, "sales", len(all))
	}
	return report, nil
}

// Export writes every sale of the period as CSV.
func (s *ReportService) Export(ctx context.Context, q ReportQuery, w io.Writer) error {
	from, to, err := s.Period(q)
	if err != nil {
		return err
	}
	sales, _, err := s.collect(ctx, from, to)
	if err != nil {
		return apperrors.MapAPIError(err)
	}
	return WriteSalesCSV(w, sales, s.loc)
}

// ExportFilename names the CSV download for a period.
func (s *ReportService) ExportFilename(q ReportQuery) string {
	from, to, err := s.Period(q)
	if err != nil {
		return "ventas.csv"
	}
	return "ventas_" + from + "_" + to + ".csv"
}

// collect pages through the period's sales. It reports truncation when the
// period has more pages than one report may pull.
func (s *ReportService) collect(ctx context.Context, from, to string) ([]pos.Sale, bool, error) {
	var out []pos.Sale
	for page := 1; page <= maxReportPages; page++ {
		p, err := s.sales.ListSales(ctx, pos.SaleQuery{Page: page, Limit: reportFetchSize, From: from, To: to})
		if err != nil {
			return nil, false, fmt.Errorf("sales page %d: %w", page, err)
		}
		out = append(out, p.Data...)
		if len(p.Data) == 0 || p.Meta.LastPage <= page {
			return out, false, nil
		}
	}
	return out, true, nil
}

// Evaluate runs every definition over sales. A failing expression marks
// its own figure and does not affect the others.
func (s *ReportService) Evaluate(sales []pos.Sale) []Figure {
	data, err := toDocument(sales)
	figures := make([]Figure, 0, len(s.defs))
	for _, def := range s.defs {
		f := Figure{Definition: def}
		if err != nil {
			f.Err = err
		} else {
			f.Value, f.Err = jmespath.Search(def.Expression, data)
		}
		figures = append(figures, f)
	}
	return figures
}

// toDocument converts sales into plain JSON values so expressions use the
// API field names.
func toDocument(sales []pos.Sale) (any, error) {
	if sales == nil {
		sales = []pos.Sale{}
	}
	raw, err := json.Marshal(sales)
	if err != nil {
		return nil, fmt.Errorf("encode sales: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return doc, nil
}

// daily groups completed sales by calendar day. Short periods list every
// day, including empty ones; long periods list only days with sales.
func (s *ReportService) daily(sales []pos.Sale, from, to string) []DailyTotal {
	byDay := make(map[string]*DailyTotal)
	for _, sale := range sales {
		if sale.Status != pos.SaleCompleted {
			continue
		}
		day := sale.CreatedAt.In(s.loc).Format(dateLayout)
		d, ok := byDay[day]
		if !ok {
			d = &DailyTotal{Date: day}
			byDay[day] = d
		}
		d.Sales++
		d.Revenue += sale.Total
	}

	start, errFrom := time.ParseInLocation(dateLayout, from, s.loc)
	end, errTo := time.ParseInLocation(dateLayout, to, s.loc)
	if errFrom != nil || errTo != nil || end.Sub(start) > maxDailyRows*24*time.Hour {
		days := slices.Sorted(maps.Keys(byDay))
		out := make([]DailyTotal, 0, len(days))
		for _, day := range days {
			out = append(out, *byDay[day])
		}
		return out
	}

	var out []DailyTotal
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(dateLayout)
		if total, ok := byDay[day]; ok {
			out = append(out, *total)
			continue
		}
		out = append(out, DailyTotal{Date: day})
	}
	return out
}

var salesCSVHeader = []string{
	"ticket", "date", "customer", "phone", "payment_method", "status", "subtotal", "taxes", "total",
}

// WriteSalesCSV writes sales as CSV with a header row.
func WriteSalesCSV(w io.Writer, sales []pos.Sale, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(salesCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, sale := range sales {
		row := []string{
			csvCell(sale.TicketNumber),
			sale.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			csvCell(deref(sale.CustomerName)),
			csvCell(deref(sale.CustomerPhone)),
			string(sale.PaymentMethod),
			string(sale.Status),
			money(sale.Subtotal),
			money(sale.Taxes),
			money(sale.Total),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvCell neutralises values a spreadsheet would run as a formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
