package frontend

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend/finance"
	"github.com/jo-hoe/hoasite/internal/core"
	"github.com/labstack/echo/v4"
)

const exportFileName = "filtered_transactions.csv"

// filterForm echoes the dashboard filters back into the form.
type filterForm struct {
	Start            string
	End              string
	Categories       []string
	Vendors          []string
	ExcludeTransfers bool
}

type chartView struct {
	Name   string
	Title  string
	SVG    template.HTML
	PNGURL string
}

type dashboardData struct {
	Options   *core.FilterOptions
	Form      filterForm
	Report    *finance.Report
	Error     string
	Charts    []chartView
	Query     string
	ExportURL string
	Net       finance.Cents
	Latest    *finance.BalancePoint
}

// parseFilter reads start, end, category, vendor and exclude_transfers from
// the query. Without the "filtered" marker the form was never submitted and
// transfers are excluded by default. Missing dates fall back to the data range.
func parseFilter(ctx echo.Context, opts *core.FilterOptions) (finance.Filter, filterForm, error) {
	q := ctx.QueryParams()
	form := filterForm{
		Start:            strings.TrimSpace(q.Get("start")),
		End:              strings.TrimSpace(q.Get("end")),
		Categories:       nonEmpty(q["category"]),
		Vendors:          nonEmpty(q["vendor"]),
		ExcludeTransfers: true,
	}
	if q.Has("filtered") {
		form.ExcludeTransfers = isChecked(q.Get("exclude_transfers"))
	}
	if opts != nil && opts.HasData {
		if form.Start == "" {
			form.Start = opts.First.Format(finance.DateLayout)
		}
		if form.End == "" {
			form.End = opts.Last.Format(finance.DateLayout)
		}
	}

	f := finance.Filter{
		Categories:       form.Categories,
		Vendors:          form.Vendors,
		ExcludeTransfers: form.ExcludeTransfers,
	}
	var err error
	if f.Start, err = parseOptionalDate(form.Start); err != nil {
		return f, form, fmt.Errorf("invalid start date: %w", err)
	}
	if f.End, err = parseOptionalDate(form.End); err != nil {
		return f, form, fmt.Errorf("invalid end date: %w", err)
	}
	return f, form, f.Validate()
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return finance.ParseDate(s)
}

func isChecked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func filterMessage(err error) string {
	if errors.Is(err, finance.ErrInvalidRange) {
		return "Start date must be before end date."
	}
	return "Please enter dates as YYYY-MM-DD."
}

func (service *FrontendService) dashboardHandler(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	opts, err := service.coreService.FilterOptions(reqCtx)
	if err != nil {
		slog.Error("dashboardHandler: failed to load filter options",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load finance data")
	}

	data := dashboardData{Options: opts}
	filter, form, err := parseFilter(ctx, opts)
	data.Form = form
	if err != nil {
		data.Error = filterMessage(err)
		return ctx.Render(http.StatusBadRequest, "dashboard.html", service.page(ctx, "Dashboard", "dashboard", data))
	}

	report, err := service.coreService.Report(reqCtx, filter)
	if err != nil {
		slog.Error("dashboardHandler: failed to build report",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build dashboard")
	}
	data.Report = report
	data.Net = report.TotalDeposits - report.TotalSpent
	if n := len(report.Balances); n > 0 {
		data.Latest = &report.Balances[n-1]
	}
	data.Query = ctx.QueryString()
	data.ExportURL = "/dashboard/export.csv"
	if data.Query != "" {
		data.ExportURL += "?" + data.Query
	}
	for _, name := range chartNames {
		c, _ := buildChart(name, report)
		data.Charts = append(data.Charts, chartView{
			Name:   name,
			Title:  c.Title,
			SVG:    template.HTML(c.SVG()),
			PNGURL: chartURL(name, data.Query),
		})
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, "dashboard.html", service.page(ctx, "Dashboard", "dashboard", data))
}

func chartURL(name, query string) string {
	u := "/dashboard/chart/" + url.PathEscape(name) + ".png"
	if query != "" {
		u += "?" + query
	}
	return u
}

func (service *FrontendService) exportHandler(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	opts, err := service.coreService.FilterOptions(reqCtx)
	if err != nil {
		slog.Error("exportHandler: failed to load filter options",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load finance data")
	}
	filter, _, err := parseFilter(ctx, opts)
	if err != nil {
		return ctx.String(http.StatusBadRequest, filterMessage(err))
	}

	var buf bytes.Buffer
	if err := service.coreService.ExportCSV(reqCtx, &buf, filter); err != nil {
		slog.Error("exportHandler: failed to export transactions",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to export transactions")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportFileName))
	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (service *FrontendService) chartPNGHandler(ctx echo.Context) error {
	file := ctx.Param("file")
	name, ok := strings.CutSuffix(file, ".png")
	if !ok {
		return ctx.String(http.StatusNotFound, "Chart not found")
	}

	reqCtx := ctx.Request().Context()
	opts, err := service.coreService.FilterOptions(reqCtx)
	if err != nil {
		slog.Error("chartPNGHandler: failed to load filter options",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load finance data")
	}
	filter, _, err := parseFilter(ctx, opts)
	if err != nil {
		return ctx.String(http.StatusBadRequest, filterMessage(err))
	}
	report, err := service.coreService.Report(reqCtx, filter)
	if err != nil {
		slog.Error("chartPNGHandler: failed to build report",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to build chart")
	}

	c, ok := buildChart(name, report)
	if !ok {
		slog.Warn("chartPNGHandler: unknown chart", "status", http.StatusNotFound, "chart", name)
		return ctx.String(http.StatusNotFound, "Chart not found")
	}
	png, err := c.PNG()
	if err != nil {
		slog.Error("chartPNGHandler: failed to render chart",
			"status", http.StatusInternalServerError, "chart", name, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render chart")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name+".png"))
	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, png)
}
