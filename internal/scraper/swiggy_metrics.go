package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// SwiggyMetrics scrapes the business-metrics overview per outlet: pick
// the report date in the calendar, filter down to one outlet, capture
// the metrics text and append one row per extracted metric.
type SwiggyMetrics struct {
	deps      *Deps
	extractor *extract.MetricExtractor
	logger    *slog.Logger
}

func NewSwiggyMetrics(d *Deps) *SwiggyMetrics {
	return &SwiggyMetrics{
		deps:      d,
		extractor: extract.NewMetricExtractor(d.LLM, d.Logger),
		logger:    d.Logger.With("unit", "swiggy_metrics"),
	}
}

func (s *SwiggyMetrics) Name() string { return "swiggy_metrics" }

func (s *SwiggyMetrics) Run(ctx context.Context) error {
	d := s.deps
	outlets := d.Cfg.Swiggy.OutletIDs
	if len(outlets) == 0 {
		s.logger.Warn("no outlet ids configured, nothing to scrape")
		return nil
	}

	reportDate := ReportDate(d.Cfg.Swiggy.ReportLagDays)
	targetDay := time.Now().AddDate(0, 0, -d.Cfg.Swiggy.ReportLagDays).Day()
	s.logger.Info("scraping swiggy metrics", "report_date", reportDate, "outlets", len(outlets))

	page, err := d.Session.OpenPage(d.Cfg.Swiggy.LoginStateFile,
		fmt.Sprintf("%s/%s", strings.TrimRight(d.Cfg.Swiggy.DashboardURL, "/"), outlets[0]))
	if err != nil {
		return fmt.Errorf("open metrics page: %w", err)
	}
	defer page.Close()

	act := newActions(d, page)
	act.ClickOptional(
		locator.Xpath("/html/body/div[2]/div[2]/div[3]/button[1]"),
		locator.ByText("No! Not needed"),
		locator.Css("button[aria-label='Close']"),
	)

	succeeded := 0
	for i, outlet := range outlets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.scrapeOutlet(ctx, act, outlet, reportDate, targetDay, i == 0); err != nil {
			s.logger.Warn("outlet failed", "outlet", outlet, "error", err)
			continue
		}
		succeeded++
	}
	s.logger.Info("swiggy metrics done", "succeeded", succeeded, "total", len(outlets))
	return nil
}

func (s *SwiggyMetrics) scrapeOutlet(ctx context.Context, act *unitActions, outlet, reportDate string, targetDay int, first bool) error {
	if err := act.Click(s.Name(), locator.Xpath("//span[contains(text(), 'Filter')]")); err != nil {
		return fmt.Errorf("open filter: %w", err)
	}

	if err := s.pickReportDate(act, targetDay); err != nil {
		s.logger.Warn("date selection failed, dashboard default applies", "error", err)
	}

	if err := act.Click(s.Name(),
		locator.Xpath("/html/body/div[2]/div/div/div/div[2]/div[1]/div[4]/div"),
		locator.ByText("Filter by outlets"),
	); err != nil {
		return fmt.Errorf("filter by outlets: %w", err)
	}

	// Select All toggles the whole set; twice clears a previous outlet.
	selectAll := locator.Xpath("/html/body/div[2]/div/div/div/div[2]/div[2]/div[2]/div/div[2]/div[2]/div")
	act.ClickOptional(selectAll)
	if !first {
		act.ClickOptional(selectAll)
	}

	if err := act.Click(s.Name(), locator.ByText(outlet)); err != nil {
		return fmt.Errorf("select outlet: %w", err)
	}
	if err := act.Click(s.Name(), locator.Xpath("//button[contains(text(), 'Apply')]")); err != nil {
		return fmt.Errorf("apply filter: %w", err)
	}

	text, err := s.metricsText(act)
	if err != nil {
		return err
	}
	s.deps.archiveSnapshot(ctx, types.PlatformSwiggy, types.CategoryMetric, s.Name(), text)

	metrics := s.extractor.Extract(ctx, s.Name(), text)
	written := 0
	for label, raw := range metrics {
		if raw == "" || strings.EqualFold(raw, "N/A") {
			continue
		}
		rec := types.NewRecord(types.CategoryMetric, types.PlatformSwiggy, s.Name())
		rec.Set("Report Date", reportDate)
		rec.Set("Outlet ID", outlet)
		rec.Set("Metric", label)
		rec.Set("Value", raw)
		rec.Set("Platform", string(types.PlatformSwiggy))
		if _, err := s.deps.Gates.SwiggyMetrics.Append(ctx, rec); err == nil {
			written++
		}
	}
	s.logger.Info("outlet scraped", "outlet", outlet, "metrics", written)
	return nil
}

// pickReportDate drives the Custom option in the filter calendar: pick
// the target day (double click, the widget needs a range) and confirm.
func (s *SwiggyMetrics) pickReportDate(act *unitActions, day int) error {
	if err := act.Click(s.Name(),
		locator.Xpath("/html/body/div[2]/div/div/div/div[2]/div[2]/div/div/div[7]/div[2]/div"),
		locator.ByText("Custom"),
	); err != nil {
		return err
	}

	dayStrategies := []locator.Strategy{
		locator.Xpath(fmt.Sprintf("//*[@id='mfe-root']//div[2]/button[%d]/abbr", day)),
		locator.Xpath(fmt.Sprintf("//button[abbr[text()='%d']]", day)),
	}
	if err := act.Click(s.Name(), dayStrategies...); err != nil {
		return err
	}
	// Second click closes the range on the same day.
	act.ClickOptional(dayStrategies...)

	return act.Click(s.Name(),
		locator.Xpath("//*[@id='mfe-root']/div/div[2]/div[2]/div[2]/div/div[3]/div/div/div[4]/div"),
		locator.ByText("Confirm"),
	)
}

// metricsText grabs the dashboard text, preferring the metrics pane
// (anything priced in rupees) and falling back to the whole body.
func (s *SwiggyMetrics) metricsText(act *unitActions) (string, error) {
	if text, err := act.Text(s.Name(),
		locator.Xpath("//div[contains(text(), '₹')]"),
	); err == nil && text != "" {
		return text, nil
	}
	text, err := act.BodyText()
	if err != nil {
		return "", fmt.Errorf("capture metrics text: %w", err)
	}
	return text, nil
}
