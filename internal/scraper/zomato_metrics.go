package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// zomatoDropdownGroups are the collapsed metric sections the reporting
// view hides behind expanders.
var zomatoDropdownGroups = []string{
	"Average Rating", "Bad Orders", "Online %",
	"Kitchen Preparation Time", "Menu to Order",
	"New Users", "Sales from Ads",
}

// ZomatoMetrics scrapes the Zomato reporting view per outlet: select
// yesterday in the calendar, filter to one outlet, expand every metric
// group, pull all frame text and take the leading value under each
// metric label (yesterday's column in the report table).
type ZomatoMetrics struct {
	deps   *Deps
	logger *slog.Logger
}

func NewZomatoMetrics(d *Deps) *ZomatoMetrics {
	return &ZomatoMetrics{
		deps:   d,
		logger: d.Logger.With("unit", "zomato_metrics"),
	}
}

func (z *ZomatoMetrics) Name() string { return "zomato_metrics" }

func (z *ZomatoMetrics) Run(ctx context.Context) error {
	d := z.deps
	outlets := d.Cfg.Zomato.OutletIDs
	if len(outlets) == 0 {
		z.logger.Warn("no outlet ids configured, nothing to scrape")
		return nil
	}

	reportDate := ReportDate(d.Cfg.Zomato.ReportLagDays)
	z.logger.Info("scraping zomato metrics", "report_date", reportDate, "outlets", len(outlets))

	page, err := d.Session.OpenPage(d.Cfg.Zomato.LoginStateFile,
		strings.TrimRight(d.Cfg.Zomato.DashboardURL, "/")+"/onlineordering/reporting/")
	if err != nil {
		return fmt.Errorf("open reporting page: %w", err)
	}
	defer page.Close()

	act := newActions(d, page)
	act.ClickOptional(
		locator.Css("[aria-label*='close']"),
		locator.Css("[aria-label*='dismiss']"),
	)

	if err := z.selectReportDay(act); err != nil {
		z.logger.Warn("date selection failed, dashboard default applies", "error", err)
	}

	succeeded := 0
	for i, outlet := range outlets {
		if err := ctx.Err(); err != nil {
			return err
		}
		prev := ""
		if i > 0 {
			prev = outlets[i-1]
		}
		if err := z.scrapeOutlet(ctx, act, outlet, prev, reportDate); err != nil {
			z.logger.Warn("outlet failed", "outlet", outlet, "error", err)
			continue
		}
		succeeded++
	}
	z.logger.Info("zomato metrics done", "succeeded", succeeded, "total", len(outlets))
	return nil
}

// selectReportDay picks yesterday in the react-date-range calendar. The
// grid leads with trailing days of the previous month, so matching by
// day number alone would hit the wrong cell; skip cells until the day
// numbers reset to 1.
func (z *ZomatoMetrics) selectReportDay(act *unitActions) error {
	act.ClickOptional(locator.Css("[class*='date-picker']"), locator.Css("[class*='calendar']"))

	day := time.Now().AddDate(0, 0, -z.deps.Cfg.Zomato.ReportLagDays).Day()

	cells, err := act.Page().Elements("button.rdrDay .rdrDayNumber span")
	if err != nil || len(cells) == 0 {
		return fmt.Errorf("calendar day cells not found: %w", err)
	}

	nums := make([]int, len(cells))
	for i, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			nums[i] = n
		}
	}

	offset := 0
	if len(nums) > 0 && nums[0] > 20 {
		for i := 1; i < len(nums); i++ {
			if nums[i] == 1 && nums[i-1] > 1 {
				offset = i
				break
			}
		}
	}

	for i := offset; i < len(nums); i++ {
		if nums[i] == day {
			if err := cells[i].Click(proto.InputMouseButtonLeft, 1); err != nil {
				return fmt.Errorf("click day %d: %w", day, err)
			}
			act.ClickOptional(locator.Xpath("//button[contains(text(), 'Apply')]"))
			return nil
		}
	}
	return fmt.Errorf("day %d not present in calendar", day)
}

func (z *ZomatoMetrics) scrapeOutlet(ctx context.Context, act *unitActions, outlet, prev, reportDate string) error {
	toggle := locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[3]/div[2]/div/div/div[2]/div[1]/div[2]/span/span")

	if prev != "" {
		// Deselect the previous outlet so filters do not accumulate.
		if act.ClickOptional(toggle) {
			act.ClickOptional(locator.ByText(prev))
		}
	}

	if err := act.Click(z.Name(), toggle); err != nil {
		return fmt.Errorf("open outlet dropdown: %w", err)
	}
	if err := act.Type(z.Name(), outlet,
		locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[3]/div[2]/div/div/div[2]/div[2]/div[1]/div/input"),
		locator.Css("input[placeholder*='Search']"),
	); err != nil {
		return fmt.Errorf("search outlet: %w", err)
	}
	if err := act.Click(z.Name(), locator.ByText(outlet)); err != nil {
		return fmt.Errorf("select outlet: %w", err)
	}
	if err := act.Click(z.Name(),
		locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[3]/div[2]/div/div/div[3]/div[2]"),
		locator.ByText("Apply"),
	); err != nil {
		return fmt.Errorf("apply outlet filter: %w", err)
	}

	for _, group := range zomatoDropdownGroups {
		if !act.ClickOptional(locator.ByText(group)) {
			z.logger.Debug("metric group not found", "group", group)
		}
	}

	text := act.AllFramesText()
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no report text captured")
	}
	z.deps.archiveSnapshot(ctx, types.PlatformZomato, types.CategoryMetric, z.Name(), text)

	values := extract.ColumnValues(text, extract.ZomatoMetricLabels)
	written := 0
	for label, raw := range values {
		if raw == "" || strings.EqualFold(raw, "N/A") {
			continue
		}
		rec := types.NewRecord(types.CategoryMetric, types.PlatformZomato, z.Name())
		rec.Set("Report Date", reportDate)
		rec.Set("Outlet ID", outlet)
		rec.Set("Metric", label)
		rec.Set("Value", raw)
		rec.Set("Platform", string(types.PlatformZomato))
		if _, err := z.deps.Gates.ZomatoMetrics.Append(ctx, rec); err == nil {
			written++
		}
	}
	z.logger.Info("outlet scraped", "outlet", outlet, "metrics", written)
	return nil
}
