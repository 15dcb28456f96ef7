// Package runner wires stores, gates, the browser session and the
// extraction service together and drives the requested scraper units in
// sequence. One run is one process invocation, typically from cron.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/archive"
	"github.com/ArtOfDelight/ONfinal/internal/browser"
	"github.com/ArtOfDelight/ONfinal/internal/config"
	"github.com/ArtOfDelight/ONfinal/internal/dedup"
	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/scraper"
	"github.com/ArtOfDelight/ONfinal/internal/sheet"
)

// Options selects what a run does.
type Options struct {
	// Units filters by unit name; empty means all six.
	Units []string
	// DryRun swaps every worksheet for an in-memory store: the full
	// scrape runs, nothing is written to the spreadsheet.
	DryRun bool
}

// Runner owns the per-run resources.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger

	stores []sheet.Store
}

func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger.With("component", "runner")}
}

// Run executes the selected units. Unit errors are logged and the run
// continues; the returned error covers wiring failures only.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	start := time.Now()

	var client *sheet.SheetsClient
	if !opts.DryRun {
		var err error
		client, err = sheet.NewSheetsClient(ctx,
			r.cfg.Sheets.CredentialsFile,
			r.cfg.Sheets.SpreadsheetID,
			r.cfg.Sheets.Spreadsheet,
			r.logger,
		)
		if err != nil {
			return fmt.Errorf("connect sheets: %w", err)
		}
	}

	gates, err := r.buildGates(ctx, client, opts.DryRun)
	if err != nil {
		return err
	}
	defer r.closeStores()

	session, err := browser.NewSession(r.cfg.Browser, r.logger)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer session.Close()

	var snapshots *archive.Archive
	if r.cfg.Archive.Enabled {
		snapshots, err = archive.New(
			r.cfg.Archive.URI, r.cfg.Archive.Database, r.cfg.Archive.Collection, r.logger)
		if err != nil {
			r.logger.Warn("archive unavailable, snapshots disabled", "error", err)
		} else {
			defer snapshots.Close()
		}
	}

	deps := &scraper.Deps{
		Cfg:      r.cfg,
		Session:  session,
		Resolver: locator.NewResolver(r.cfg.Browser.LocatorTimeout, r.logger),
		Gates:    gates,
		LLM: extract.NewGeminiClient(extract.GeminiConfig{
			APIKey:      r.cfg.Gemini.APIKey,
			Model:       r.cfg.Gemini.Model,
			Endpoint:    r.cfg.Gemini.Endpoint,
			Temperature: r.cfg.Gemini.Temperature,
		}, r.logger),
		Archive: snapshots,
		Logger:  r.logger,
	}

	units := selectUnits(scraper.All(deps), opts.Units)
	if len(units) == 0 {
		return fmt.Errorf("no units match %v", opts.Units)
	}

	failed := 0
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Info("unit starting", "unit", unit.Name())
		unitStart := time.Now()
		if err := unit.Run(ctx); err != nil {
			failed++
			r.logger.Error("unit failed", "unit", unit.Name(), "error", err,
				"elapsed", time.Since(unitStart))
			continue
		}
		r.logger.Info("unit complete", "unit", unit.Name(), "elapsed", time.Since(unitStart))
	}

	r.logSummary(gates, time.Since(start), len(units), failed)
	return nil
}

// buildGates creates one store, index and gate per worksheet.
func (r *Runner) buildGates(ctx context.Context, client *sheet.SheetsClient, dryRun bool) (*scraper.Gates, error) {
	layouts := map[string]sheet.Layout{
		"swiggy_metrics":    sheet.MetricLayout(r.cfg.Sheets.SwiggyMetrics),
		"zomato_metrics":    sheet.MetricLayout(r.cfg.Sheets.ZomatoMetrics),
		"swiggy_complaints": sheet.ComplaintLayout(r.cfg.Sheets.SwiggyComplaints),
		"zomato_complaints": sheet.ComplaintLayout(r.cfg.Sheets.ZomatoComplaints),
		"swiggy_reviews":    sheet.ReviewLayout(r.cfg.Sheets.SwiggyReviews),
		"zomato_reviews":    sheet.OrderTimelineLayout(r.cfg.Sheets.ZomatoReviews),
	}

	built := make(map[string]*dedup.Gate, len(layouts))
	for name, layout := range layouts {
		st, err := r.openStore(client, layout, dryRun)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", layout.Worksheet, err)
		}
		r.stores = append(r.stores, st)

		idx, err := dedup.LoadIndex(ctx, st, layout, r.logger)
		if err != nil {
			return nil, fmt.Errorf("load index %s: %w", layout.Worksheet, err)
		}
		r.logger.Info("dedup index loaded", "worksheet", layout.Worksheet, "keys", idx.Len())

		built[name] = dedup.NewGate(st, layout, idx, r.logger)
	}

	// The Zomato portal sometimes renders complaints without an ID; the
	// whole-record hash keeps them distinct instead of dropping them.
	built["zomato_complaints"].KeylessFallback = true

	return &scraper.Gates{
		SwiggyMetrics:    built["swiggy_metrics"],
		ZomatoMetrics:    built["zomato_metrics"],
		SwiggyComplaints: built["swiggy_complaints"],
		ZomatoComplaints: built["zomato_complaints"],
		SwiggyReviews:    built["swiggy_reviews"],
		ZomatoReviews:    built["zomato_reviews"],
	}, nil
}

func (r *Runner) openStore(client *sheet.SheetsClient, layout sheet.Layout, dryRun bool) (sheet.Store, error) {
	if dryRun {
		return sheet.NewMemoryStore(layout), nil
	}
	st := client.Worksheet(layout.Worksheet)
	if !r.cfg.Mirror.Enabled {
		return st, nil
	}
	mirror, err := sheet.NewSQLiteStore(r.cfg.Mirror.Path, layout, r.logger)
	if err != nil {
		r.logger.Warn("mirror unavailable", "worksheet", layout.Worksheet, "error", err)
		return st, nil
	}
	return sheet.NewMirroredStore(st, mirror, r.logger), nil
}

func (r *Runner) closeStores() {
	for _, st := range r.stores {
		if err := st.Close(); err != nil {
			r.logger.Warn("store close failed", "worksheet", st.Name(), "error", err)
		}
	}
	r.stores = nil
}

func (r *Runner) logSummary(gates *scraper.Gates, elapsed time.Duration, ran, failed int) {
	total := dedup.Stats{}
	for _, g := range []*dedup.Gate{
		gates.SwiggyMetrics, gates.ZomatoMetrics,
		gates.SwiggyComplaints, gates.ZomatoComplaints,
		gates.SwiggyReviews, gates.ZomatoReviews,
	} {
		s := g.Stats()
		total.Appended += s.Appended
		total.Skipped += s.Skipped
		total.Rejected += s.Rejected
		total.Failed += s.Failed
	}
	r.logger.Info("run complete",
		"elapsed", elapsed,
		"units_run", ran,
		"units_failed", failed,
		"rows_appended", total.Appended,
		"duplicates_skipped", total.Skipped,
		"records_rejected", total.Rejected,
		"appends_failed", total.Failed,
	)
}

func selectUnits(all []scraper.Unit, names []string) []scraper.Unit {
	if len(names) == 0 {
		return all
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []scraper.Unit
	for _, u := range all {
		if want[u.Name()] {
			out = append(out, u)
		}
	}
	return out
}
