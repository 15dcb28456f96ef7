// Package scraper holds the six dashboard units: metrics, complaints and
// reviews for each platform. Units share a browser session, the append
// gates, the extraction layer and the snapshot archive; each unit is
// independent and a failed unit never aborts the run.
package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/ArtOfDelight/ONfinal/internal/archive"
	"github.com/ArtOfDelight/ONfinal/internal/browser"
	"github.com/ArtOfDelight/ONfinal/internal/config"
	"github.com/ArtOfDelight/ONfinal/internal/dedup"
	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Unit is one runnable scraping flow.
type Unit interface {
	Name() string
	Run(ctx context.Context) error
}

// Gates bundles one append gate per record worksheet.
type Gates struct {
	SwiggyMetrics    *dedup.Gate
	ZomatoMetrics    *dedup.Gate
	SwiggyComplaints *dedup.Gate
	ZomatoComplaints *dedup.Gate
	SwiggyReviews    *dedup.Gate
	ZomatoReviews    *dedup.Gate
}

// Deps carries the shared infrastructure into each unit.
type Deps struct {
	Cfg      *config.Config
	Session  *browser.Session
	Resolver *locator.Resolver
	Gates    *Gates
	LLM      *extract.GeminiClient
	Archive  *archive.Archive // nil when disabled
	Logger   *slog.Logger
}

// unitActions is the per-page helper each unit drives.
type unitActions = browser.Actions

func newActions(d *Deps, page *rod.Page) *unitActions {
	return browser.NewActions(page, d.Resolver, d.Cfg.Browser.SettleDelay, d.Logger)
}

// archiveSnapshot stores raw page text when the archive is enabled.
// Archive errors are logged and swallowed; they never fail a unit.
func (d *Deps) archiveSnapshot(ctx context.Context, platform types.Platform, category types.Category, unit, text string) {
	if d.Archive == nil || text == "" {
		return
	}
	err := d.Archive.Save(ctx, archive.Snapshot{
		Platform: platform,
		Category: category,
		Unit:     unit,
		Text:     text,
	})
	if err != nil {
		d.Logger.Warn("snapshot archive failed", "unit", unit, "error", err)
	}
}

// All returns the full unit sequence in run order. Metrics first: they
// are date-sensitive, the complaint and review backlogs are not.
func All(d *Deps) []Unit {
	return []Unit{
		NewSwiggyMetrics(d),
		NewZomatoMetrics(d),
		NewSwiggyComplaints(d),
		NewZomatoComplaints(d),
		NewSwiggyReviews(d),
		NewZomatoReviews(d),
	}
}
