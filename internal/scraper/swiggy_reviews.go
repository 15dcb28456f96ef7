package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// reviewKeyAliases maps the spaceless key spellings the LLM tends to
// produce onto the sheet's column names.
var reviewKeyAliases = map[string]string{
	"OrderID":        "Order ID",
	"ItemOrdered":    "Items Ordered",
	"Item Ordered":   "Items Ordered",
	"CustomerName":   "Customer Name",
	"CustomerInfo":   "Customer Info",
	"TotalOrders90d": "Orders (90d)",
	"Total Orders (90d)": "Orders (90d)",
	"OrderValue90d":      "Order Value (90d)",
	"Complaints90d":      "Complaints (90d)",
	"DeliveryRemark":     "Delivery Remark",
}

// SwiggyReviews walks customer ratings brand by brand, outlet by outlet,
// opens each EXPIRED or UNRESOLVED review card and appends the parsed
// review with its RID and brand attached.
type SwiggyReviews struct {
	deps   *Deps
	logger *slog.Logger
}

func NewSwiggyReviews(d *Deps) *SwiggyReviews {
	return &SwiggyReviews{
		deps:   d,
		logger: d.Logger.With("unit", "swiggy_reviews"),
	}
}

func (s *SwiggyReviews) Name() string { return "swiggy_reviews" }

// ridsByBrand groups configured RIDs under their brand so the flow
// switches brand as rarely as possible.
func (s *SwiggyReviews) ridsByBrand() map[string][]string {
	groups := make(map[string][]string)
	for rid, brand := range s.deps.Cfg.Swiggy.Brands {
		groups[brand] = append(groups[brand], rid)
	}
	for _, rids := range groups {
		sort.Strings(rids)
	}
	return groups
}

func (s *SwiggyReviews) Run(ctx context.Context) error {
	d := s.deps
	groups := s.ridsByBrand()
	if len(groups) == 0 {
		s.logger.Warn("no rid-to-brand mapping configured, nothing to scrape")
		return nil
	}

	page, err := d.Session.OpenPage(d.Cfg.Swiggy.LoginStateFile,
		"https://partner.swiggy.com/business-metrics/customer-ratings")
	if err != nil {
		return fmt.Errorf("open ratings page: %w", err)
	}
	defer page.Close()

	act := newActions(d, page)
	act.ClickOptional(locator.ByText("No! Not needed"))

	brands := make([]string, 0, len(groups))
	for brand := range groups {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	firstBrand := true
	for _, brand := range brands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !firstBrand {
			s.clickBack(act)
		}
		if err := s.selectBrand(act, brand); err != nil {
			s.logger.Warn("brand selection failed", "brand", brand, "error", err)
			continue
		}

		for i, rid := range groups[brand] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if i > 0 {
				s.clickBack(act)
			}
			if err := s.scrapeOutlet(ctx, act, rid, brand); err != nil {
				s.logger.Warn("outlet failed", "rid", rid, "error", err)
			}
		}
		firstBrand = false
	}
	return nil
}

func (s *SwiggyReviews) selectBrand(act *unitActions, brand string) error {
	if err := act.Type(s.Name(), brand, locator.Css("input")); err != nil {
		return err
	}
	act.ClickOptional(locator.ByText(brand))
	return act.Click(s.Name(), locator.ByText("Continue"))
}

func (s *SwiggyReviews) clickBack(act *unitActions) {
	if !act.ClickOptional(
		locator.Xpath("/html/body/div[1]/div/div/div/div[1]/div[1]/button/div/img"),
		locator.Css("button[class*='back']"),
	) {
		s.logger.Debug("back button not found")
	}
}

func (s *SwiggyReviews) scrapeOutlet(ctx context.Context, act *unitActions, rid, brand string) error {
	if err := act.Click(s.Name(),
		locator.Xpath("/html/body/div[1]/div/div/div/div[1]/div[2]/button[2]/span"),
		locator.ByText("See Outlet Level Ratings"),
	); err != nil {
		return fmt.Errorf("outlet level ratings: %w", err)
	}

	if err := act.Type(s.Name(), rid,
		locator.Xpath("/html/body/div[1]/div/div/div[2]/div/div/div[2]/div[1]/div[1]/input"),
		locator.Css("input[placeholder*='Search']"),
	); err != nil {
		return fmt.Errorf("search rid: %w", err)
	}
	if err := act.Click(s.Name(), locator.ByText(rid)); err != nil {
		return fmt.Errorf("select rid: %w", err)
	}

	// The review list lazy-loads; expand it before counting cards.
	if _, err := act.ScrollUntilStable(100, 400*time.Millisecond); err != nil {
		s.logger.Debug("scroll failed", "error", err)
	}

	labels := act.CountText("EXPIRED") + act.CountText("UNRESOLVED")
	s.logger.Info("review cards found", "rid", rid, "count", labels)

	for i := 0; i < labels; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.processReview(ctx, act, i, rid, brand); err != nil {
			s.logger.Warn("review card failed", "rid", rid, "index", i, "error", err)
		}
	}
	return nil
}

func (s *SwiggyReviews) processReview(ctx context.Context, act *unitActions, index int, rid, brand string) error {
	label := "EXPIRED"
	n := index
	if expired := act.CountText("EXPIRED"); index >= expired {
		label = "UNRESOLVED"
		n = index - expired
	}
	if err := act.ClickNthText(s.Name(), label, n); err != nil {
		return err
	}

	text := act.AllFramesText()
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no review text captured")
	}
	s.deps.archiveSnapshot(ctx, types.PlatformSwiggy, types.CategoryReview, s.Name(), text)

	if !s.deps.LLM.Available() {
		return fmt.Errorf("review parsing needs the extraction service")
	}
	fields, err := s.deps.LLM.GenerateJSON(ctx, extract.ReviewPrompt(text))
	if err != nil {
		return fmt.Errorf("parse review: %w", err)
	}

	rec := types.NewRecord(types.CategoryReview, types.PlatformSwiggy, s.Name())
	for key, value := range fields {
		if key == "debug_context" {
			continue
		}
		if canonical, ok := reviewKeyAliases[key]; ok {
			key = canonical
		}
		rec.Set(key, value)
	}
	if ts := rec.Get("Timestamp"); ts != "" {
		rec.Set("Timestamp", AdjustTimestampIST(ts))
	}
	rec.Set("RID", rid)
	rec.Set("Brand", brand)

	if rec.Get("Order ID") == "" {
		s.logger.Warn("review has no order id, skipping", "rid", rid)
		return nil
	}

	_, err = s.deps.Gates.SwiggyReviews.Append(ctx, rec)
	return err
}
