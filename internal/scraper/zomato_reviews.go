package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-rod/rod/lib/input"

	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// maxReviewsPerOutlet bounds one outlet's review pass; the portal shows
// the newest reviews first and older ones are already in the sheet.
const maxReviewsPerOutlet = 10

var (
	reviewQuote   = regexp.MustCompile(`"([^"]+)"`)
	itemQuantity  = regexp.MustCompile(`\b\d+ x`)
	timelineSteps = []string{
		"Placed", "Accepted", "Ready", "Delivery partner arrived", "Picked up", "Delivered",
	}
)

// orderTimeline is the parsed form of one review modal.
type orderTimeline struct {
	History  string
	Rating   string
	Comment  string
	OrderID  string
	DateTime string
	Timeline map[string]string
	Items    []string
	Distance string
}

// parseOrderTimeline walks the modal text line by line. The modal layout
// is stable enough that no LLM is needed: labels sit on their own line
// with the value on the next one.
func parseOrderTimeline(text string) *orderTimeline {
	out := &orderTimeline{Timeline: make(map[string]string)}
	lines := strings.Split(strings.TrimSpace(text), "\n")

	insideItems := false
	var itemLines []string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if out.History == "" && strings.Contains(line, "order with you") {
			out.History = line
		}

		if out.Rating == "" && strings.EqualFold(line, "customer rating") && i+1 < len(lines) {
			out.Rating = strings.TrimSpace(lines[i+1])
		}

		if out.Comment == "" {
			if m := reviewQuote.FindStringSubmatch(line); m != nil {
				out.Comment = m[1]
			}
		}

		if line == "ID:" {
			if i+1 < len(lines) {
				out.OrderID = strings.TrimSpace(lines[i+1])
			}
			if i+2 < len(lines) {
				out.DateTime = strings.TrimSpace(lines[i+2])
			}
		}

		if strings.Contains(line, "Delivered in") {
			out.Timeline["Delivery Duration"] = line
		}
		for _, step := range timelineSteps {
			if line == step && i+1 < len(lines) {
				out.Timeline[step] = strings.TrimSpace(lines[i+1])
			}
		}

		if line == "ORDER" || line == "Order Details" {
			insideItems = true
			itemLines = nil
			continue
		}
		if insideItems && strings.Contains(line, "Restaurant Packaging Charges") {
			insideItems = false
			if len(itemLines) > 0 {
				out.Items = append(out.Items, strings.Join(itemLines, " | "))
				itemLines = nil
			}
		}
		if insideItems && line != "" && !strings.HasPrefix(line, "Total") {
			itemLines = append(itemLines, line)
		}

		if out.Distance == "" && strings.Contains(line, "away") {
			out.Distance = line
		}
	}
	if insideItems && len(itemLines) > 0 {
		out.Items = append(out.Items, strings.Join(itemLines, " | "))
	}

	return out
}

// formattedItems rejoins the item lines with each "N x" quantity starting
// a fresh line, matching the sheet convention.
func (o *orderTimeline) formattedItems() string {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		withBreaks := itemQuantity.ReplaceAllStringFunc(item, func(m string) string {
			return "\n" + m
		})
		parts = append(parts, strings.TrimSpace(withBreaks))
	}
	return strings.Join(parts, " | ")
}

func (o *orderTimeline) record(outletID string) *types.Record {
	rec := types.NewRecord(types.CategoryOrderTimeline, types.PlatformZomato, "zomato_reviews")
	rec.Set("Outlet ID", outletID)
	rec.Set("Order History", o.History)
	rec.Set("Customer Rating", o.Rating)
	rec.Set("Comment", o.Comment)
	rec.Set("Order ID", o.OrderID)
	rec.Set("Date & Time", o.DateTime)
	rec.Set("Delivery Duration", o.Timeline["Delivery Duration"])
	for _, step := range timelineSteps {
		rec.Set(step, o.Timeline[step])
	}
	rec.Set("Items Ordered", o.formattedItems())
	rec.Set("Customer Distance", o.Distance)
	return rec
}

// ZomatoReviews opens each outlet's review details modals and appends
// the parsed order timeline per review.
type ZomatoReviews struct {
	deps   *Deps
	logger *slog.Logger
}

func NewZomatoReviews(d *Deps) *ZomatoReviews {
	return &ZomatoReviews{
		deps:   d,
		logger: d.Logger.With("unit", "zomato_reviews"),
	}
}

func (z *ZomatoReviews) Name() string { return "zomato_reviews" }

func (z *ZomatoReviews) Run(ctx context.Context) error {
	d := z.deps
	outlets := d.Cfg.Zomato.OutletIDs
	if len(outlets) == 0 {
		z.logger.Warn("no outlet ids configured, nothing to scrape")
		return nil
	}

	page, err := d.Session.OpenPage(d.Cfg.Zomato.LoginStateFile,
		strings.TrimRight(d.Cfg.Zomato.DashboardURL, "/")+"/onlineordering/reviews/")
	if err != nil {
		return fmt.Errorf("open reviews page: %w", err)
	}
	defer page.Close()

	act := newActions(d, page)

	for i, outlet := range outlets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := z.selectOutlet(act, outlet, i == 0); err != nil {
			z.logger.Warn("outlet selection failed", "outlet", outlet, "error", err)
			continue
		}
		if err := z.scrapeOutlet(ctx, act, outlet); err != nil {
			z.logger.Warn("outlet failed", "outlet", outlet, "error", err)
		}
	}
	return nil
}

func (z *ZomatoReviews) selectOutlet(act *unitActions, outlet string, first bool) error {
	if first {
		if err := act.Type(z.Name(), outlet,
			locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[3]/div[2]/div/div/div[1]/div[3]/div/div/div/div/div/div/div/input"),
			locator.Css("input"),
		); err != nil {
			return err
		}
		return act.Click(z.Name(),
			locator.Css("div[role='button']"),
			locator.ByText("ID:"),
		)
	}

	if err := act.Click(z.Name(),
		locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[2]/div/div[2]/div[2]/div/div[2]/div/div[1]/div[2]/div[3]/div/div/div[3]/img"),
	); err != nil {
		return fmt.Errorf("open outlet switcher: %w", err)
	}
	if err := act.Type(z.Name(), outlet,
		locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[2]/div/div[2]/div[2]/div/div[2]/div/div[1]/div[2]/div[3]/div[2]/div[1]/div/div/div/div/div/div/div/input"),
		locator.Css("input"),
	); err != nil {
		return err
	}
	return act.Click(z.Name(), locator.ByText("ID: "+outlet))
}

func (z *ZomatoReviews) scrapeOutlet(ctx context.Context, act *unitActions, outlet string) error {
	count := act.CountText("View Review Details")
	if count > maxReviewsPerOutlet {
		count = maxReviewsPerOutlet
	}
	z.logger.Info("reviews found", "outlet", outlet, "count", count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := z.processReview(ctx, act, outlet, i); err != nil {
			z.logger.Warn("review failed", "outlet", outlet, "index", i, "error", err)
		}
		z.closeModal(act)
	}
	return nil
}

func (z *ZomatoReviews) processReview(ctx context.Context, act *unitActions, outlet string, index int) error {
	if err := act.ClickNthText(z.Name(), "View Review Details", index); err != nil {
		return err
	}
	act.ClickOptional(locator.ByText("Order Details"))

	text, err := act.Text(z.Name(),
		locator.Xpath("//div[contains(., 'ORDER TIMELINE')]"),
	)
	if err != nil {
		return fmt.Errorf("capture modal: %w", err)
	}
	z.deps.archiveSnapshot(ctx, types.PlatformZomato, types.CategoryOrderTimeline, z.Name(), text)

	parsed := parseOrderTimeline(text)
	if parsed.OrderID == "" {
		z.logger.Warn("review has no order id, skipping", "outlet", outlet, "index", index)
		return nil
	}

	_, err = z.deps.Gates.ZomatoReviews.Append(ctx, parsed.record(outlet))
	return err
}

func (z *ZomatoReviews) closeModal(act *unitActions) {
	if act.ClickOptional(locator.ByText("Close")) {
		return
	}
	_ = act.Page().Keyboard.Press(input.Escape)
}
