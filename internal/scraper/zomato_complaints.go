package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod/lib/input"

	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// ZomatoComplaints iterates the customer-issues view per outlet, opens
// every "View details" modal and appends the parsed complaint.
type ZomatoComplaints struct {
	deps   *Deps
	logger *slog.Logger
}

func NewZomatoComplaints(d *Deps) *ZomatoComplaints {
	return &ZomatoComplaints{
		deps:   d,
		logger: d.Logger.With("unit", "zomato_complaints"),
	}
}

func (z *ZomatoComplaints) Name() string { return "zomato_complaints" }

func (z *ZomatoComplaints) Run(ctx context.Context) error {
	d := z.deps
	outlets := d.Cfg.Zomato.OutletIDs
	if len(outlets) == 0 {
		z.logger.Warn("no outlet ids configured, nothing to scrape")
		return nil
	}
	if !d.LLM.Available() {
		return fmt.Errorf("complaint parsing needs the extraction service")
	}

	page, err := d.Session.OpenPage(d.Cfg.Zomato.LoginStateFile,
		strings.TrimRight(d.Cfg.Zomato.DashboardURL, "/")+"/onlineordering/customerIssues/")
	if err != nil {
		return fmt.Errorf("open customer issues page: %w", err)
	}
	defer page.Close()

	act := newActions(d, page)
	act.ClickOptional(
		locator.Css("[aria-label*='close']"),
		locator.Css("[aria-label*='dismiss']"),
	)

	for i, outlet := range outlets {
		if err := ctx.Err(); err != nil {
			return err
		}
		prev := ""
		if i > 0 {
			prev = outlets[i-1]
		}
		if err := z.scrapeOutlet(ctx, act, outlet, prev); err != nil {
			z.logger.Warn("outlet failed", "outlet", outlet, "error", err)
		}
	}
	return nil
}

func (z *ZomatoComplaints) scrapeOutlet(ctx context.Context, act *unitActions, outlet, prev string) error {
	dropdown := locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[2]/div/div[2]/div[2]/div/div[2]/div/div[1]/div/div[2]/div[2]/div/div/div[3]/div[1]/div/div[2]/span")
	if err := act.Click(z.Name(), dropdown); err != nil {
		return fmt.Errorf("open outlet dropdown: %w", err)
	}
	if prev != "" {
		act.ClickOptional(locator.ByText("ID: " + prev))
	}

	if err := act.Type(z.Name(), outlet,
		locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[2]/div/div[2]/div[2]/div/div[2]/div/div[1]/div/div[2]/div[2]/div/div/div[3]/div[2]/div[1]/div/div/div/div/div/div/div/input"),
		locator.Css("input"),
	); err != nil {
		return fmt.Errorf("search outlet: %w", err)
	}
	if err := act.Click(z.Name(), locator.ByText("ID: "+outlet)); err != nil {
		return fmt.Errorf("select outlet: %w", err)
	}
	if err := act.Click(z.Name(),
		locator.Xpath("/html/body/div[1]/div/div[2]/div/div/div/div/div[2]/div/div[2]/div[2]/div/div[2]/div/div[1]/div/div[2]/div[2]/div/div/div[3]/div[2]/div[4]/div[2]"),
		locator.ByText("Apply"),
	); err != nil {
		return fmt.Errorf("apply outlet filter: %w", err)
	}

	total := act.CountText("View details")
	z.logger.Info("complaints found", "outlet", outlet, "count", total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := z.processComplaint(ctx, act, outlet, i); err != nil {
			z.logger.Warn("complaint failed", "outlet", outlet, "index", i, "error", err)
		}
		z.closeModal(act)
	}
	return nil
}

func (z *ZomatoComplaints) processComplaint(ctx context.Context, act *unitActions, outlet string, index int) error {
	if err := act.ClickNthText(z.Name(), "View details", index); err != nil {
		return err
	}
	act.ClickOptional(locator.ByText("Order details"))

	raw, err := act.BodyText()
	if err != nil {
		return fmt.Errorf("capture complaint text: %w", err)
	}
	z.deps.archiveSnapshot(ctx, types.PlatformZomato, types.CategoryComplaint, z.Name(), raw)

	fields, err := z.deps.LLM.GenerateJSON(ctx, extract.ComplaintPrompt(raw))
	if err != nil {
		return fmt.Errorf("parse complaint: %w", err)
	}

	rec := types.NewRecord(types.CategoryComplaint, types.PlatformZomato, z.Name())
	rec.Set("Outlet ID", outlet)
	rec.Set("Complaint ID", fields["Complaint ID"])
	rec.Set("Status", fields["Status"])
	rec.Set("Reason", fields["Reason"])
	rec.Set("Customer Name", fields["Customer Name"])
	rec.Set("Customer History", fields["Customer History"])
	rec.Set("Description", fields["Description"])
	rec.Set("Refund Amount", fields["Refund Amount"])

	if rec.Get("Complaint ID") == "" {
		z.logger.Warn("complaint has no id, relying on whole-record fallback",
			"outlet", outlet, "timestamp", fields["Timestamp"])
	}

	_, err = z.deps.Gates.ZomatoComplaints.Append(ctx, rec)
	return err
}

func (z *ZomatoComplaints) closeModal(act *unitActions) {
	_ = act.Page().Keyboard.Press(input.Escape)
	act.ClickOptional(locator.Css("[aria-label*='close']"))
}
