package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/extract"
	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

const swiggyComplaintsURL = "https://partner.swiggy.com/complaints/"

var (
	complaintIDPattern = regexp.MustCompile(`#\d+`)
	refundPattern      = regexp.MustCompile(`₹[\d,]+`)
	quotedComment      = regexp.MustCompile(`“([^”]+)”|"([^"]+)"`)
	digitsPattern      = regexp.MustCompile(`\b\d+\b`)
)

// itemLineMarkers flag order-item lines inside a complaint block, the
// "2 x Choco Scoop 90 ml" kind of line.
var itemLineMarkers = []string{" x ", "gm", "ml", "scoop", "pack", "addon", "item", "pcs", "qty"}

// customerTiers are the history labels the portal assigns.
var customerTiers = []string{
	"HIGH VALUE CUSTOMER", "LOW VALUE CUSTOMER", "NEW CUSTOMER", "REPEAT CUSTOMER",
}

// SwiggyComplaints walks the unresolved complaint cards on the Swiggy
// complaints page and appends one row per complaint.
type SwiggyComplaints struct {
	deps   *Deps
	logger *slog.Logger
}

func NewSwiggyComplaints(d *Deps) *SwiggyComplaints {
	return &SwiggyComplaints{
		deps:   d,
		logger: d.Logger.With("unit", "swiggy_complaints"),
	}
}

func (s *SwiggyComplaints) Name() string { return "swiggy_complaints" }

func (s *SwiggyComplaints) Run(ctx context.Context) error {
	d := s.deps
	page, err := d.Session.OpenPage(d.Cfg.Swiggy.LoginStateFile, swiggyComplaintsURL)
	if err != nil {
		return fmt.Errorf("open complaints page: %w", err)
	}
	defer page.Close()

	act := newActions(d, page)
	act.ClickOptional(
		locator.Xpath("/html/body/div[1]/div[2]/div[3]/button[1]"),
		locator.ByText("No! Not needed"),
	)

	// Lazy list: scroll until the card count stops growing.
	if _, err := act.ScrollUntilStable(50, 2*time.Second); err != nil {
		s.logger.Warn("scroll failed, using loaded cards", "error", err)
	}

	html, err := act.HTML()
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}
	total := countText(html, "Resolve this complaint")
	s.logger.Info("complaint cards loaded", "count", total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.processCard(ctx, act, i); err != nil {
			s.logger.Warn("complaint card failed", "index", i, "error", err)
		}
	}
	return nil
}

func (s *SwiggyComplaints) processCard(ctx context.Context, act *unitActions, index int) error {
	// Clicking the nth resolve button opens that complaint's detail pane.
	if err := act.ClickNthText("swiggy_complaints", "Resolve this complaint", index); err != nil {
		return err
	}

	bodyText, err := act.BodyText()
	if err != nil {
		return err
	}
	s.deps.archiveSnapshot(ctx, types.PlatformSwiggy, types.CategoryComplaint, s.Name(), bodyText)

	ids := complaintIDPattern.FindAllString(bodyText, -1)
	complaintID := ""
	if index < len(ids) {
		complaintID = ids[index]
	}

	block := sliceComplaintBlock(bodyText)
	html, _ := act.HTML()
	parsed := parseComplaintBlock(complaintID, block, firstImageSrc(html))

	parsed.ExpiryDate, parsed.ExpiryTime = s.resolveExpiry(ctx, parsed.ExpiryRaw)

	rec := parsed.record()
	_, err = s.deps.Gates.SwiggyComplaints.Append(ctx, rec)
	return err
}

// resolveExpiry turns the portal's free-form "Expires on ..." text into
// the sheet's date and time columns via the LLM's canonical answer.
func (s *SwiggyComplaints) resolveExpiry(ctx context.Context, raw string) (string, string) {
	if raw == "" || !s.deps.LLM.Available() {
		return "", ""
	}
	answer, err := s.deps.LLM.Generate(ctx, extract.ExpiryDatePrompt(raw, time.Now().Year()))
	if err != nil {
		s.logger.Warn("expiry parse failed", "raw", raw, "error", err)
		return "", ""
	}
	date, clock, err := ParseExpiry(answer)
	if err != nil {
		s.logger.Warn("expiry answer unusable", "raw", raw, "answer", answer)
		return "", ""
	}
	return date, clock
}

// sliceComplaintBlock cuts the detail pane text down to the open
// complaint: from its UNRESOLVED banner to the payout footer.
func sliceComplaintBlock(bodyText string) string {
	start := strings.Index(bodyText, "UNRESOLVED")
	if start < 0 {
		return bodyText
	}
	end := strings.Index(bodyText, "Will reflect in your next payout")
	if end < 0 || end < start {
		return bodyText[start:]
	}
	return strings.TrimSpace(bodyText[start:end])
}

// swiggyComplaint is the parsed form of one complaint block.
type swiggyComplaint struct {
	OutletID    string
	ComplaintID string
	Status      string
	ExpiryRaw   string
	ExpiryDate  string
	ExpiryTime  string
	Reason      string
	Customer    string
	History     string
	Description string
	Comment     string
	Resolution  string
	Refund      string
	ImageLink   string
}

func (c *swiggyComplaint) record() *types.Record {
	rec := types.NewRecord(types.CategoryComplaint, types.PlatformSwiggy, "swiggy_complaints")
	rec.Set("Outlet ID", c.OutletID)
	rec.Set("Complaint ID", c.ComplaintID)
	rec.Set("Status", c.Status)
	rec.Set("Expiry Date", c.ExpiryDate)
	rec.Set("Expiry Time", c.ExpiryTime)
	rec.Set("Reason", c.Reason)
	rec.Set("Customer Name", c.Customer)
	rec.Set("Customer History", c.History)
	rec.Set("Description", c.Description)
	rec.Set("Comment", c.Comment)
	rec.Set("Resolution", c.Resolution)
	rec.Set("Refund Amount", c.Refund)
	rec.Set("Image Link", c.ImageLink)
	return rec
}

func isItemLine(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range itemLineMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// parseComplaintBlock extracts the structured complaint from the sliced
// block text. Layout knowledge lives here: the reason line follows the
// expiry line, item lines follow the reason, the customer name is the
// first short non-item line after the items, and the outlet ID sits on
// the line above the last UNRESOLVED banner.
func parseComplaintBlock(complaintID, block, imageURL string) *swiggyComplaint {
	c := &swiggyComplaint{
		ComplaintID: complaintID,
		ImageLink:   imageURL,
	}

	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	for _, l := range lines {
		if strings.Contains(l, "UNRESOLVED") {
			c.Status = "UNRESOLVED"
			break
		}
	}

	expiryIdx := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "Expires on") {
			c.ExpiryRaw = strings.TrimSpace(strings.TrimPrefix(l, "Expires on"))
			expiryIdx = i
			break
		}
	}

	i := expiryIdx + 1
	if expiryIdx >= 0 && i < len(lines) {
		reason := []string{lines[i]}
		for i++; i < len(lines) && isItemLine(lines[i]); i++ {
			reason = append(reason, lines[i])
		}
		c.Reason = strings.Join(reason, "\n")
	}

	for ; i < len(lines); i++ {
		if !isItemLine(lines[i]) && len(strings.Fields(lines[i])) <= 4 {
			c.Customer = lines[i]
			break
		}
	}

	for i, l := range lines {
		for _, tier := range customerTiers {
			if strings.Contains(l, tier) {
				c.Description = l
				hi := i + 4
				if hi > len(lines) {
					hi = len(lines)
				}
				c.History = strings.Join(lines[i+1:hi], "\n")
				break
			}
		}
		if c.Description != "" {
			break
		}
	}

	if m := quotedComment.FindStringSubmatch(block); m != nil {
		if m[1] != "" {
			c.Comment = m[1]
		} else {
			c.Comment = m[2]
		}
	}

	for i, l := range lines {
		if l == "RESOLUTION" && i+1 < len(lines) {
			c.Resolution = lines[i+1]
			break
		}
	}

	c.Refund = "₹0"
	for _, l := range lines {
		if strings.Contains(l, "Recommended Refund Amount") {
			if m := refundPattern.FindString(l); m != "" {
				c.Refund = m
			}
			break
		}
	}

	// The outlet ID is on the line above the last UNRESOLVED banner.
	rawLines := strings.Split(block, "\n")
	for i := len(rawLines) - 1; i > 0; i-- {
		if strings.Contains(rawLines[i], "UNRESOLVED") {
			if m := digitsPattern.FindString(rawLines[i-1]); m != "" {
				c.OutletID = m
			}
			break
		}
	}

	return c
}
