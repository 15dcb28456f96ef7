package browser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ArtOfDelight/ONfinal/internal/locator"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Actions wraps a page with the interaction helpers the dashboard flows
// need: resilient clicks, typed input, scroll-to-load and text capture.
type Actions struct {
	page     *rod.Page
	resolver *locator.Resolver
	settle   time.Duration
	logger   *slog.Logger
}

// NewActions wraps a page. settle is the pause after state-changing
// interactions, long enough for the dashboard's client-side rendering.
func NewActions(page *rod.Page, resolver *locator.Resolver, settle time.Duration, logger *slog.Logger) *Actions {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Actions{
		page:     page,
		resolver: resolver,
		settle:   settle,
		logger:   logger.With("component", "actions"),
	}
}

// Page exposes the underlying page for flows that need raw access.
func (a *Actions) Page() *rod.Page { return a.page }

// Click resolves the first matching strategy and clicks it.
func (a *Actions) Click(unit string, strategies ...locator.Strategy) error {
	el, err := a.resolver.FindDeep(a.page, unit, strategies)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &types.UIError{Unit: unit, Selector: strategies[0].String(), Err: err}
	}
	time.Sleep(a.settle)
	return nil
}

// ClickOptional clicks if any strategy matches and reports whether it
// did. Used for dismissable popups and banners that may or may not show.
func (a *Actions) ClickOptional(strategies ...locator.Strategy) bool {
	el, err := a.resolver.Find(a.page, "optional", strategies)
	if err != nil {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		a.logger.Debug("optional click failed", "error", err)
		return false
	}
	time.Sleep(a.settle)
	return true
}

// Type resolves an input, clears it and types text.
func (a *Actions) Type(unit, text string, strategies ...locator.Strategy) error {
	el, err := a.resolver.FindDeep(a.page, unit, strategies)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return &types.UIError{Unit: unit, Selector: strategies[0].String(), Err: err}
	}
	time.Sleep(a.settle)
	return nil
}

// ClickNthText clicks the nth element whose text contains needle,
// scrolling it into view first. Card lists render the same label per
// card, so position is the only handle on a specific card.
func (a *Actions) ClickNthText(unit, needle string, n int) error {
	els, err := a.page.ElementsX(fmt.Sprintf(`//*[contains(text(), %q)]`, needle))
	if err != nil {
		return &types.UIError{Unit: unit, Selector: needle, Err: err}
	}
	if n >= len(els) {
		return &types.UIError{Unit: unit, Selector: needle, Err: types.ErrExhausted}
	}
	el := els[n]
	_ = el.ScrollIntoView()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &types.UIError{Unit: unit, Selector: needle, Err: err}
	}
	time.Sleep(a.settle)
	return nil
}

// CountText returns how many elements contain needle in their text.
func (a *Actions) CountText(needle string) int {
	els, err := a.page.ElementsX(fmt.Sprintf(`//*[contains(text(), %q)]`, needle))
	if err != nil {
		return 0
	}
	return len(els)
}

// Text resolves an element and returns its visible text.
func (a *Actions) Text(unit string, strategies ...locator.Strategy) (string, error) {
	el, err := a.resolver.FindDeep(a.page, unit, strategies)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", &types.UIError{Unit: unit, Selector: strategies[0].String(), Err: err}
	}
	return text, nil
}

// BodyText returns the page's full visible text, the raw input for the
// extraction layer.
func (a *Actions) BodyText() (string, error) {
	el, err := a.page.Element("body")
	if err != nil {
		return "", fmt.Errorf("page body: %w", err)
	}
	return el.Text()
}

// AllFramesText concatenates the visible text of the main page and every
// iframe. The Zomato reporting view spreads its panels across frames.
func (a *Actions) AllFramesText() string {
	var b strings.Builder
	if text, err := a.BodyText(); err == nil {
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	frames, err := a.page.Elements("iframe")
	if err != nil {
		return b.String()
	}
	for _, frameEl := range frames {
		framePage, err := frameEl.Frame()
		if err != nil {
			continue
		}
		body, err := framePage.Element("body")
		if err != nil {
			continue
		}
		if text, err := body.Text(); err == nil && text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// HTML returns the page's rendered HTML.
func (a *Actions) HTML() (string, error) {
	return a.page.HTML()
}

// ScrollToBottom scrolls the viewport to the bottom of the document.
func (a *Actions) ScrollToBottom() error {
	_, err := a.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// ScrollUntilStable scrolls repeatedly until the document height stops
// growing or maxScrolls is reached. Returns how many scrolls ran. This
// is how lazily loaded lists (reviews, complaints) are fully expanded.
func (a *Actions) ScrollUntilStable(maxScrolls int, wait time.Duration) (int, error) {
	lastHeight := 0
	scrolls := 0

	for scrolls < maxScrolls {
		result, err := a.page.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return scrolls, err
		}
		height := result.Value.Int()
		if height == lastHeight {
			break
		}
		lastHeight = height

		if err := a.ScrollToBottom(); err != nil {
			return scrolls, err
		}
		scrolls++
		time.Sleep(wait)
	}

	return scrolls, nil
}

// WaitStable waits for the page to stop mutating.
func (a *Actions) WaitStable() {
	if err := a.page.Timeout(30 * time.Second).WaitStable(500 * time.Millisecond); err != nil {
		a.logger.Debug("wait stable timed out", "error", err)
	}
}

// Navigate loads a URL on the existing page and waits for it to settle.
func (a *Actions) Navigate(url string) error {
	if err := a.page.Timeout(60 * time.Second).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	a.WaitStable()
	return nil
}
