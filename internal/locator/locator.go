// Package locator replaces scattered try-selector-except-continue blocks
// with an explicit ordered list of locating strategies consumed by a small
// resolver: TryNext -> Found | Exhausted. Page structure on the partner
// dashboards changes without notice, so every interaction carries its own
// fallback chain.
package locator

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/go-rod/rod"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Kind selects how a strategy's query is interpreted.
type Kind string

const (
	CSS   Kind = "css"
	XPath Kind = "xpath"
	Text  Kind = "text" // visible-text match on any element
)

// Strategy is one way of locating an element.
type Strategy struct {
	Kind  Kind
	Query string
}

func (s Strategy) String() string { return fmt.Sprintf("%s:%s", s.Kind, s.Query) }

// Css, Xpath and ByText are shorthand constructors for strategy chains.
func Css(q string) Strategy    { return Strategy{Kind: CSS, Query: q} }
func Xpath(q string) Strategy  { return Strategy{Kind: XPath, Query: q} }
func ByText(q string) Strategy { return Strategy{Kind: Text, Query: q} }

// Resolve walks the strategy list in order, calling probe for each, and
// returns the first hit together with the strategy that produced it.
// When every strategy misses it returns ErrExhausted; the caller skips the
// unit and moves on.
func Resolve[T any](strategies []Strategy, probe func(Strategy) (T, bool)) (T, Strategy, error) {
	for _, s := range strategies {
		if v, ok := probe(s); ok {
			return v, s, nil
		}
	}
	var zero T
	return zero, Strategy{}, types.ErrExhausted
}

// Resolver locates elements on rod pages, including inside iframes, with
// a bounded per-strategy wait.
type Resolver struct {
	Timeout time.Duration
	logger  *slog.Logger
}

// NewResolver creates a resolver with the given per-strategy timeout.
func NewResolver(timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		Timeout: timeout,
		logger:  logger.With("component", "locator"),
	}
}

// Find locates an element on the page using the first strategy that
// matches within the timeout.
func (r *Resolver) Find(page *rod.Page, unit string, strategies []Strategy) (*rod.Element, error) {
	el, s, err := Resolve(strategies, func(s Strategy) (*rod.Element, bool) {
		el, probeErr := r.probe(page, s)
		return el, probeErr == nil
	})
	if err != nil {
		return nil, &types.UIError{Unit: unit, Selector: describe(strategies), Err: err}
	}
	r.logger.Debug("element located", "unit", unit, "strategy", s.String())
	return el, nil
}

// FindDeep tries the main page first and then every iframe. The partner
// dashboards render most controls inside micro-frontend frames.
func (r *Resolver) FindDeep(page *rod.Page, unit string, strategies []Strategy) (*rod.Element, error) {
	if el, err := r.Find(page, unit, strategies); err == nil {
		return el, nil
	}

	frames, err := page.Elements("iframe")
	if err == nil {
		for _, frameEl := range frames {
			framePage, ferr := frameEl.Frame()
			if ferr != nil {
				continue
			}
			el, s, rerr := Resolve(strategies, func(s Strategy) (*rod.Element, bool) {
				el, probeErr := r.probe(framePage, s)
				return el, probeErr == nil
			})
			if rerr == nil {
				r.logger.Debug("element located in frame", "unit", unit, "strategy", s.String())
				return el, nil
			}
		}
	}
	return nil, &types.UIError{Unit: unit, Selector: describe(strategies), Err: types.ErrExhausted}
}

// probe runs one strategy against one page with the bounded wait.
func (r *Resolver) probe(page *rod.Page, s Strategy) (el *rod.Element, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			el, err = nil, fmt.Errorf("locator panic: %v", rec)
		}
	}()

	p := page.Timeout(r.Timeout)
	switch s.Kind {
	case XPath:
		return p.ElementX(s.Query)
	case Text:
		return p.ElementR("*", "/"+regexp.QuoteMeta(s.Query)+"/")
	default:
		return p.Element(s.Query)
	}
}

func describe(strategies []Strategy) string {
	if len(strategies) == 0 {
		return ""
	}
	return strategies[0].String()
}
