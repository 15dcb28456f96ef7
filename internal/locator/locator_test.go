package locator

import (
	"errors"
	"testing"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

func TestResolveFirstHitWins(t *testing.T) {
	strategies := []Strategy{
		Xpath("//div[1]/button"),
		Css("button.confirm"),
		ByText("Confirm"),
	}

	probed := []string{}
	got, used, err := Resolve(strategies, func(s Strategy) (string, bool) {
		probed = append(probed, s.Query)
		return "found", s.Kind == CSS
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "found" || used.Query != "button.confirm" {
		t.Errorf("wrong result: %q via %s", got, used)
	}
	if len(probed) != 2 {
		t.Errorf("resolution must stop at the first hit, probed %d", len(probed))
	}
}

func TestResolveExhausted(t *testing.T) {
	strategies := []Strategy{Css("a"), Css("b")}
	_, _, err := Resolve(strategies, func(Strategy) (int, bool) { return 0, false })
	if !errors.Is(err, types.ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestResolveEmptyChain(t *testing.T) {
	_, _, err := Resolve(nil, func(Strategy) (int, bool) { return 0, true })
	if !errors.Is(err, types.ErrExhausted) {
		t.Errorf("expected ErrExhausted for empty chain, got %v", err)
	}
}
