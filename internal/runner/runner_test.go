package runner

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ArtOfDelight/ONfinal/internal/config"
	"github.com/ArtOfDelight/ONfinal/internal/scraper"
)

type fakeUnit struct{ name string }

func (f fakeUnit) Name() string               { return f.name }
func (f fakeUnit) Run(_ context.Context) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelectUnits(t *testing.T) {
	all := []scraper.Unit{
		fakeUnit{"swiggy_metrics"},
		fakeUnit{"zomato_metrics"},
		fakeUnit{"swiggy_reviews"},
	}

	got := selectUnits(all, nil)
	if len(got) != 3 {
		t.Fatalf("empty filter returned %d units, want all 3", len(got))
	}

	got = selectUnits(all, []string{"zomato_metrics"})
	if len(got) != 1 || got[0].Name() != "zomato_metrics" {
		t.Fatalf("got %v, want just zomato_metrics", got)
	}

	got = selectUnits(all, []string{"nonexistent"})
	if len(got) != 0 {
		t.Fatalf("unknown name matched %d units", len(got))
	}
}

func TestBuildGatesDryRun(t *testing.T) {
	r := New(config.DefaultConfig(), testLogger())
	defer r.closeStores()

	gates, err := r.buildGates(context.Background(), nil, true)
	if err != nil {
		t.Fatalf("buildGates: %v", err)
	}

	if gates.SwiggyMetrics == nil || gates.ZomatoMetrics == nil ||
		gates.SwiggyComplaints == nil || gates.ZomatoComplaints == nil ||
		gates.SwiggyReviews == nil || gates.ZomatoReviews == nil {
		t.Fatal("expected a gate per worksheet")
	}
	if !gates.ZomatoComplaints.KeylessFallback {
		t.Error("zomato complaints gate should accept keyless records")
	}
	if gates.SwiggyComplaints.KeylessFallback {
		t.Error("swiggy complaints gate should reject keyless records")
	}
	if len(r.stores) != 6 {
		t.Fatalf("opened %d stores, want 6", len(r.stores))
	}
}
