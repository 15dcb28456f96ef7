package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/ArtOfDelight/ONfinal/internal/sheet"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

func TestLoadIndexSkipsHeaderAndShortRows(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	st := sheet.NewMemoryStore(layout)
	st.Seed([]string{"121907", "778899", "RESOLVED"})
	st.Seed([]string{"121907"}) // short row: key column missing entirely
	st.Seed([]string{"121907", "445566"})

	idx, err := LoadIndex(context.Background(), st, layout, testLogger)
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("expected 2 keys (header and keyless row skipped), got %d", idx.Len())
	}
	if !idx.Seen(mustDigest(t, "778899")) || !idx.Seen(mustDigest(t, "445566")) {
		t.Error("expected both seeded complaint IDs in the index")
	}
}

func TestLoadIndexCompositeMetricKey(t *testing.T) {
	layout := sheet.MetricLayout("Zomato Live")
	st := sheet.NewMemoryStore(layout)
	st.Seed([]string{"2026-08-29", "57750", "Delivered orders", "41", "Zomato"})

	idx, err := LoadIndex(context.Background(), st, layout, testLogger)
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	// Key order is Outlet ID, Metric, Report Date.
	if !idx.Seen(mustDigest(t, "57750", "Delivered orders", "2026-08-29")) {
		t.Error("composite key not indexed")
	}
	if idx.Seen(mustDigest(t, "57750", "Delivered orders", "2026-08-30")) {
		t.Error("different report date must not match")
	}
}

type unreachableStore struct{}

func (unreachableStore) Name() string { return "broken" }
func (unreachableStore) ReadAllRows(context.Context) ([][]string, error) {
	return nil, &types.StoreError{Op: "read", Name: "broken", Err: errors.New("connection refused")}
}
func (unreachableStore) AppendRow(context.Context, []string) error { return nil }
func (unreachableStore) Close() error                              { return nil }

func TestLoadIndexFailsFastWhenStoreUnreachable(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	_, err := LoadIndex(context.Background(), unreachableStore{}, layout, testLogger)
	if err == nil {
		t.Fatal("expected error for unreachable store")
	}
	if !errors.Is(err, types.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
