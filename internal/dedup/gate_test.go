package dedup

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/sheet"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestGate(t *testing.T, layout sheet.Layout, st *sheet.MemoryStore) *Gate {
	t.Helper()
	idx, err := LoadIndex(context.Background(), st, layout, testLogger)
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	g := NewGate(st, layout, idx, testLogger)
	g.retryDelay = time.Millisecond
	return g
}

func complaintRecord(id string) *types.Record {
	rec := types.NewRecord(types.CategoryComplaint, types.PlatformSwiggy, "121907")
	rec.Set("Outlet ID", "121907")
	rec.Set("Complaint ID", id)
	rec.Set("Status", "UNRESOLVED")
	rec.Set("Reason", "Wrong item delivered")
	rec.Set("Refund Amount", "₹120")
	return rec
}

func TestGateSkipsExistingComplaint(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	st := sheet.NewMemoryStore(layout)
	st.Seed([]string{"121907", "778899", "RESOLVED"})

	g := newTestGate(t, layout, st)
	before := st.RowCount()

	// Same complaint ID, different other fields: still a duplicate.
	rec := complaintRecord("778899")
	rec.Set("Reason", "Entirely different reason")

	out, err := g.Append(context.Background(), rec)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if out != Skipped {
		t.Errorf("expected Skipped, got %s", out)
	}
	if st.RowCount() != before {
		t.Errorf("store row count changed: %d -> %d", before, st.RowCount())
	}
}

func TestGateAppendsNovelRecordsInOrder(t *testing.T) {
	layout := sheet.ReviewLayout("Copy of swiggy_review")
	st := sheet.NewMemoryStore(layout)
	g := newTestGate(t, layout, st)

	for _, id := range []string{"A1", "A2"} {
		rec := types.NewRecord(types.CategoryReview, types.PlatformSwiggy, "2811")
		rec.Set("Order ID", id)
		rec.Set("Rating", "4")
		if out, err := g.Append(context.Background(), rec); err != nil || out != Appended {
			t.Fatalf("append %s: outcome=%v err=%v", id, out, err)
		}
	}

	rows, _ := st.ReadAllRows(context.Background())
	if len(rows) != 3 { // header + 2
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "A1" || rows[2][0] != "A2" {
		t.Errorf("rows out of order: %q then %q", rows[1][0], rows[2][0])
	}
}

func TestGateRejectsEmptyKey(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	st := sheet.NewMemoryStore(layout)
	g := newTestGate(t, layout, st)

	out, err := g.Append(context.Background(), complaintRecord(""))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if out != Rejected {
		t.Errorf("expected Rejected, got %s", out)
	}
	if st.RowCount() != 1 {
		t.Errorf("store must be header-only, got %d rows", st.RowCount())
	}
	if g.Stats().Rejected != 1 {
		t.Errorf("expected 1 rejection in stats, got %d", g.Stats().Rejected)
	}
}

func TestGateKeylessFallback(t *testing.T) {
	layout := sheet.ComplaintLayout("Zomato Complaints")
	st := sheet.NewMemoryStore(layout)
	g := newTestGate(t, layout, st)
	g.KeylessFallback = true

	rec := complaintRecord("")
	if out, err := g.Append(context.Background(), rec); err != nil || out != Appended {
		t.Fatalf("first keyless append: outcome=%v err=%v", out, err)
	}
	// The identical keyless record dedups against itself within the run.
	if out, err := g.Append(context.Background(), complaintRecord("")); err != nil || out != Skipped {
		t.Fatalf("second keyless append: outcome=%v err=%v", out, err)
	}
}

func TestGateIndexesOnlyAfterSuccessfulRetry(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	st := sheet.NewMemoryStore(layout)
	g := newTestGate(t, layout, st)

	st.FailNextAppends(1)
	out, err := g.Append(context.Background(), complaintRecord("556677"))
	if err != nil {
		t.Fatalf("append should have succeeded on retry: %v", err)
	}
	if out != Appended {
		t.Fatalf("expected Appended after retry, got %s", out)
	}
	if st.RowCount() != 2 {
		t.Errorf("record must appear exactly once, got %d data rows", st.RowCount()-1)
	}
	if !g.index.Seen(mustDigest(t, "556677")) {
		t.Error("digest missing from index after successful retry")
	}
}

func TestGateFailedAppendLeavesIndexConsistent(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	st := sheet.NewMemoryStore(layout)
	g := newTestGate(t, layout, st)

	st.FailNextAppends(2) // first attempt and its retry both fail
	out, err := g.Append(context.Background(), complaintRecord("990011"))
	if err == nil || out != Failed {
		t.Fatalf("expected Failed, got outcome=%v err=%v", out, err)
	}
	if g.index.Seen(mustDigest(t, "990011")) {
		t.Error("digest must not enter the index after a failed write")
	}

	// The record is retryable on a later pass without being mistaken for
	// a duplicate of itself.
	out, err = g.Append(context.Background(), complaintRecord("990011"))
	if err != nil || out != Appended {
		t.Fatalf("retry pass: outcome=%v err=%v", out, err)
	}
	if st.RowCount() != 2 {
		t.Errorf("record must appear exactly once, got %d data rows", st.RowCount()-1)
	}
}

func TestGateIdempotentRerun(t *testing.T) {
	layout := sheet.ComplaintLayout("Swiggy Complaints")
	st := sheet.NewMemoryStore(layout)

	records := []*types.Record{
		complaintRecord("111"),
		complaintRecord("222"),
		complaintRecord("333"),
	}

	run := func() {
		g := newTestGate(t, layout, st)
		for _, rec := range records {
			if _, err := g.Append(context.Background(), rec); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
	}

	run()
	after1 := st.RowCount()
	run() // fresh index loaded from the same store
	if st.RowCount() != after1 {
		t.Errorf("rerun changed store content: %d -> %d rows", after1, st.RowCount())
	}
}

func TestGateNormalizesNumericColumns(t *testing.T) {
	layout := sheet.MetricLayout("Swiggy Live")
	st := sheet.NewMemoryStore(layout)
	g := newTestGate(t, layout, st)

	rec := types.NewRecord(types.CategoryMetric, types.PlatformSwiggy, "121907")
	rec.Set("Report Date", "2026-08-28")
	rec.Set("Outlet ID", "121907")
	rec.Set("Metric", "Total Spends")
	rec.Set("Value", "₹9,600")
	rec.Set("Platform", "Swiggy")

	if out, err := g.Append(context.Background(), rec); err != nil || out != Appended {
		t.Fatalf("append: outcome=%v err=%v", out, err)
	}

	rows, _ := st.ReadAllRows(context.Background())
	got := rows[1]
	if got[3] != "9600" {
		t.Errorf("expected normalized value %q, got %q", "9600", got[3])
	}
	if got[4] != "Swiggy" {
		t.Errorf("platform column mangled: %q", got[4])
	}
}

func mustDigest(t *testing.T, fields ...string) string {
	t.Helper()
	d, ok := Digest(fields...)
	if !ok {
		t.Fatal("digest of empty key")
	}
	return d
}
