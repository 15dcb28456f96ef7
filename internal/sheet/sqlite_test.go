package sheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	layout := MetricLayout("Swiggy Live")
	path := filepath.Join(t.TempDir(), "mirror.db")

	st, err := NewSQLiteStore(path, layout, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	want := [][]string{
		{"2025-07-19", "305619", "Total Sales", "9600", "Swiggy"},
		{"2025-07-19", "305619", "Total Orders", "42", "Swiggy"},
	}
	for _, row := range want {
		if err := st.AppendRow(ctx, row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows, err := st.ReadAllRows(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != layout.Columns[0] {
		t.Errorf("first row should be the header, got %v", rows[0])
	}
	for i, row := range rows[1:] {
		for j, cell := range row {
			if cell != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, cell, want[i][j])
			}
		}
	}
}

func TestSQLiteStorePadsShortRows(t *testing.T) {
	layout := MetricLayout("Swiggy Live")
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "mirror.db"), layout, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.AppendRow(ctx, []string{"2025-07-19", "305619"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := st.ReadAllRows(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := rows[1]
	if len(got) != len(layout.Columns) {
		t.Fatalf("row has %d cells, want %d", len(got), len(layout.Columns))
	}
	if got[2] != "" || got[4] != "" {
		t.Errorf("missing cells should read back empty, got %v", got)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	layout := ComplaintLayout("Zomato Complaints")
	path := filepath.Join(t.TempDir(), "mirror.db")

	st, err := NewSQLiteStore(path, layout, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	row := make([]string, len(layout.Columns))
	row[0] = "20012766"
	row[1] = "#12345"
	if err := st.AppendRow(context.Background(), row); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = NewSQLiteStore(path, layout, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	rows, err := st.ReadAllRows(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "#12345" {
		t.Fatalf("row did not survive reopen: %v", rows)
	}
}

func TestTableName(t *testing.T) {
	cases := map[string]string{
		"Swiggy Live":       "swiggy_live",
		"Zomato Complaints": "zomato_complaints",
		"Sheet (2024)":      "sheet__2024",
	}
	for in, want := range cases {
		if got := tableName(in); got != want {
			t.Errorf("tableName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMirroredStoreTeesAppends(t *testing.T) {
	layout := MetricLayout("Swiggy Live")
	primary := NewMemoryStore(layout)
	mirror := NewMemoryStore(layout)
	st := NewMirroredStore(primary, mirror, testLogger())

	ctx := context.Background()
	row := []string{"2025-07-19", "305619", "Total Sales", "9600", "Swiggy"}
	if err := st.AppendRow(ctx, row); err != nil {
		t.Fatalf("append: %v", err)
	}
	if primary.RowCount() != 2 || mirror.RowCount() != 2 {
		t.Fatalf("primary=%d mirror=%d rows, want 2 each", primary.RowCount(), mirror.RowCount())
	}

	// Mirror failures are swallowed, primary failures are not.
	mirror.FailNextAppends(1)
	if err := st.AppendRow(ctx, row); err != nil {
		t.Fatalf("mirror failure should not surface: %v", err)
	}
	if primary.RowCount() != 3 {
		t.Fatalf("primary=%d rows, want 3", primary.RowCount())
	}

	primary.FailNextAppends(1)
	err := st.AppendRow(ctx, row)
	var storeErr *types.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("primary failure should surface a store error, got %v", err)
	}
}
