package scraper

import (
	"testing"
	"time"
)

func TestReportDate(t *testing.T) {
	got := ReportDate(2)
	want := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	if got != want {
		t.Errorf("ReportDate(2) = %q, want %q", got, want)
	}
}

func TestAdjustTimestampIST(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jul 19, 10:59 PM", "Jul 20, 4:29 AM"},
		{"Jul 19, 22:59", "Jul 20, 04:29"},
		{"19 Jul, 10:59 PM", "20 Jul, 4:29 AM"},
	}
	for _, tt := range tests {
		if got := AdjustTimestampIST(tt.in); got != tt.want {
			t.Errorf("AdjustTimestampIST(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAdjustTimestampISTUnparseable(t *testing.T) {
	for _, in := range []string{"", "yesterday evening", "not a time"} {
		if got := AdjustTimestampIST(in); got != in {
			t.Errorf("AdjustTimestampIST(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	date, clock, err := ParseExpiry("2025-07-27 14:30")
	if err != nil {
		t.Fatalf("ParseExpiry: %v", err)
	}
	if date != "24/07/2025" {
		t.Errorf("date = %q, want 24/07/2025", date)
	}
	if clock != "14:30" {
		t.Errorf("clock = %q, want 14:30", clock)
	}
}

func TestParseExpiryRejectsFreeForm(t *testing.T) {
	if _, _, err := ParseExpiry("sometime next week"); err == nil {
		t.Error("expected error for free-form input")
	}
}
