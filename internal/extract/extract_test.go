package extract

import (
	"log/slog"
	"os"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestCleanJSONFenced(t *testing.T) {
	raw := "```json\n{\"Order ID\": \"#211915\"}\n```"
	got := CleanJSON(raw)
	if got != `{"Order ID": "#211915"}` {
		t.Errorf("unexpected: %q", got)
	}
}

func TestCleanJSONSurroundingProse(t *testing.T) {
	raw := `Here is the extracted data: {"Status": "OPEN", "nested": {"a": 1}} Hope that helps!`
	got := CleanJSON(raw)
	if got != `{"Status": "OPEN", "nested": {"a": 1}}` {
		t.Errorf("unexpected: %q", got)
	}
}

func TestCleanJSONBracesInsideStrings(t *testing.T) {
	raw := `{"Comment": "loved it {really}"}`
	if got := CleanJSON(raw); got != raw {
		t.Errorf("brace inside string broke scanning: %q", got)
	}
}

func TestCleanJSONNoObject(t *testing.T) {
	if got := CleanJSON("sorry, I cannot parse this"); got != "{}" {
		t.Errorf("expected empty object, got %q", got)
	}
}

func TestRegexMetrics(t *testing.T) {
	text := `Business summary
Delivered Orders: 128
Cancelled Orders: 3
Total CPC Spends ₹ 9,600
Online Availability % 92.5
Kitchen Prep Time: 12.5 min`

	got := RegexMetrics(text, testLogger)
	cases := map[string]string{
		"Delivered Orders":  "128",
		"Cancelled Orders":  "3",
		"Total Spends":      "9600",
		"Online %":          "92.5",
		"Kitchen Prep Time": "12.5",
	}
	for label, want := range cases {
		if got[label] != want {
			t.Errorf("%s: expected %q, got %q", label, want, got[label])
		}
	}
	if got["Menu Opens"] != "N/A" {
		t.Errorf("absent metric should be N/A, got %q", got["Menu Opens"])
	}
}

func TestColumnValues(t *testing.T) {
	text := "Business report\nDelivered orders\n41 39 44\n\nOnline %\n97.2% 96.1% 98.0%\n\nend\n"
	got := ColumnValues(text, []string{"Delivered orders", "Online %", "Market share"})
	if got["Delivered orders"] != "41" {
		t.Errorf("expected 41, got %q", got["Delivered orders"])
	}
	if got["Online %"] != "97.2%" {
		t.Errorf("expected 97.2%%, got %q", got["Online %"])
	}
	if got["Market share"] != "N/A" {
		t.Errorf("expected N/A for absent label, got %q", got["Market share"])
	}
}

func TestTruncate(t *testing.T) {
	long := make([]byte, MaxPromptChars+100)
	for i := range long {
		long[i] = 'x'
	}
	if got := Truncate(string(long)); len(got) != MaxPromptChars {
		t.Errorf("expected %d chars, got %d", MaxPromptChars, len(got))
	}
}

func TestFlattenListValues(t *testing.T) {
	if got := flatten([]any{"Ice Cream Sandwich", "Brownie"}); got != "Ice Cream Sandwich, Brownie" {
		t.Errorf("unexpected: %q", got)
	}
}
