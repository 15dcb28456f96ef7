package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ReportDate is the metrics report date: today minus the platform's
// publishing lag, formatted the way the sheet expects.
func ReportDate(lagDays int) string {
	return time.Now().AddDate(0, 0, -lagDays).Format("2006-01-02")
}

// timestampLayouts are the shapes review timestamps show up in, most
// common first.
var timestampLayouts = []string{
	"Jan 2, 3:04 PM",
	"Jan 2, 15:04",
	"January 2, 3:04 PM",
	"January 2, 15:04",
	"2 Jan, 3:04 PM",
	"2 Jan, 15:04",
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// AdjustTimestampIST shifts a dashboard timestamp forward by 5h30m. The
// host runs in GMT while the sheet convention is IST; the portal renders
// times in the host's zone. Unparseable input is returned unchanged.
func AdjustTimestampIST(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}

	hadYear := yearPattern.MatchString(s)
	for _, layout := range timestampLayouts {
		in, parseLayout := s, layout+", 2006"
		if !hadYear {
			in = fmt.Sprintf("%s, %d", s, time.Now().Year())
		}
		t, err := time.Parse(parseLayout, in)
		if err != nil {
			continue
		}
		adjusted := t.Add(5*time.Hour + 30*time.Minute)
		if hadYear {
			return adjusted.Format(parseLayout)
		}
		// Year was implied on input, keep it implied on output.
		return adjusted.Format(layout)
	}
	return raw
}

// ParseExpiry interprets the LLM's canonical "2006-01-02 15:04" expiry
// answer and applies the 3-day grace the sheet convention subtracts,
// returning the sheet's date (dd/mm/yyyy) and time (HH:MM) columns.
func ParseExpiry(canonical string) (date, clock string, err error) {
	t, err := time.Parse("2006-01-02 15:04", strings.TrimSpace(canonical))
	if err != nil {
		return "", "", fmt.Errorf("parse expiry %q: %w", canonical, err)
	}
	t = t.AddDate(0, 0, -3)
	return t.Format("02/01/2006"), t.Format("15:04"), nil
}
