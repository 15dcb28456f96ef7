// Package normalize converts decorated raw strings scraped from partner
// dashboards ("₹9,600", "85.0%", "12.5 min") into typed values or an
// explicit missing marker.
package normalize

import (
	"strconv"
	"strings"
)

// Hint describes the unit decoration expected on a raw value. Parsing is
// hint-independent (all decoration is stripped either way); the hint is
// carried for log context only.
type Hint int

const (
	HintNone Hint = iota
	HintCurrency
	HintPercent
	HintDuration
)

func (h Hint) String() string {
	switch h {
	case HintCurrency:
		return "currency"
	case HintPercent:
		return "percent"
	case HintDuration:
		return "duration"
	default:
		return "none"
	}
}

// Kind tags a normalized value.
type Kind int

const (
	KindMissing Kind = iota
	KindInt
	KindFloat
	KindRaw
)

// Missing is the display sentinel for a field with no usable value.
const Missing = "N/A"

// Value is the tagged union over {Integer, Float, MissingMarker, RawText}.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Raw   string
}

// MissingValue returns the explicit missing marker.
func MissingValue() Value { return Value{Kind: KindMissing} }

// IntValue returns an integer value.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }

// FloatValue returns a float value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// RawValue returns a textual value stored as-is.
func RawValue(s string) Value { return Value{Kind: KindRaw, Raw: s} }

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// String renders the value for a spreadsheet cell. Numeric magnitudes
// round-trip: Normalize("₹9,600").String() == "9600".
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindRaw:
		return v.Raw
	default:
		return Missing
	}
}

// Normalize converts a raw scraped value into a typed value. The literal
// sentinel "n/a" (any case) short-circuits to the missing marker. Otherwise
// every character that is not an ASCII digit or a decimal point is
// discarded; an empty remainder is missing, a remainder with one decimal
// point is a float, anything else an integer. A value that still fails to
// parse (e.g. two decimal points) is missing — a malformed field must never
// abort the batch.
func Normalize(raw string, hint Hint) Value {
	_ = hint

	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, Missing) {
		return MissingValue()
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || !strings.ContainsAny(cleaned, "0123456789") {
		return MissingValue()
	}

	if strings.Contains(cleaned, ".") {
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return MissingValue()
		}
		return FloatValue(f)
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return MissingValue()
	}
	return IntValue(n)
}
