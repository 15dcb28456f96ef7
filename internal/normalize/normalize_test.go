package normalize

import "testing"

func TestNormalizeCurrency(t *testing.T) {
	v := Normalize("₹9,600", HintCurrency)
	if v.Kind != KindInt {
		t.Fatalf("expected integer, got kind %d", v.Kind)
	}
	if v.Int != 9600 {
		t.Errorf("expected 9600, got %d", v.Int)
	}
	if v.String() != "9600" {
		t.Errorf("round trip: expected %q, got %q", "9600", v.String())
	}
}

func TestNormalizePercent(t *testing.T) {
	v := Normalize("85.0%", HintPercent)
	if v.Kind != KindFloat {
		t.Fatalf("expected float, got kind %d", v.Kind)
	}
	if v.Float != 85.0 {
		t.Errorf("expected 85.0, got %v", v.Float)
	}
}

func TestNormalizeDuration(t *testing.T) {
	v := Normalize("12.5 min", HintDuration)
	if v.Kind != KindFloat || v.Float != 12.5 {
		t.Errorf("expected Float(12.5), got %+v", v)
	}
}

func TestNormalizeThousands(t *testing.T) {
	v := Normalize("1,234", HintNone)
	if v.Kind != KindInt || v.Int != 1234 {
		t.Errorf("expected Integer(1234), got %+v", v)
	}
}

func TestNormalizePlainFloat(t *testing.T) {
	v := Normalize("12.5", HintNone)
	if v.Kind != KindFloat || v.Float != 12.5 {
		t.Errorf("expected Float(12.5), got %+v", v)
	}
}

func TestNormalizeMissing(t *testing.T) {
	cases := []string{"", "N/A", "n/a", "N/a", "no digits here", "—", "₹"}
	for _, raw := range cases {
		if v := Normalize(raw, HintNone); !v.IsMissing() {
			t.Errorf("Normalize(%q): expected missing, got %+v", raw, v)
		}
	}
}

func TestNormalizeMalformed(t *testing.T) {
	// Two decimal points survive stripping but fail to parse; the
	// normalizer must degrade to missing rather than return an error.
	if v := Normalize("1.2.3", HintNone); !v.IsMissing() {
		t.Errorf("expected missing for malformed value, got %+v", v)
	}
}

func TestMissingString(t *testing.T) {
	if got := MissingValue().String(); got != Missing {
		t.Errorf("expected %q, got %q", Missing, got)
	}
}

func TestRawValue(t *testing.T) {
	v := RawValue("UNRESOLVED")
	if v.Kind != KindRaw || v.String() != "UNRESOLVED" {
		t.Errorf("raw value mangled: %+v", v)
	}
}
