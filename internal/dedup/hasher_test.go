package dedup

import (
	"testing"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

func TestDigestDeterminism(t *testing.T) {
	d1, ok1 := Digest("778899")
	d2, ok2 := Digest("778899")
	if !ok1 || !ok2 {
		t.Fatal("expected digests for non-empty key")
	}
	if d1 != d2 {
		t.Errorf("same key produced different digests: %s vs %s", d1, d2)
	}
}

func TestDigestDistinctKeys(t *testing.T) {
	d1, _ := Digest("778899")
	d2, _ := Digest("778900")
	if d1 == d2 {
		t.Error("distinct keys produced equal digests")
	}
}

func TestDigestCompositeBoundaries(t *testing.T) {
	// ("ab","c") and ("a","bc") must not collide.
	d1, _ := Digest("ab", "c")
	d2, _ := Digest("a", "bc")
	if d1 == d2 {
		t.Error("composite key boundary collision")
	}
}

func TestDigestEmptyKey(t *testing.T) {
	if _, ok := Digest("", "  ", ""); ok {
		t.Error("expected ok=false for all-empty key fields")
	}
}

func TestDigestRecordStable(t *testing.T) {
	r1 := types.NewRecord(types.CategoryComplaint, types.PlatformZomato, "57750")
	r1.Set("Reason", "Order was delivered late")
	r1.Set("Status", "OPEN")

	r2 := types.NewRecord(types.CategoryComplaint, types.PlatformZomato, "57750")
	r2.Set("Status", "OPEN")
	r2.Set("Reason", "Order was delivered late")

	if DigestRecord(r1) != DigestRecord(r2) {
		t.Error("field insertion order changed the whole-record digest")
	}
}
