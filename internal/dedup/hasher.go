// Package dedup implements the deduplicating tabular append shared by
// every scraper: hash the natural key of each record, load the digests of
// everything already in the store once per run, and let the append gate
// write only novel records.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// keySep joins key fields before hashing. A non-printable separator keeps
// ("ab","c") and ("a","bc") from colliding.
const keySep = "\x1f"

// Digest reduces one or more natural key fields to a fixed-size digest.
// Returns ok=false when every field is empty after trimming.
func Digest(fields ...string) (digest string, ok bool) {
	empty := true
	trimmed := make([]string, len(fields))
	for i, f := range fields {
		trimmed[i] = strings.TrimSpace(f)
		if trimmed[i] != "" {
			empty = false
		}
	}
	if empty {
		return "", false
	}
	return hashString(strings.Join(trimmed, keySep)), true
}

// DigestRecord hashes the whole canonical record representation. This is
// the best-effort fallback for records with no natural key, so such a
// record still deduplicates against itself within a run.
func DigestRecord(r *types.Record) string {
	return hashString(r.Canonical())
}

// hashString produces a compact 128-bit hex digest. Collision resistance
// here is a practical uniqueness concern, not a security one.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:16])
}
