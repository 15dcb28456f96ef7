package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ArtOfDelight/ONfinal/internal/sheet"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Index is the in-memory set of digests for natural keys already
// persisted. Built once per run, grows monotonically, never shrinks.
type Index struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{seen: make(map[string]struct{})}
}

// Seen reports whether the digest is in the index.
func (x *Index) Seen(digest string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.seen[digest]
	return ok
}

// Add marks a digest as persisted.
func (x *Index) Add(digest string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.seen[digest] = struct{}{}
}

// Len returns the number of digests in the index.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.seen)
}

// LoadIndex reads every existing row from the store and hashes the
// natural key columns into a fresh index. The header row is skipped;
// short rows contribute empty strings for their missing columns. A run
// must not scrape-and-append without this baseline, so an unreachable
// store fails fast.
func LoadIndex(ctx context.Context, st sheet.Store, layout sheet.Layout, logger *slog.Logger) (*Index, error) {
	rows, err := st.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreUnavailable, err)
	}

	idx := NewIndex()
	keyCols := layout.KeyIndexes()

	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		fields := make([]string, len(keyCols))
		for j, col := range keyCols {
			if col < len(row) {
				fields[j] = row[col]
			}
		}
		digest, ok := Digest(fields...)
		if !ok {
			skipped++
			continue
		}
		idx.Add(digest)
	}

	logger.Info("dedup index loaded",
		"worksheet", st.Name(),
		"keys", idx.Len(),
		"keyless_rows", skipped,
	)
	return idx, nil
}
