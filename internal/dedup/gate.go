package dedup

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/normalize"
	"github.com/ArtOfDelight/ONfinal/internal/sheet"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Outcome classifies what the gate did with one record.
type Outcome int

const (
	// Appended: record was novel and is now persisted and indexed.
	Appended Outcome = iota
	// Skipped: natural key already present, no write.
	Skipped
	// Rejected: natural key empty, no write. A data-quality signal.
	Rejected
	// Failed: append failed after retry; record is retryable because the
	// digest was never added to the index.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case Skipped:
		return "skipped"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gate decides write-or-skip for scraped records against one store. The
// mutex serializes index reads and the append call so concurrent scrapers
// cannot both write the same natural key: the second must observe the
// first's digest.
type Gate struct {
	store  sheet.Store
	layout sheet.Layout
	index  *Index
	logger *slog.Logger

	// KeylessFallback hashes the whole record when every natural key
	// field is empty, instead of rejecting. Off by default; rejecting and
	// logging is the safer behavior for keyed categories.
	KeylessFallback bool

	retryDelay time.Duration

	mu    sync.Mutex
	stats Stats
}

// Stats counts gate outcomes for the run summary.
type Stats struct {
	Appended int
	Skipped  int
	Rejected int
	Failed   int
}

// NewGate creates a gate over a store, its layout, and a loaded index.
func NewGate(st sheet.Store, layout sheet.Layout, idx *Index, logger *slog.Logger) *Gate {
	return &Gate{
		store:      st,
		layout:     layout,
		index:      idx,
		logger:     logger.With("component", "append_gate", "worksheet", st.Name()),
		retryDelay: 2 * time.Second,
	}
}

// Append runs one record through the gate: key check, hash check,
// normalize, write. The digest goes into the index only after a confirmed
// successful write, so a failed append leaves the index consistent with
// the store and the record can be retried later without looking like a
// duplicate of itself.
func (g *Gate) Append(ctx context.Context, rec *types.Record) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	digest, ok := g.keyDigest(rec)
	if !ok {
		g.stats.Rejected++
		g.logger.Warn("record rejected: empty natural key",
			"unit", rec.Unit,
			"category", rec.Category,
			"key_columns", strings.Join(g.layout.Key, ","),
		)
		return Rejected, nil
	}

	if g.index.Seen(digest) {
		g.stats.Skipped++
		g.logger.Debug("duplicate record skipped", "unit", rec.Unit, "digest", digest)
		return Skipped, nil
	}

	row := g.buildRow(rec)

	err := g.store.AppendRow(ctx, row)
	if err != nil {
		g.logger.Warn("append failed, retrying once", "unit", rec.Unit, "error", err)
		select {
		case <-ctx.Done():
			g.stats.Failed++
			return Failed, ctx.Err()
		case <-time.After(g.retryDelay):
		}
		err = g.store.AppendRow(ctx, row)
	}
	if err != nil {
		g.stats.Failed++
		g.logger.Error("append failed after retry", "unit", rec.Unit, "error", err)
		return Failed, err
	}

	g.index.Add(digest)
	g.stats.Appended++
	g.logger.Info("record appended", "unit", rec.Unit, "category", rec.Category)
	return Appended, nil
}

// Stats returns a copy of the outcome counters.
func (g *Gate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// keyDigest computes the record's dedup digest from its natural key
// columns, optionally falling back to the whole-record hash.
func (g *Gate) keyDigest(rec *types.Record) (string, bool) {
	fields := make([]string, len(g.layout.Key))
	for i, col := range g.layout.Key {
		fields[i] = rec.Get(col)
	}
	if digest, ok := Digest(fields...); ok {
		return digest, true
	}
	if g.KeylessFallback {
		g.logger.Warn("record has no natural key, hashing whole record",
			"unit", rec.Unit, "category", rec.Category)
		return DigestRecord(rec), true
	}
	return "", false
}

// buildRow normalizes the record's fields into the layout's fixed column
// order. Columns with a numeric hint go through the normalizer; the rest
// are written as trimmed raw text.
func (g *Gate) buildRow(rec *types.Record) []string {
	row := make([]string, len(g.layout.Columns))
	for i, col := range g.layout.Columns {
		raw := rec.Get(col)
		if hint, numeric := g.layout.Numeric[col]; numeric {
			row[i] = normalize.Normalize(raw, hint).String()
		} else {
			row[i] = strings.TrimSpace(raw)
		}
	}
	return row
}
