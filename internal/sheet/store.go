// Package sheet provides the tabular store the scrapers append to: a
// Google Sheets worksheet in production, a SQLite mirror for offline
// analysis, and an in-memory store for tests and dry runs.
package sheet

import "context"

// Store is the interface for one worksheet-shaped tabular store.
type Store interface {
	// Name returns the worksheet or table identifier.
	Name() string

	// ReadAllRows returns every row in the store. The first row is the
	// header. Rows may be shorter than the header.
	ReadAllRows(ctx context.Context) ([][]string, error)

	// AppendRow appends one row after the last non-empty row. Values are
	// interpreted (numbers and dates auto-typed) so downstream analysis
	// works without casting.
	AppendRow(ctx context.Context, row []string) error

	// Close releases the underlying connection.
	Close() error
}
