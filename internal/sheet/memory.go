package sheet

import (
	"context"
	"sync"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// MemoryStore keeps rows in memory. It backs --dry-run and tests.
type MemoryStore struct {
	mu   sync.Mutex
	name string
	rows [][]string

	// failAppends makes the next N AppendRow calls fail with a transient
	// store error, for retry-path tests.
	failAppends int
}

// NewMemoryStore creates a memory store seeded with the layout's header.
func NewMemoryStore(layout Layout) *MemoryStore {
	header := make([]string, len(layout.Columns))
	copy(header, layout.Columns)
	return &MemoryStore{
		name: layout.Worksheet,
		rows: [][]string{header},
	}
}

func (s *MemoryStore) Name() string { return s.name }

func (s *MemoryStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		row := make([]string, len(r))
		copy(row, r)
		out[i] = row
	}
	return out, nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppends > 0 {
		s.failAppends--
		return &types.StoreError{Op: "append", Name: s.name, Err: context.DeadlineExceeded}
	}
	stored := make([]string, len(row))
	copy(stored, row)
	s.rows = append(s.rows, stored)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Seed appends a data row directly, bypassing the gate. Test helper.
func (s *MemoryStore) Seed(row []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
}

// FailNextAppends makes the next n appends fail.
func (s *MemoryStore) FailNextAppends(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAppends = n
}

// RowCount returns the number of rows including the header.
func (s *MemoryStore) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
