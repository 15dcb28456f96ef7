package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrDuplicate        = errors.New("duplicate record")
	ErrEmptyKey         = errors.New("empty natural key")
	ErrStoreUnavailable = errors.New("tabular store unavailable")
	ErrExhausted        = errors.New("all locator strategies exhausted")
	ErrNoLogin          = errors.New("saved login state not found")
)

// UIError wraps a failure to locate or interact with a page element.
// A UIError skips the current unit; it never aborts the run.
type UIError struct {
	Unit     string
	Selector string
	Err      error
}

func (e *UIError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("ui error for unit %s (selector=%q): %v", e.Unit, e.Selector, e.Err)
	}
	return fmt.Sprintf("ui error for unit %s: %v", e.Unit, e.Err)
}

func (e *UIError) Unwrap() error { return e.Err }

// ExtractionError wraps a text-extraction service failure. The caller
// falls back to the deterministic pattern extractor.
type ExtractionError struct {
	Unit string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for unit %s: %v", e.Unit, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// StoreError wraps a tabular store failure. Connection-level failures are
// fatal for the whole run; a single append failure is fatal only for the
// current record after one retry.
type StoreError struct {
	Op   string // "open", "read", "append"
	Name string // worksheet / table name
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s %s): %v", e.Op, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
