package types

import (
	"sort"
	"strings"
	"time"
)

// Platform identifies the partner dashboard a record came from.
type Platform string

const (
	PlatformSwiggy Platform = "Swiggy"
	PlatformZomato Platform = "Zomato"
)

// Category identifies the shape of a scraped record and the worksheet
// it is destined for.
type Category string

const (
	CategoryMetric        Category = "metric"
	CategoryComplaint     Category = "complaint"
	CategoryReview        Category = "review"
	CategoryOrderTimeline Category = "order_timeline"
)

// Record is a single scraped unit of work: one outlet x one reporting
// date, one complaint, or one review. Fields maps column name to the raw
// extracted string; normalization happens at append time.
type Record struct {
	Category Category
	Platform Platform

	// Unit identifies the logical unit this record came from (an outlet
	// ID, a complaint index) for log context. Not persisted.
	Unit string

	Fields map[string]string

	ScrapedAt time.Time
}

// NewRecord creates an empty record for the given category and platform.
func NewRecord(cat Category, p Platform, unit string) *Record {
	return &Record{
		Category:  cat,
		Platform:  p,
		Unit:      unit,
		Fields:    make(map[string]string),
		ScrapedAt: time.Now(),
	}
}

// Set sets a raw field value.
func (r *Record) Set(column, value string) {
	r.Fields[column] = value
}

// Get returns a raw field value, or "" if absent.
func (r *Record) Get(column string) string {
	return r.Fields[column]
}

// Has reports whether the column has a non-empty value.
func (r *Record) Has(column string) bool {
	return strings.TrimSpace(r.Fields[column]) != ""
}

// Canonical returns a stable single-string representation of the record,
// used as the whole-record hash fallback when every natural key field is
// empty. Columns are sorted so map iteration order cannot change the hash.
func (r *Record) Canonical() string {
	cols := make([]string, 0, len(r.Fields))
	for c := range r.Fields {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString(string(r.Category))
	b.WriteByte('|')
	b.WriteString(string(r.Platform))
	for _, c := range cols {
		b.WriteByte('|')
		b.WriteString(c)
		b.WriteByte('=')
		b.WriteString(r.Fields[c])
	}
	return b.String()
}
