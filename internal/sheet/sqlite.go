package sheet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// SQLiteStore mirrors one worksheet into a local SQLite table so scraped
// data can be queried offline. One table per layout, columns stored as
// text in worksheet order.
type SQLiteStore struct {
	db     *sql.DB
	table  string
	layout Layout
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the mirror table for a layout.
func NewSQLiteStore(path string, layout Layout, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &types.StoreError{Op: "open", Name: layout.Worksheet, Err: err}
	}

	s := &SQLiteStore{
		db:     db,
		table:  tableName(layout.Worksheet),
		layout: layout,
		logger: logger.With("component", "sqlite_store", "table", tableName(layout.Worksheet)),
	}

	cols := make([]string, len(layout.Columns))
	for i, c := range layout.Columns {
		cols[i] = fmt.Sprintf("%q TEXT", c)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", s.table, strings.Join(cols, ", "))
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, &types.StoreError{Op: "open", Name: layout.Worksheet, Err: err}
	}

	return s, nil
}

func (s *SQLiteStore) Name() string { return s.layout.Worksheet }

func (s *SQLiteStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	quoted := make([]string, len(s.layout.Columns))
	for i, c := range s.layout.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}

	query := fmt.Sprintf("SELECT %s FROM %q ORDER BY rowid", strings.Join(quoted, ", "), s.table)
	dbRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &types.StoreError{Op: "read", Name: s.layout.Worksheet, Err: err}
	}
	defer dbRows.Close()

	header := make([]string, len(s.layout.Columns))
	copy(header, s.layout.Columns)
	rows := [][]string{header}

	for dbRows.Next() {
		cells := make([]sql.NullString, len(s.layout.Columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := dbRows.Scan(dest...); err != nil {
			return nil, &types.StoreError{Op: "read", Name: s.layout.Worksheet, Err: err}
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, &types.StoreError{Op: "read", Name: s.layout.Worksheet, Err: err}
	}
	return rows, nil
}

func (s *SQLiteStore) AppendRow(ctx context.Context, row []string) error {
	if len(row) > len(s.layout.Columns) {
		row = row[:len(s.layout.Columns)]
	}

	quoted := make([]string, len(s.layout.Columns))
	marks := make([]string, len(s.layout.Columns))
	args := make([]any, len(s.layout.Columns))
	for i, c := range s.layout.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
		marks[i] = "?"
		if i < len(row) {
			args[i] = row[i]
		} else {
			args[i] = ""
		}
	}

	stmt := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		s.table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return &types.StoreError{Op: "append", Name: s.layout.Worksheet, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// tableName converts a worksheet title into a SQL-friendly table name.
func tableName(worksheet string) string {
	name := strings.ToLower(worksheet)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return strings.Trim(name, "_")
}
