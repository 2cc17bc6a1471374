// pkg/model/table.go
package model

import (
	"strings"

	"github.com/spf13/cast"
)

// Table roles for the four dataset files
const (
	RoleAthletes = "athletes"
	RoleHosts    = "hosts"
	RoleMedals   = "medals"
	RolePrograms = "programs"
)

// Column names used across the dataset files. Not every table carries
// every column; lookups are case-insensitive.
const (
	ColCode    = "noc"     // competing national unit code
	ColEdition = "edition" // human-readable edition label, e.g. "1996 Summer Olympics"
	ColYear    = "year"
	ColMedal   = "medal" // Gold, Silver, Bronze or empty
	ColSport   = "sport"
	ColEvent   = "event"
)

// Table is an ordered collection of rows sharing a header. Cells are raw
// strings as loaded from the file; an empty (or all-whitespace) cell is a
// null. Pipeline stages treat tables as values and return new ones rather
// than mutating in place.
type Table struct {
	Role    string     // which dataset file this table came from
	Columns []string   // header row
	Rows    [][]string // one slice per record, len == len(Columns)
}

// NewTable creates an empty table with the given role and header
func NewTable(role string, columns []string) Table {
	return Table{
		Role:    role,
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// WithRows returns a copy of the table metadata holding the given rows.
// The header slice is shared; rows are the caller's.
func (t Table) WithRows(rows [][]string) Table {
	return Table{
		Role:    t.Role,
		Columns: t.Columns,
		Rows:    rows,
	}
}

// ColumnIndex returns the index of a column by name (case-insensitive,
// surrounding whitespace ignored). Returns -1 if the column is absent.
func (t Table) ColumnIndex(name string) int {
	normalized := normalizeColumnName(name)
	for i, col := range t.Columns {
		if normalizeColumnName(col) == normalized {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// RowCount returns the number of records in the table
func (t Table) RowCount() int {
	return len(t.Rows)
}

// AppendColumn returns a new table with an extra column appended to every
// row. len(values) must equal the row count.
func (t Table) AppendColumn(name string, values []string) Table {
	columns := make([]string, 0, len(t.Columns)+1)
	columns = append(columns, t.Columns...)
	columns = append(columns, name)

	rows := make([][]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		extended := make([]string, 0, len(row)+1)
		extended = append(extended, row...)
		extended = append(extended, values[i])
		rows = append(rows, extended)
	}

	return Table{Role: t.Role, Columns: columns, Rows: rows}
}

// UniqueValues returns the distinct non-null values of a column in
// first-appearance order. Returns nil if the column is absent.
func (t Table) UniqueValues(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, row := range t.Rows {
		cell := row[idx]
		if IsNull(cell) {
			continue
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		values = append(values, cell)
	}
	return values
}

// IsNull reports whether a cell holds no value
func IsNull(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// CellInt parses a cell as an integer. Handles plain integers as well as
// float-formatted values like "1996.0". Returns false for nulls and
// anything unparseable; a failed parse is "missing", never zero.
func CellInt(cell string) (int, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false
	}

	if n, err := cast.ToIntE(trimmed); err == nil {
		return n, true
	}

	f, err := cast.ToFloat64E(trimmed)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// normalizeColumnName lowercases and trims a header cell for comparison
func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Dataset bundles the four loaded tables that make up one run's input
type Dataset struct {
	Athletes Table
	Hosts    Table
	Medals   Table
	Programs Table
}

// Tables returns the dataset's tables in loading order
func (d Dataset) Tables() []Table {
	return []Table{d.Athletes, d.Hosts, d.Medals, d.Programs}
}
