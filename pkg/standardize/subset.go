// pkg/standardize/subset.go
package standardize

import (
	"regexp"
	"strconv"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// yearColumnCandidates are the recognized names for an existing numeric
// year column, in order of preference
var yearColumnCandidates = []string{"year", "edition_year", "games_year"}

var fourDigitToken = regexp.MustCompile(`\d{4}`)

// YearExtractor derives a year from a free-text edition label. Returns
// false when no year can be confidently resolved; an unresolved year is
// treated as missing, never guessed.
type YearExtractor func(label string) (int, bool)

// ExtractYearToken is the default extractor: the label must contain
// exactly one 4-digit token. Zero or multiple tokens are unresolved.
func ExtractYearToken(label string) (int, bool) {
	tokens := fourDigitToken.FindAllString(label, 2)
	if len(tokens) != 1 {
		return 0, false
	}
	year, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, false
	}
	return year, true
}

// SubsetStats reports how much of the table survived the cutoff filter
type SubsetStats struct {
	TotalRows    int
	ActiveRows   int
	RetentionPct float64
}

// ResolveYear locates a usable year column for the table. Preference
// order: an existing column under a recognized name; otherwise a year
// column materialized by extracting a token from the edition label. A
// table with neither cannot be year-filtered, which is fatal for the run.
// Returns the (possibly extended) table and the year column's index.
func ResolveYear(t model.Table, extract YearExtractor) (model.Table, int, error) {
	for _, name := range yearColumnCandidates {
		if idx := t.ColumnIndex(name); idx >= 0 {
			return t, idx, nil
		}
	}

	editionIdx := t.ColumnIndex(model.ColEdition)
	if editionIdx < 0 {
		return model.Table{}, -1, ErrNoYearSource
	}

	if extract == nil {
		extract = ExtractYearToken
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if year, ok := extract(row[editionIdx]); ok {
			values[i] = strconv.Itoa(year)
		}
		// unresolved labels leave the cell empty: missing, not zero
	}

	extended := t.AppendColumn(model.ColYear, values)
	return extended, len(extended.Columns) - 1, nil
}

// DeriveActiveSubset restricts the table to records whose resolved year
// is at or after the cutoff. A missing or unparseable year never
// satisfies the cutoff. The input table is not modified; the returned
// stats feed the reporting collaborator.
func DeriveActiveSubset(t model.Table, cutoff int, extract YearExtractor) (model.Table, SubsetStats, error) {
	resolved, yearIdx, err := ResolveYear(t, extract)
	if err != nil {
		return model.Table{}, SubsetStats{}, err
	}

	active := make([][]string, 0, len(resolved.Rows))
	for _, row := range resolved.Rows {
		year, ok := model.CellInt(row[yearIdx])
		if ok && year >= cutoff {
			active = append(active, row)
		}
	}

	stats := SubsetStats{
		TotalRows:  resolved.RowCount(),
		ActiveRows: len(active),
	}
	if stats.TotalRows > 0 {
		stats.RetentionPct = float64(stats.ActiveRows) / float64(stats.TotalRows) * 100
	}

	return resolved.WithRows(active), stats, nil
}
