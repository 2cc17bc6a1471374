// pkg/standardize/anomaly.go
package standardize

import (
	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// RemovePeriod filters out every record whose edition label matches the
// disallowed period. Comparison is exact string equality, not a pattern
// match. Returns the filtered table and the number of records removed;
// a table without an edition column, or without the period, comes back
// unchanged with a zero count.
func RemovePeriod(t model.Table, period string) (model.Table, int) {
	idx := t.ColumnIndex(model.ColEdition)
	if idx < 0 {
		return t, 0
	}

	kept := make([][]string, 0, len(t.Rows))
	removed := 0
	for _, row := range t.Rows {
		if row[idx] == period {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	if removed == 0 {
		return t, 0
	}
	return t.WithRows(kept), removed
}
