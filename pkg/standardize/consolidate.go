// pkg/standardize/consolidate.go
package standardize

import (
	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// ConsolidateCodes rewrites deprecated country codes to their canonical
// successor and then drops every record carrying the sentinel code.
// Substitution runs before the sentinel drop so a drop can never be
// bypassed by a remap; NewRuleset guarantees no mapping targets the
// sentinel or chains through another key. The mapping is applied in a
// single pass, never recursively.
//
// Returns the cleaned table and the number of sentinel records dropped.
// A table without a code column is a no-op: the optional tables are not
// worth failing the pipeline over.
func ConsolidateCodes(t model.Table, mapping map[string]string, sentinel string) (model.Table, int) {
	idx := t.ColumnIndex(model.ColCode)
	if idx < 0 {
		return t, 0
	}

	kept := make([][]string, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		code := row[idx]
		if canonical, ok := mapping[code]; ok {
			rewritten := make([]string, len(row))
			copy(rewritten, row)
			rewritten[idx] = canonical
			row = rewritten
			code = canonical
		}

		if code == sentinel {
			dropped++
			continue
		}
		kept = append(kept, row)
	}

	return t.WithRows(kept), dropped
}
