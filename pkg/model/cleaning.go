// pkg/model/cleaning.go
package model

import (
	"time"
)

// Cleaning operation types recorded to the audit trail
const (
	OpPeriodRemoved    = "period_removed"
	OpCodeConsolidated = "code_consolidated"
	OpSentinelDropped  = "sentinel_dropped"
	OpYearDerived      = "year_derived"
)

// CleaningOperation represents one cleaning action applied to a table
// during a standardization run. Operations are aggregated per table and
// per rewritten code rather than per data row.
type CleaningOperation struct {
	RunID         string    // standardization run this belongs to
	TableRole     string    // which dataset table was touched
	ColumnName    string    // column that was cleaned
	OriginalValue string    // value before cleaning (may be empty)
	NewValue      string    // value after cleaning (empty for drops)
	Operation     string    // one of the Op* constants
	Reason        string    // why the cleaning was applied
	RowsAffected  int       // how many records the operation touched
	CleanedAt     time.Time // when the cleaning occurred
}
