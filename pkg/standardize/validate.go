// pkg/standardize/validate.go
package standardize

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// importantColumns are checked for null rates in every table carrying them
var importantColumns = []string{model.ColCode, model.ColMedal, model.ColSport}

// CheckResult is the outcome of a single validation check
type CheckResult struct {
	Name       string
	Passed     bool
	Violations int
	Details    []string
}

// NullRate reports null statistics for one column of one table
type NullRate struct {
	TableRole string
	Column    string
	NullCount int
	TotalRows int
	Pct       float64
}

// Report is the structured result of a validation pass. Failed checks
// are findings for a human, not errors: validation never gates the
// pipeline.
type Report struct {
	PeriodCheck  CheckResult
	CodeCheck    CheckResult
	GapYearCheck CheckResult
	NullRates    []NullRate
}

// Passed reports whether every check passed
func (r Report) Passed() bool {
	return r.PeriodCheck.Passed && r.CodeCheck.Passed && r.GapYearCheck.Passed
}

// Validator re-scans standardized tables to confirm the cleaning stages
// were applied correctly and to surface data-quality regressions
type Validator struct {
	logger  *zap.Logger
	extract YearExtractor
}

// NewValidator creates a new Validator instance
func NewValidator(logger *zap.Logger) (*Validator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Validator{logger: logger, extract: ExtractYearToken}, nil
}

// WithYearExtractor overrides the year extraction strategy used by the
// gap-year check and returns the modified validator
func (v *Validator) WithYearExtractor(extract YearExtractor) *Validator {
	v.extract = extract
	return v
}

// Validate runs every check over the given tables. All checks run even
// when one fails; the report carries per-check results and raw counts.
func (v *Validator) Validate(tables []model.Table, rules model.Ruleset) Report {
	report := Report{
		PeriodCheck:  v.checkPeriod(tables, rules.DisallowedPeriod),
		CodeCheck:    v.checkCodes(tables, rules),
		GapYearCheck: v.checkGapYears(tables, rules),
		NullRates:    v.nullRates(tables),
	}

	for _, check := range []CheckResult{report.PeriodCheck, report.CodeCheck, report.GapYearCheck} {
		if check.Passed {
			v.logger.Info("Validation check passed", zap.String("check", check.Name))
		} else {
			v.logger.Warn("Validation check failed",
				zap.String("check", check.Name),
				zap.Int("violations", check.Violations),
				zap.Strings("details", check.Details))
		}
	}

	return report
}

// checkPeriod confirms the disallowed edition is absent from every table
// that references editions
func (v *Validator) checkPeriod(tables []model.Table, period string) CheckResult {
	result := CheckResult{Name: "disallowed_period", Passed: true}

	for _, t := range tables {
		idx := t.ColumnIndex(model.ColEdition)
		if idx < 0 {
			continue
		}

		count := 0
		for _, row := range t.Rows {
			if row[idx] == period {
				count++
			}
		}
		if count > 0 {
			result.Passed = false
			result.Violations += count
			result.Details = append(result.Details,
				fmt.Sprintf("%s: %d records from %q", t.Role, count, period))
		}
	}

	return result
}

// checkCodes confirms neither the sentinel nor any deprecated mapping
// key survives in a code column
func (v *Validator) checkCodes(tables []model.Table, rules model.Ruleset) CheckResult {
	result := CheckResult{Name: "banned_codes", Passed: true}
	banned := rules.BannedCodes()

	for _, t := range tables {
		idx := t.ColumnIndex(model.ColCode)
		if idx < 0 {
			continue
		}

		counts := make(map[string]int)
		for _, row := range t.Rows {
			for _, code := range banned {
				if row[idx] == code {
					counts[code]++
				}
			}
		}
		for _, code := range banned {
			if counts[code] > 0 {
				result.Passed = false
				result.Violations += counts[code]
				result.Details = append(result.Details,
					fmt.Sprintf("%s: code %s still present in %d records", t.Role, code, counts[code]))
			}
		}
	}

	return result
}

// checkGapYears confirms the expected gap years stay missing from every
// table whose year can be resolved
func (v *Validator) checkGapYears(tables []model.Table, rules model.Ruleset) CheckResult {
	result := CheckResult{Name: "expected_gap_years", Passed: true}

	for _, t := range tables {
		resolved, yearIdx, err := ResolveYear(t, v.extract)
		if err != nil {
			// A table with no year source simply has nothing to check
			continue
		}

		counts := make(map[int]int)
		for _, row := range resolved.Rows {
			year, ok := model.CellInt(row[yearIdx])
			if ok && rules.IsGapYear(year) {
				counts[year]++
			}
		}
		for _, gap := range rules.ExpectedGapYears {
			if counts[gap] > 0 {
				result.Passed = false
				result.Violations += counts[gap]
				result.Details = append(result.Details,
					fmt.Sprintf("%s: %d records in gap year %d", t.Role, counts[gap], gap))
			}
		}
	}

	return result
}

// nullRates computes null statistics for the important columns
func (v *Validator) nullRates(tables []model.Table) []NullRate {
	rates := make([]NullRate, 0)

	for _, t := range tables {
		for _, col := range importantColumns {
			idx := t.ColumnIndex(col)
			if idx < 0 {
				continue
			}

			nulls := 0
			for _, row := range t.Rows {
				if model.IsNull(row[idx]) {
					nulls++
				}
			}

			rate := NullRate{
				TableRole: t.Role,
				Column:    col,
				NullCount: nulls,
				TotalRows: t.RowCount(),
			}
			if rate.TotalRows > 0 {
				rate.Pct = float64(nulls) / float64(rate.TotalRows) * 100
			}
			rates = append(rates, rate)

			v.logger.Debug("Null rate computed",
				zap.String("table", t.Role),
				zap.String("column", col),
				zap.Int("nulls", nulls),
				zap.Float64("pct", rate.Pct))
		}
	}

	return rates
}
