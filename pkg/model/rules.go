// pkg/model/rules.go
package model

import (
	"fmt"
)

// Ruleset carries the cleaning rules applied by the standardization
// pipeline. It is injected into each stage rather than hidden in package
// constants so alternate rule sets can be substituted in tests.
type Ruleset struct {
	// CodeMapping rewrites deprecated country codes to their canonical
	// successor. Many-to-one, applied in a single pass: a mapping target
	// must never itself be a mapping key.
	CodeMapping map[string]string

	// SentinelCode marks records that are dropped entirely, never remapped
	SentinelCode string

	// DisallowedPeriod is the edition label whose records are removed
	// from every table that references editions
	DisallowedPeriod string

	// ExpectedGapYears must not appear in any year column after cleaning
	ExpectedGapYears []int

	// CutoffYear is the lower bound (inclusive) for the active subset
	CutoffYear int
}

// NewRuleset validates the single-pass substitution assumptions at
// construction time: no mapping chains, and no mapping onto the sentinel.
// A violation is a configuration error, not something to silently
// mis-clean data over.
func NewRuleset(
	mapping map[string]string,
	sentinel string,
	disallowedPeriod string,
	gapYears []int,
	cutoffYear int,
) (Ruleset, error) {
	for from, to := range mapping {
		if _, chained := mapping[to]; chained {
			return Ruleset{}, fmt.Errorf(
				"code mapping %s -> %s chains through another mapping key", from, to)
		}
		if to == sentinel {
			return Ruleset{}, fmt.Errorf(
				"code mapping %s -> %s targets the sentinel code", from, to)
		}
	}

	if cutoffYear <= 0 {
		return Ruleset{}, fmt.Errorf("cutoff year must be positive, got %d", cutoffYear)
	}

	return Ruleset{
		CodeMapping:      mapping,
		SentinelCode:     sentinel,
		DisallowedPeriod: disallowedPeriod,
		ExpectedGapYears: gapYears,
		CutoffYear:       cutoffYear,
	}, nil
}

// IsGapYear reports whether a year belongs to the expected gaps
func (r Ruleset) IsGapYear(year int) bool {
	for _, gap := range r.ExpectedGapYears {
		if gap == year {
			return true
		}
	}
	return false
}

// BannedCodes returns the sentinel plus every mapping key: the codes that
// must be absent from cleaned data
func (r Ruleset) BannedCodes() []string {
	codes := make([]string, 0, len(r.CodeMapping)+1)
	codes = append(codes, r.SentinelCode)
	for from := range r.CodeMapping {
		codes = append(codes, from)
	}
	return codes
}

// DefaultRuleset returns the historical rule constants: Soviet Union and
// the 1992 Unified Team merge into Russia, East and West Germany merge
// into Germany, Mixed Team entries are dropped, the unrecognized 1906
// Intercalated Games are removed, and the WWII cancellations stay gaps.
func DefaultRuleset(cutoffYear int) Ruleset {
	rules, err := NewRuleset(
		map[string]string{
			"URS": "RUS",
			"EUN": "RUS",
			"GDR": "GER",
			"FRG": "GER",
		},
		"MIX",
		"1906 Summer Olympics",
		[]int{1940, 1944},
		cutoffYear,
	)
	if err != nil {
		// The defaults are chain-free and sentinel-free by inspection
		panic(err)
	}
	return rules
}
