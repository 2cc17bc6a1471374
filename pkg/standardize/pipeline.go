// pkg/standardize/pipeline.go
package standardize

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// AuditRecorder persists cleaning operations for later inspection.
// Recording failures are reported as warnings and never fail a run.
type AuditRecorder interface {
	Record(ctx context.Context, operations []model.CleaningOperation) error
}

// Standardizer orchestrates the cleaning stages over a loaded dataset in
// fixed order: anomaly removal, code consolidation, temporal subsetting,
// validation, feature derivation. Each stage's invariant depends on the
// prior stage having completed, so the order is not configurable.
type Standardizer struct {
	rules   model.Ruleset
	extract YearExtractor
	audit   AuditRecorder
	logger  *zap.Logger
}

// NewStandardizer creates a new Standardizer for the given rules
func NewStandardizer(rules model.Ruleset, logger *zap.Logger) *Standardizer {
	return &Standardizer{
		rules:   rules,
		extract: ExtractYearToken,
		logger:  logger,
	}
}

// WithAuditRecorder attaches an audit trail and returns the modified
// standardizer
func (s *Standardizer) WithAuditRecorder(audit AuditRecorder) *Standardizer {
	s.audit = audit
	return s
}

// WithYearExtractor overrides the year extraction strategy and returns
// the modified standardizer
func (s *Standardizer) WithYearExtractor(extract YearExtractor) *Standardizer {
	s.extract = extract
	return s
}

// FeatureTables holds the three derived feature tables
type FeatureTables struct {
	Strength      model.Table
	Trends        model.Table
	SportStrength model.Table
}

// Result is the terminal output of a standardization run
type Result struct {
	Cleaned  model.Dataset
	Active   model.Table
	Features FeatureTables
	Summary  *RunSummary
}

// RunSummary reports what a standardization run did, for the human
// reading the logs and for the persistence collaborator
type RunSummary struct {
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
	PeriodRemoved   map[string]int // table role -> records removed
	SentinelDropped map[string]int // table role -> records dropped
	RowsByTable     map[string]int // table role -> records after cleaning
	Subset          SubsetStats
	Validation      Report

	// Dataset shape after cleaning
	YearMin      int
	YearMax      int
	EditionCount int
	CountryCount int
}

// newRunSummary initializes a summary for a new run
func newRunSummary() *RunSummary {
	return &RunSummary{
		RunID:           uuid.New().String(),
		StartTime:       time.Now(),
		PeriodRemoved:   make(map[string]int),
		SentinelDropped: make(map[string]int),
		RowsByTable:     make(map[string]int),
	}
}

// Complete marks the run as finished and calculates its duration
func (r *RunSummary) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// Run executes the full standardization pipeline over the dataset.
// Tables are treated as values; each stage produces new tables and the
// cleaned dataset replaces the input. Only structural failures (no year
// source) abort the run; validation findings are reported, not fatal.
func (s *Standardizer) Run(ctx context.Context, ds model.Dataset) (*Result, error) {
	summary := newRunSummary()
	operations := make([]model.CleaningOperation, 0)

	s.logger.Info("Starting standardization run",
		zap.String("runID", summary.RunID),
		zap.Int("cutoffYear", s.rules.CutoffYear))

	// Stage 1: anomaly removal
	ds = s.removeDisallowedPeriod(ds, summary, &operations)

	// Stage 2: code consolidation
	ds = s.consolidateCodes(ds, summary, &operations)

	// Stage 3: temporal subsetting. Year resolution happens on the
	// primary table first so the derived year column is part of the
	// cleaned output, as well as of the subset.
	resolved, _, err := ResolveYear(ds.Athletes, s.extract)
	if err != nil {
		return nil, newStageError("temporal_subsetting", FailureConfiguration, err)
	}
	if len(resolved.Columns) > len(ds.Athletes.Columns) {
		operations = append(operations, model.CleaningOperation{
			RunID:        summary.RunID,
			TableRole:    resolved.Role,
			ColumnName:   model.ColYear,
			NewValue:     model.ColYear,
			Operation:    model.OpYearDerived,
			Reason:       "year_extracted_from_edition_label",
			RowsAffected: resolved.RowCount(),
		})
		s.logger.Info("Derived year column from edition labels",
			zap.String("table", resolved.Role))
	}
	ds.Athletes = resolved

	active, stats, err := DeriveActiveSubset(ds.Athletes, s.rules.CutoffYear, s.extract)
	if err != nil {
		return nil, newStageError("temporal_subsetting", FailureConfiguration, err)
	}
	summary.Subset = stats
	s.logger.Info("Derived active subset",
		zap.Int("totalRows", stats.TotalRows),
		zap.Int("activeRows", stats.ActiveRows),
		zap.Float64("retentionPct", stats.RetentionPct))

	// Stage 4: validation (read-only, never fatal)
	validator, err := NewValidator(s.logger)
	if err != nil {
		return nil, newStageError("validation", FailureConfiguration, err)
	}
	summary.Validation = validator.WithYearExtractor(s.extract).Validate(ds.Tables(), s.rules)

	// Stage 5: feature derivation. The three derivations are pure and
	// share no mutable state, so they run concurrently.
	var features FeatureTables
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		features.Strength = BuildStrengthTable(active)
		return nil
	})
	g.Go(func() error {
		features.Trends = BuildTrendTable(ds.Athletes, s.extract)
		return nil
	})
	g.Go(func() error {
		features.SportStrength = BuildCategoryStrengthTable(active)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, newStageError("feature_derivation", FailureConfiguration, err)
	}

	for _, t := range ds.Tables() {
		summary.RowsByTable[t.Role] = t.RowCount()
	}
	s.summarizeDataset(ds.Athletes, summary)

	if s.audit != nil {
		if err := s.audit.Record(ctx, operations); err != nil {
			s.logger.Warn("Failed to record cleaning operations", zap.Error(err))
		}
	}

	summary.Complete()
	s.logger.Info("Standardization run completed",
		zap.String("runID", summary.RunID),
		zap.Bool("validationPassed", summary.Validation.Passed()),
		zap.Duration("duration", summary.Duration))

	return &Result{
		Cleaned:  ds,
		Active:   active,
		Features: features,
		Summary:  summary,
	}, nil
}

// removeDisallowedPeriod applies the anomaly filter to every table that
// references editions
func (s *Standardizer) removeDisallowedPeriod(
	ds model.Dataset,
	summary *RunSummary,
	operations *[]model.CleaningOperation,
) model.Dataset {
	tables := []*model.Table{&ds.Athletes, &ds.Hosts, &ds.Medals, &ds.Programs}

	for _, t := range tables {
		cleaned, removed := RemovePeriod(*t, s.rules.DisallowedPeriod)
		if removed == 0 {
			continue
		}

		summary.PeriodRemoved[t.Role] = removed
		*operations = append(*operations, model.CleaningOperation{
			RunID:         summary.RunID,
			TableRole:     t.Role,
			ColumnName:    model.ColEdition,
			OriginalValue: s.rules.DisallowedPeriod,
			Operation:     model.OpPeriodRemoved,
			Reason:        "edition_not_recognized",
			RowsAffected:  removed,
		})
		s.logger.Info("Removed disallowed edition records",
			zap.String("table", t.Role),
			zap.String("edition", s.rules.DisallowedPeriod),
			zap.Int("removed", removed))
		*t = cleaned
	}

	return ds
}

// consolidateCodes applies the code mapping and sentinel drop to every
// table that carries country codes
func (s *Standardizer) consolidateCodes(
	ds model.Dataset,
	summary *RunSummary,
	operations *[]model.CleaningOperation,
) model.Dataset {
	tables := []*model.Table{&ds.Athletes, &ds.Hosts, &ds.Medals, &ds.Programs}

	for _, t := range tables {
		if !t.HasColumn(model.ColCode) {
			continue
		}

		// Per-code remap counts, taken before substitution for the audit
		remapped := countValues(*t, model.ColCode, s.rules.CodeMapping)

		cleaned, dropped := ConsolidateCodes(*t, s.rules.CodeMapping, s.rules.SentinelCode)

		for from, count := range remapped {
			if count == 0 {
				continue
			}
			*operations = append(*operations, model.CleaningOperation{
				RunID:         summary.RunID,
				TableRole:     t.Role,
				ColumnName:    model.ColCode,
				OriginalValue: from,
				NewValue:      s.rules.CodeMapping[from],
				Operation:     model.OpCodeConsolidated,
				Reason:        "deprecated_code_merged",
				RowsAffected:  count,
			})
		}
		if dropped > 0 {
			summary.SentinelDropped[t.Role] = dropped
			*operations = append(*operations, model.CleaningOperation{
				RunID:         summary.RunID,
				TableRole:     t.Role,
				ColumnName:    model.ColCode,
				OriginalValue: s.rules.SentinelCode,
				Operation:     model.OpSentinelDropped,
				Reason:        "sentinel_code_dropped",
				RowsAffected:  dropped,
			})
		}

		s.logger.Info("Consolidated country codes",
			zap.String("table", t.Role),
			zap.Int("codesRemapped", len(remapped)),
			zap.Int("sentinelDropped", dropped))
		*t = cleaned
	}

	return ds
}

// summarizeDataset fills the post-cleaning shape fields from the primary
// table
func (s *Standardizer) summarizeDataset(athletes model.Table, summary *RunSummary) {
	summary.CountryCount = len(athletes.UniqueValues(model.ColCode))
	summary.EditionCount = len(athletes.UniqueValues(model.ColEdition))

	yearIdx := athletes.ColumnIndex(model.ColYear)
	if yearIdx < 0 {
		return
	}
	for _, row := range athletes.Rows {
		year, ok := model.CellInt(row[yearIdx])
		if !ok {
			continue
		}
		if summary.YearMin == 0 || year < summary.YearMin {
			summary.YearMin = year
		}
		if year > summary.YearMax {
			summary.YearMax = year
		}
	}
}

// countValues counts how many records carry each of the given keys in a
// column. Missing column yields an empty map.
func countValues(t model.Table, column string, keys map[string]string) map[string]int {
	counts := make(map[string]int)
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return counts
	}

	for _, row := range t.Rows {
		if _, ok := keys[row[idx]]; ok {
			counts[row[idx]]++
		}
	}
	return counts
}
