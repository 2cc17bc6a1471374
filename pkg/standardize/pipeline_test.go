package standardize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// memoryRecorder captures audit operations without a database
type memoryRecorder struct {
	operations []model.CleaningOperation
}

func (m *memoryRecorder) Record(_ context.Context, ops []model.CleaningOperation) error {
	m.operations = append(m.operations, ops...)
	return nil
}

func testDataset() model.Dataset {
	athletes := athletesTable(
		[]string{"A", "GRE", "1906 Summer Olympics", "Athletics", "100m", "Gold"},
		[]string{"B", "URS", "1988 Summer Olympics", "Athletics", "100m", "Gold"},
		[]string{"C", "MIX", "1900 Summer Olympics", "Tennis", "Doubles", "Silver"},
		[]string{"D", "USA", "2020 Summer Olympics", "Swimming", "400m", "Bronze"},
		[]string{"E", "FRA", "2024 Summer Olympics", "Fencing", "Foil", ""},
	)

	hosts := model.NewTable(model.RoleHosts, []string{"edition", "host"})
	hosts.Rows = [][]string{
		{"1906 Summer Olympics", "Athens"},
		{"2020 Summer Olympics", "Tokyo"},
	}

	medals := model.NewTable(model.RoleMedals, []string{"noc", "edition", "gold", "silver", "bronze"})
	medals.Rows = [][]string{
		{"URS", "1988 Summer Olympics", "55", "31", "46"},
		{"USA", "2020 Summer Olympics", "39", "41", "33"},
	}

	programs := model.NewTable(model.RolePrograms, []string{"sport", "discipline"})
	programs.Rows = [][]string{{"Athletics", "Track"}}

	return model.Dataset{Athletes: athletes, Hosts: hosts, Medals: medals, Programs: programs}
}

func TestStandardizerRun(t *testing.T) {
	audit := &memoryRecorder{}
	s := NewStandardizer(model.DefaultRuleset(2020), zaptest.NewLogger(t)).
		WithAuditRecorder(audit)

	result, err := s.Run(context.Background(), testDataset())
	require.NoError(t, err)

	// The disallowed edition is gone from every table referencing editions
	for _, table := range result.Cleaned.Tables() {
		idx := table.ColumnIndex(model.ColEdition)
		if idx < 0 {
			continue
		}
		for _, row := range table.Rows {
			assert.NotEqual(t, "1906 Summer Olympics", row[idx])
		}
	}

	// Deprecated and sentinel codes are gone from every code column
	for _, table := range result.Cleaned.Tables() {
		codes := table.UniqueValues(model.ColCode)
		assert.NotContains(t, codes, "URS")
		assert.NotContains(t, codes, "MIX")
	}
	assert.Contains(t, result.Cleaned.Athletes.UniqueValues(model.ColCode), "RUS")
	assert.Contains(t, result.Cleaned.Medals.UniqueValues(model.ColCode), "RUS")

	// The derived year column is part of the cleaned primary table
	assert.True(t, result.Cleaned.Athletes.HasColumn(model.ColYear))

	// Active subset: of the three surviving athletes (RUS 1988, USA 2020,
	// FRA 2024) only the latter two are at or after the cutoff
	assert.Equal(t, 2, result.Active.RowCount())
	assert.Equal(t, 3, result.Summary.Subset.TotalRows)
	assert.InDelta(t, 66.7, result.Summary.Subset.RetentionPct, 0.1)

	// Validation of already-cleaned tables passes
	assert.True(t, result.Summary.Validation.Passed())

	// Summary counts
	assert.Equal(t, 1, result.Summary.PeriodRemoved[model.RoleAthletes])
	assert.Equal(t, 1, result.Summary.PeriodRemoved[model.RoleHosts])
	assert.Equal(t, 1, result.Summary.SentinelDropped[model.RoleAthletes])
	assert.Equal(t, 3, result.Summary.RowsByTable[model.RoleAthletes])
	assert.Equal(t, 1988, result.Summary.YearMin)
	assert.Equal(t, 2024, result.Summary.YearMax)
	assert.NotEmpty(t, result.Summary.RunID)
	assert.False(t, result.Summary.EndTime.IsZero())
}

func TestStandardizerRunDerivesFeatures(t *testing.T) {
	s := NewStandardizer(model.DefaultRuleset(2020), zaptest.NewLogger(t))

	result, err := s.Run(context.Background(), testDataset())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Features.Strength.RowCount()) // USA, FRA
	assert.NotZero(t, result.Features.Trends.RowCount())
	assert.NotZero(t, result.Features.SportStrength.RowCount())

	// strength table keyed uniquely per code
	seen := make(map[string]bool)
	for _, row := range result.Features.Strength.Rows {
		assert.False(t, seen[row[0]])
		seen[row[0]] = true
	}
}

func TestStandardizerRunRecordsAudit(t *testing.T) {
	audit := &memoryRecorder{}
	s := NewStandardizer(model.DefaultRuleset(2020), zaptest.NewLogger(t)).
		WithAuditRecorder(audit)

	result, err := s.Run(context.Background(), testDataset())
	require.NoError(t, err)

	byOp := make(map[string]int)
	for _, op := range audit.operations {
		assert.Equal(t, result.Summary.RunID, op.RunID)
		byOp[op.Operation]++
	}
	assert.NotZero(t, byOp[model.OpPeriodRemoved])
	assert.NotZero(t, byOp[model.OpCodeConsolidated])
	assert.NotZero(t, byOp[model.OpSentinelDropped])
	assert.NotZero(t, byOp[model.OpYearDerived])
}

func TestStandardizerRunFailsWithoutYearSource(t *testing.T) {
	ds := testDataset()
	// a primary table with neither a year column nor edition labels
	// cannot be year-filtered
	ds.Athletes = model.NewTable(model.RoleAthletes, []string{"name", "noc"})
	ds.Athletes.Rows = [][]string{{"A", "USA"}}

	s := NewStandardizer(model.DefaultRuleset(2020), zaptest.NewLogger(t))

	_, err := s.Run(context.Background(), ds)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoYearSource)

	var stageErr *PipelineError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "temporal_subsetting", stageErr.Stage)
	assert.Equal(t, FailureConfiguration, stageErr.Class)
}

func TestStandardizerRunIsRepeatable(t *testing.T) {
	s := NewStandardizer(model.DefaultRuleset(2020), zaptest.NewLogger(t))

	first, err := s.Run(context.Background(), testDataset())
	require.NoError(t, err)

	// Running the pipeline over its own output is a no-op
	second, err := s.Run(context.Background(), first.Cleaned)
	require.NoError(t, err)

	assert.Equal(t, first.Cleaned.Athletes.Rows, second.Cleaned.Athletes.Rows)
	assert.Empty(t, second.Summary.PeriodRemoved)
	assert.Empty(t, second.Summary.SentinelDropped)
	assert.True(t, second.Summary.Validation.Passed())
}
