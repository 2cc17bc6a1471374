package standardize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

func TestExtractYearToken(t *testing.T) {
	tests := []struct {
		label  string
		want   int
		wantOK bool
	}{
		{"1996 Summer Games", 1996, true},
		{"2020 Summer Olympics", 2020, true},
		{"Summer Olympics", 0, false},       // no token
		{"1956 Games (1957 events)", 0, false}, // ambiguous: two tokens
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ExtractYearToken(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveYearExistingColumn(t *testing.T) {
	table := model.NewTable(model.RoleAthletes, []string{"noc", "year"})
	table.Rows = [][]string{{"USA", "2016"}}

	resolved, idx, err := ResolveYear(table, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, table.Columns, resolved.Columns)
}

func TestResolveYearFromEditionLabel(t *testing.T) {
	table := model.NewTable(model.RoleAthletes, []string{"noc", "edition"})
	table.Rows = [][]string{
		{"USA", "1996 Summer Games"},
		{"FRA", "unknown edition"},
	}

	resolved, idx, err := ResolveYear(table, nil)
	require.NoError(t, err)
	assert.Equal(t, "year", resolved.Columns[idx])
	assert.Equal(t, "1996", resolved.Rows[0][idx])
	assert.Equal(t, "", resolved.Rows[1][idx]) // unresolved stays missing
}

func TestResolveYearNoSource(t *testing.T) {
	table := model.NewTable(model.RolePrograms, []string{"sport"})
	table.Rows = [][]string{{"Athletics"}}

	_, _, err := ResolveYear(table, nil)
	assert.ErrorIs(t, err, ErrNoYearSource)
}

func TestDeriveActiveSubset(t *testing.T) {
	table := model.NewTable(model.RoleAthletes, []string{"noc", "year"})
	table.Rows = [][]string{
		{"USA", "2016"},
		{"FRA", "2020"},
		{"GER", "2024"},
		{"ITA", ""}, // missing year never satisfies the cutoff
	}

	active, stats, err := DeriveActiveSubset(table, 2020, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, active.RowCount())
	assert.Equal(t, "FRA", active.Rows[0][0])
	assert.Equal(t, "GER", active.Rows[1][0])

	assert.Equal(t, 4, stats.TotalRows)
	assert.Equal(t, 2, stats.ActiveRows)
	assert.InDelta(t, 50.0, stats.RetentionPct, 0.001)
}

func TestDeriveActiveSubsetUnparseableYears(t *testing.T) {
	table := model.NewTable(model.RoleAthletes, []string{"noc", "year"})
	table.Rows = [][]string{
		{"USA", "n/a"},
		{"FRA", "2022"},
	}

	active, stats, err := DeriveActiveSubset(table, 2020, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, active.RowCount())
	assert.Equal(t, 2, stats.TotalRows)
}

func TestDeriveActiveSubsetCustomExtractor(t *testing.T) {
	table := model.NewTable(model.RoleAthletes, []string{"noc", "edition"})
	table.Rows = [][]string{
		{"USA", "games-xxx"},
		{"FRA", "games-xxi"},
	}

	// extraction strategy is pluggable; this one understands roman labels
	roman := func(label string) (int, bool) {
		if label == "games-xxi" {
			return 2021, true
		}
		return 0, false
	}

	active, _, err := DeriveActiveSubset(table, 2020, roman)
	require.NoError(t, err)
	assert.Equal(t, 1, active.RowCount())
	assert.Equal(t, "FRA", active.Rows[0][0])
}
