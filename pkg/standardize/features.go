// pkg/standardize/features.go
package standardize

import (
	"strconv"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// Derived feature table roles
const (
	RoleCountryFeatures = "country_features"
	RoleMedalTrends     = "medal_trends"
	RoleSportStrength   = "sport_strength"
)

// Medal tier values as they appear in the dataset
const (
	MedalGold   = "Gold"
	MedalSilver = "Silver"
	MedalBronze = "Bronze"
)

// Weighted score factors per tier, used for ranking country strength
const (
	goldWeight   = 3
	silverWeight = 2
	bronzeWeight = 1
)

// BuildStrengthTable derives per-country strength features from the
// active subset: athlete count, sport and event diversity, and (when the
// medal column is present) per-tier medal counts plus a weighted score.
// The result is keyed uniquely by country code, in first-appearance
// order. Without a code column there is nothing to group by and an
// omitted (empty) table is returned.
func BuildStrengthTable(active model.Table) model.Table {
	codeIdx := active.ColumnIndex(model.ColCode)
	if codeIdx < 0 {
		return model.Table{Role: RoleCountryFeatures}
	}

	sportIdx := active.ColumnIndex(model.ColSport)
	eventIdx := active.ColumnIndex(model.ColEvent)
	medalIdx := active.ColumnIndex(model.ColMedal)

	type strength struct {
		athletes int
		sports   map[string]struct{}
		events   map[string]struct{}
		gold     int
		silver   int
		bronze   int
		total    int
	}

	order := make([]string, 0)
	byCode := make(map[string]*strength)

	for _, row := range active.Rows {
		code := row[codeIdx]
		if model.IsNull(code) {
			continue
		}

		s, ok := byCode[code]
		if !ok {
			s = &strength{
				sports: make(map[string]struct{}),
				events: make(map[string]struct{}),
			}
			byCode[code] = s
			order = append(order, code)
		}

		s.athletes++
		if sportIdx >= 0 && !model.IsNull(row[sportIdx]) {
			s.sports[row[sportIdx]] = struct{}{}
		}
		if eventIdx >= 0 && !model.IsNull(row[eventIdx]) {
			s.events[row[eventIdx]] = struct{}{}
		}
		if medalIdx >= 0 && !model.IsNull(row[medalIdx]) {
			s.total++
			switch row[medalIdx] {
			case MedalGold:
				s.gold++
			case MedalSilver:
				s.silver++
			case MedalBronze:
				s.bronze++
			}
		}
	}

	columns := []string{model.ColCode, "athlete_count", "unique_sports", "unique_events"}
	if medalIdx >= 0 {
		columns = append(columns,
			"gold_count", "silver_count", "bronze_count", "total_medals", "weighted_score")
	}

	out := model.NewTable(RoleCountryFeatures, columns)
	for _, code := range order {
		s := byCode[code]
		row := []string{
			code,
			strconv.Itoa(s.athletes),
			strconv.Itoa(len(s.sports)),
			strconv.Itoa(len(s.events)),
		}
		if medalIdx >= 0 {
			weighted := s.gold*goldWeight + s.silver*silverWeight + s.bronze*bronzeWeight
			row = append(row,
				strconv.Itoa(s.gold),
				strconv.Itoa(s.silver),
				strconv.Itoa(s.bronze),
				strconv.Itoa(s.total),
				strconv.Itoa(weighted))
		}
		out.Rows = append(out.Rows, row)
	}

	return out
}

// BuildTrendTable derives the historical medal trend: one record per
// observed (year, country, medal tier) combination over rows with a
// non-null medal, with its count. Absent combinations are not
// zero-filled. If the medal column is missing or no year can be
// resolved, the table is omitted.
func BuildTrendTable(cleaned model.Table, extract YearExtractor) model.Table {
	codeIdx := cleaned.ColumnIndex(model.ColCode)
	medalIdx := cleaned.ColumnIndex(model.ColMedal)
	if codeIdx < 0 || medalIdx < 0 {
		return model.Table{Role: RoleMedalTrends}
	}

	resolved, yearIdx, err := ResolveYear(cleaned, extract)
	if err != nil {
		return model.Table{Role: RoleMedalTrends}
	}

	type key struct {
		year  int
		code  string
		medal string
	}

	order := make([]key, 0)
	counts := make(map[key]int)

	for _, row := range resolved.Rows {
		if model.IsNull(row[medalIdx]) {
			continue
		}
		year, ok := model.CellInt(row[yearIdx])
		if !ok {
			continue
		}

		k := key{year: year, code: row[codeIdx], medal: row[medalIdx]}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	out := model.NewTable(RoleMedalTrends, []string{model.ColYear, model.ColCode, model.ColMedal, "count"})
	for _, k := range order {
		out.Rows = append(out.Rows, []string{
			strconv.Itoa(k.year),
			k.code,
			k.medal,
			strconv.Itoa(counts[k]),
		})
	}

	return out
}

// BuildCategoryStrengthTable derives per-(country, sport) strength from
// the active subset: medal count and athlete count per group. The medal
// column is optional; without it the medal count field is omitted.
func BuildCategoryStrengthTable(active model.Table) model.Table {
	codeIdx := active.ColumnIndex(model.ColCode)
	sportIdx := active.ColumnIndex(model.ColSport)
	if codeIdx < 0 || sportIdx < 0 {
		return model.Table{Role: RoleSportStrength}
	}

	medalIdx := active.ColumnIndex(model.ColMedal)

	type key struct {
		code  string
		sport string
	}
	type group struct {
		medals   int
		athletes int
	}

	order := make([]key, 0)
	byGroup := make(map[key]*group)

	for _, row := range active.Rows {
		k := key{code: row[codeIdx], sport: row[sportIdx]}
		g, ok := byGroup[k]
		if !ok {
			g = &group{}
			byGroup[k] = g
			order = append(order, k)
		}

		g.athletes++
		if medalIdx >= 0 && !model.IsNull(row[medalIdx]) {
			g.medals++
		}
	}

	columns := []string{model.ColCode, model.ColSport}
	if medalIdx >= 0 {
		columns = append(columns, "medals")
	}
	columns = append(columns, "athletes")

	out := model.NewTable(RoleSportStrength, columns)
	for _, k := range order {
		g := byGroup[k]
		row := []string{k.code, k.sport}
		if medalIdx >= 0 {
			row = append(row, strconv.Itoa(g.medals))
		}
		row = append(row, strconv.Itoa(g.athletes))
		out.Rows = append(out.Rows, row)
	}

	return out
}
