// Package insights renders the markdown report shown for every upload.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"csvinsights/internal/profile"

	"github.com/jedib0t/go-pretty/v6/table"
)

// highlightCount is how many columns each "stand out" list shows
const highlightCount = 3

// Totals are the counts of the whole uploaded file, which may exceed the
// profiled sample
type Totals struct {
	RowCount    int
	ColumnCount int
}

// Heuristic builds the deterministic markdown report for a profile
func Heuristic(p profile.DatasetProfile, totals Totals) string {
	lines := []string{
		"# CSV Insights Report",
		"",
		"## Quick summary",
		fmt.Sprintf("- Rows: **%d**", totals.RowCount),
		fmt.Sprintf("- Columns: **%d**", totals.ColumnCount),
		"",
	}

	if len(p.Columns) > 0 {
		lines = append(lines, "## Column overview", ColumnTable(p), "")
	}

	lines = append(lines, "## Things that stand out")

	if worst := WorstMissing(p, highlightCount); len(worst) > 0 {
		lines = append(lines, "### Missing data to review")
		for _, c := range worst {
			lines = append(lines, fmt.Sprintf("- **%s** missing %.1f%%", c.Name, c.MissingRate*100))
		}
		lines = append(lines, "")
	}

	if outliers := MostOutliers(p, highlightCount); len(outliers) > 0 {
		lines = append(lines, "### Possible outliers (numeric)")
		for _, c := range outliers {
			lines = append(lines, fmt.Sprintf("- **%s** outliers ~ %d", c.Name, *c.Stats.OutlierCount))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"## What to check next",
		"- Verify column types (numbers stored as strings?)",
		"- Check duplicates / unique ID columns",
		"- Validate ranges (negative values, unrealistic spikes)",
		"",
	)
	return strings.Join(lines, "\n")
}

// WorstMissing returns up to n columns ordered by missing rate, highest
// first. Ties keep header order.
func WorstMissing(p profile.DatasetProfile, n int) []profile.ColumnProfile {
	cols := append([]profile.ColumnProfile{}, p.Columns...)
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].MissingRate > cols[j].MissingRate
	})
	if len(cols) > n {
		cols = cols[:n]
	}
	return cols
}

// MostOutliers returns up to n numeric columns with a known outlier count,
// highest first
func MostOutliers(p profile.DatasetProfile, n int) []profile.ColumnProfile {
	var cols []profile.ColumnProfile
	for _, c := range p.Columns {
		if c.Type == profile.TypeNumber && c.Stats != nil && c.Stats.OutlierCount != nil {
			cols = append(cols, c)
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return *cols[i].Stats.OutlierCount > *cols[j].Stats.OutlierCount
	})
	if len(cols) > n {
		cols = cols[:n]
	}
	return cols
}

// ColumnTable renders one markdown row per column
func ColumnTable(p profile.DatasetProfile) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Missing", "Distinct", "Top value"})
	for _, c := range p.Columns {
		top := "-"
		if len(c.TopValues) > 0 {
			top = fmt.Sprintf("%s (%d)", shorten(c.TopValues[0].Value, 40), c.TopValues[0].Count)
		}
		t.AppendRow(table.Row{
			c.Name,
			string(c.Type),
			fmt.Sprintf("%.1f%%", c.MissingRate*100),
			c.DistinctApprox,
			top,
		})
	}
	return t.RenderMarkdown()
}

func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
