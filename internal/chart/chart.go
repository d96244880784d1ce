// Package chart draws PNG charts of column profiles.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"csvinsights/internal/profile"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoValues is returned for a column without any non-blank value
var ErrNoValues = errors.New("no_values")

const maxLabelLength = 24

// TopValues renders the column's most frequent values as a bar chart
func TopValues(col profile.ColumnProfile) ([]byte, error) {
	if len(col.TopValues) == 0 {
		return nil, ErrNoValues
	}

	var bars []chart.Value
	maxCount := 0
	for _, v := range col.TopValues {
		bars = append(bars, chart.Value{
			Value: float64(v.Count),
			Label: shortLabel(v.Value),
		})
		if v.Count > maxCount {
			maxCount = v.Count
		}
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s: top values", col.Name),
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 40},
		},
		Height:   512,
		Width:    1024,
		BarWidth: 80,
		Bars:     bars,
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
		},
	}
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering top values chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func shortLabel(s string) string {
	if s == "" {
		return "(empty)"
	}
	r := []rune(s)
	if len(r) <= maxLabelLength {
		return s
	}
	return string(r[:maxLabelLength-1]) + "…"
}
