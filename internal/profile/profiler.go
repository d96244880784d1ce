// Package profile computes per-column descriptive statistics over a bounded
// sample of CSV rows.
package profile

import (
	"math"
	"sort"
)

const (
	// TopK is the number of most frequent values kept per column
	TopK = 5
	// ValueWindow caps the non-blank values used for top values and
	// distinct counts. Missing rate, type and numeric stats use every value.
	ValueWindow = 5000
	// MaxKeyLength truncates values used as frequency keys
	MaxKeyLength = 200

	minNumericValues = 5
	numericShare     = 0.8
	outlierFactor    = 1.5
)

// Profile computes the dataset profile for the given headers and rows.
// It never fails: empty inputs produce degenerate but valid results.
func Profile(headers []string, rows []Row) DatasetProfile {
	p := DatasetProfile{
		SchemaVersion: SchemaVersion,
		RowCount:      len(rows),
		ColumnCount:   len(headers),
		Headers:       append([]string{}, headers...),
		Columns:       make([]ColumnProfile, 0, len(headers)),
	}
	for _, h := range headers {
		p.Columns = append(p.Columns, profileColumn(h, rows))
	}
	return p
}

func profileColumn(name string, rows []Row) ColumnProfile {
	missing := 0
	nonMissing := make([]any, 0, len(rows))
	for _, r := range rows {
		var v any
		if r != nil {
			v = r[name]
		}
		if IsBlank(v) {
			missing++
			continue
		}
		nonMissing = append(nonMissing, v)
	}

	nums := make([]float64, 0, len(nonMissing))
	for _, v := range nonMissing {
		if n, ok := ToNumber(v); ok {
			nums = append(nums, n)
		}
	}

	window := nonMissing
	if len(window) > ValueWindow {
		window = window[:ValueWindow]
	}

	col := ColumnProfile{
		Name:           name,
		Type:           TypeString,
		Missing:        missing,
		MissingRate:    1,
		DistinctApprox: distinctCount(window),
		TopValues:      topValues(window),
	}
	if len(rows) > 0 {
		col.MissingRate = float64(missing) / float64(len(rows))
	}

	threshold := math.Max(minNumericValues, numericShare*float64(len(nonMissing)))
	if float64(len(nums)) >= threshold {
		col.Type = TypeNumber
		col.Stats = numericStats(nums)
	}
	return col
}

func topValues(window []any) []ValueCount {
	counts := make(map[string]int)
	var order []string
	for _, v := range window {
		key := truncate(Stringify(v), MaxKeyLength)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > TopK {
		order = order[:TopK]
	}

	out := make([]ValueCount, 0, len(order))
	for _, k := range order {
		out = append(out, ValueCount{Value: k, Count: counts[k]})
	}
	return out
}

func distinctCount(window []any) int {
	seen := make(map[string]struct{}, len(window))
	for _, v := range window {
		seen[Stringify(v)] = struct{}{}
	}
	return len(seen)
}

func numericStats(nums []float64) *NumericStats {
	sorted := append([]float64{}, nums...)
	sort.Float64s(sorted)

	st := &NumericStats{Mean: Mean(nums)}
	if len(sorted) > 0 {
		st.Min = sorted[0]
		st.Max = sorted[len(sorted)-1]
	}

	st.Q1 = quantilePtr(sorted, 0.25)
	st.Median = quantilePtr(sorted, 0.5)
	st.Q3 = quantilePtr(sorted, 0.75)
	if st.Q1 == nil || st.Q3 == nil {
		return st
	}

	iqr := *st.Q3 - *st.Q1
	st.IQR = &iqr
	st.OutlierBounds = &Bounds{
		Lower: *st.Q1 - outlierFactor*iqr,
		Upper: *st.Q3 + outlierFactor*iqr,
	}

	outliers := 0
	for _, x := range nums {
		if x < st.OutlierBounds.Lower || x > st.OutlierBounds.Upper {
			outliers++
		}
	}
	st.OutlierCount = &outliers
	return st
}

func quantilePtr(sorted []float64, q float64) *float64 {
	v, ok := Quantile(sorted, q)
	if !ok {
		return nil
	}
	return &v
}
