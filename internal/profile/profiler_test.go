package profile

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsOf(col string, values ...any) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{col: v}
	}
	return rows
}

func TestProfileNumericColumnWithOutlier(t *testing.T) {
	p := Profile([]string{"age"}, rowsOf("age", "10", "20", "30", "40", "1000"))

	require.Len(t, p.Columns, 1)
	col := p.Columns[0]
	assert.Equal(t, TypeNumber, col.Type)
	require.NotNil(t, col.Stats)

	st := col.Stats
	assert.Equal(t, 10.0, st.Min)
	assert.Equal(t, 1000.0, st.Max)
	assert.Equal(t, 220.0, st.Mean)
	assert.Equal(t, 20.0, *st.Q1)
	assert.Equal(t, 30.0, *st.Median)
	assert.Equal(t, 40.0, *st.Q3)
	assert.Equal(t, 20.0, *st.IQR)
	assert.Equal(t, Bounds{Lower: -10, Upper: 70}, *st.OutlierBounds)
	assert.Equal(t, 1, *st.OutlierCount)
}

func TestProfileAllBlankColumn(t *testing.T) {
	rows := []Row{{"name": ""}, {"name": "   "}, {"name": nil}, {}}
	p := Profile([]string{"name"}, rows)

	col := p.Columns[0]
	assert.Equal(t, len(rows), col.Missing)
	assert.Equal(t, 1.0, col.MissingRate)
	assert.Equal(t, TypeString, col.Type)
	assert.Empty(t, col.TopValues)
	assert.NotNil(t, col.TopValues)
	assert.Equal(t, 0, col.DistinctApprox)
	assert.Nil(t, col.Stats)
}

func TestProfileSingleNumericValueIsNotNumber(t *testing.T) {
	p := Profile([]string{"x"}, rowsOf("x", "42", "", ""))

	col := p.Columns[0]
	assert.Equal(t, TypeString, col.Type)
	assert.Nil(t, col.Stats)
	assert.Equal(t, 2, col.Missing)
	assert.InDelta(t, 2.0/3.0, col.MissingRate, 1e-12)
}

func TestProfileTypeInferenceThreshold(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   ColumnType
	}{
		{"eighty percent of ten", []any{"1", "2", "3", "4", "5", "6", "7", "8", "a", "b"}, TypeNumber},
		{"seventy percent of ten", []any{"1", "2", "3", "4", "5", "6", "7", "a", "b", "c"}, TypeString},
		{"sixty percent of five", []any{"1", "2", "3", "a", "b"}, TypeString},
		{"four of five is below the floor", []any{"1", "2", "3", "4", "a"}, TypeString},
		{"five of five", []any{"1", "2", "3", "4", "5"}, TypeNumber},
		{"blanks do not count", []any{"1", "2", "3", "4", "5", "", " ", nil}, TypeNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile([]string{"c"}, rowsOf("c", tt.values...))
			assert.Equal(t, tt.want, p.Columns[0].Type)
			assert.Equal(t, tt.want == TypeNumber, p.Columns[0].Stats != nil)
		})
	}
}

func TestProfileTopValuesTieBreak(t *testing.T) {
	p := Profile([]string{"c"}, rowsOf("c", "beta", "alpha", "alpha", "beta", "gamma", "gamma", "gamma"))

	assert.Equal(t, []ValueCount{
		{Value: "gamma", Count: 3},
		{Value: "beta", Count: 2},
		{Value: "alpha", Count: 2},
	}, p.Columns[0].TopValues)
}

func TestProfileTopValuesKeepsFive(t *testing.T) {
	var values []any
	for i := 0; i < 8; i++ {
		for j := 0; j <= i; j++ {
			values = append(values, fmt.Sprintf("v%d", i))
		}
	}
	p := Profile([]string{"c"}, rowsOf("c", values...))

	top := p.Columns[0].TopValues
	require.Len(t, top, TopK)
	assert.Equal(t, ValueCount{Value: "v7", Count: 8}, top[0])
	assert.Equal(t, ValueCount{Value: "v3", Count: 4}, top[4])
	assert.Equal(t, 8, p.Columns[0].DistinctApprox)
}

func TestProfileTruncatesLongKeys(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'é'
	}
	p := Profile([]string{"c"}, rowsOf("c", string(long), string(long)+"x"))

	col := p.Columns[0]
	require.Len(t, col.TopValues, 1)
	assert.Equal(t, 2, col.TopValues[0].Count)
	assert.Equal(t, MaxKeyLength, len([]rune(col.TopValues[0].Value)))
	// distinct counting uses the full value
	assert.Equal(t, 2, col.DistinctApprox)
}

func TestProfileValueWindow(t *testing.T) {
	n := ValueWindow + 500
	values := make([]any, n)
	for i := range values {
		values[i] = strconv.Itoa(i)
	}
	p := Profile([]string{"id"}, rowsOf("id", values...))

	col := p.Columns[0]
	assert.Equal(t, ValueWindow, col.DistinctApprox)
	assert.Equal(t, TypeNumber, col.Type)
	require.NotNil(t, col.Stats)
	assert.Equal(t, float64(n-1), col.Stats.Max)
	assert.Equal(t, "0", col.TopValues[0].Value)
}

func TestProfileTypedScalars(t *testing.T) {
	rows := []Row{{"v": 1}, {"v": int64(2)}, {"v": 3.5}, {"v": float32(4)}, {"v": uint8(5)}, {"v": 0}}
	p := Profile([]string{"v"}, rows)

	col := p.Columns[0]
	assert.Equal(t, 0, col.Missing, "zero is not blank")
	assert.Equal(t, TypeNumber, col.Type)
	assert.Equal(t, 0.0, col.Stats.Min)
	assert.Equal(t, 5.0, col.Stats.Max)
	assert.Contains(t, col.TopValues, ValueCount{Value: "3.5", Count: 1})
}

func TestProfileThousandsSeparators(t *testing.T) {
	p := Profile([]string{"amount"}, rowsOf("amount", "1,000", " 2,500 ", "3,000.5", "4000", "5,000,000"))

	col := p.Columns[0]
	require.Equal(t, TypeNumber, col.Type)
	assert.Equal(t, 1000.0, col.Stats.Min)
	assert.Equal(t, 5000000.0, col.Stats.Max)
}

func TestProfileMissingKeysAndNilRows(t *testing.T) {
	rows := []Row{{"a": "1"}, nil, {"b": "x"}}
	p := Profile([]string{"a", "b"}, rows)

	assert.Equal(t, 2, p.Columns[0].Missing)
	assert.Equal(t, 2, p.Columns[1].Missing)
	assert.Equal(t, 3, p.RowCount)
}

func TestProfileEmptyInputs(t *testing.T) {
	p := Profile(nil, []Row{{"a": "1"}, {"a": "2"}})
	assert.Equal(t, 2, p.RowCount)
	assert.Equal(t, 0, p.ColumnCount)
	assert.Empty(t, p.Columns)

	p = Profile([]string{"a", "b"}, nil)
	assert.Equal(t, 0, p.RowCount)
	require.Len(t, p.Columns, 2)
	for _, c := range p.Columns {
		assert.Equal(t, 1.0, c.MissingRate)
		assert.Equal(t, TypeString, c.Type)
	}
	assert.Equal(t, SchemaVersion, p.SchemaVersion)
}

func TestProfileDoesNotMutateInput(t *testing.T) {
	headers := []string{"b", "a"}
	rows := rowsOf("a", "3", "1", "2", "5", "4")
	p := Profile(headers, rows)

	assert.Equal(t, []string{"b", "a"}, headers)
	assert.Equal(t, "3", rows[0]["a"])
	assert.Equal(t, []string{"b", "a"}, p.Headers)
	assert.Equal(t, "b", p.Columns[0].Name)
	assert.Equal(t, "a", p.Columns[1].Name)
}

func TestProfileIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	headers := []string{"n", "cat", "mixed"}
	rows := make([]Row, 300)
	for i := range rows {
		rows[i] = Row{
			"n":     strconv.Itoa(rng.Intn(50)),
			"cat":   []string{"red", "green", "blue", ""}[rng.Intn(4)],
			"mixed": []any{"x", 3, "4.5", nil}[rng.Intn(4)],
		}
	}

	first, err := json.Marshal(Profile(headers, rows))
	require.NoError(t, err)
	second, err := json.Marshal(Profile(headers, rows))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestProfileInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 50; iter++ {
		nRows := rng.Intn(40)
		nCols := rng.Intn(5)
		headers := make([]string, nCols)
		for c := range headers {
			headers[c] = fmt.Sprintf("c%d", c)
		}
		rows := make([]Row, nRows)
		for r := range rows {
			rows[r] = Row{}
			for _, h := range headers {
				switch rng.Intn(5) {
				case 0:
					rows[r][h] = ""
				case 1:
					rows[r][h] = "word"
				default:
					rows[r][h] = strconv.FormatFloat(rng.NormFloat64()*100, 'f', 2, 64)
				}
			}
		}

		p := Profile(headers, rows)
		require.Len(t, p.Columns, len(headers))
		assert.Equal(t, nRows, p.RowCount)
		for i, c := range p.Columns {
			assert.Equal(t, headers[i], c.Name)
			assert.GreaterOrEqual(t, c.MissingRate, 0.0)
			assert.LessOrEqual(t, c.MissingRate, 1.0)
			if nRows == 0 {
				assert.Equal(t, 1.0, c.MissingRate)
			}
			if c.Stats == nil {
				continue
			}
			st := c.Stats
			assert.LessOrEqual(t, st.Min, *st.Q1)
			assert.LessOrEqual(t, *st.Q1, *st.Median)
			assert.LessOrEqual(t, *st.Median, *st.Q3)
			assert.LessOrEqual(t, *st.Q3, st.Max)
		}
	}
}

func TestColumnLookup(t *testing.T) {
	p := Profile([]string{"a", "b"}, nil)
	c, ok := p.Column("b")
	require.True(t, ok)
	assert.Equal(t, "b", c.Name)

	_, ok = p.Column("z")
	assert.False(t, ok)
}
