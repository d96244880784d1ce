package ingest

import (
	"bytes"
	"compress/gzip"
	"errors"
	"strings"
	"testing"

	"csvinsights/internal/profile"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "name,age,city\nAda,36,London\nAlan,41,\n\nGrace,85,Arlington\n"

func TestParsePlainCSV(t *testing.T) {
	tbl, err := Parse("people.CSV", strings.NewReader(sample), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "city"}, tbl.Headers)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, profile.Row{"name": "Alan", "age": "41", "city": ""}, tbl.Rows[1])
}

func TestParseCompressed(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	tbl, err := Parse("people.csv.gz", &gz, 0)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)

	var lz bytes.Buffer
	lw := lz4.NewWriter(&lz)
	_, err = lw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	tbl, err = Parse("people.csv.lz4", &lz, 0)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestParseRejectsNonCSV(t *testing.T) {
	_, err := Parse("people.xlsx", strings.NewReader(sample), 0)
	assert.ErrorIs(t, err, ErrNotCSV)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("empty.csv", strings.NewReader(" \n\t\n"), 0)
	assert.ErrorIs(t, err, ErrEmptyCSV)

	_, err = Parse("bom.csv", strings.NewReader("\ufeff"), 0)
	assert.ErrorIs(t, err, ErrEmptyCSV)
}

func TestParseHeaderOnlyHasNoData(t *testing.T) {
	_, err := Parse("header.csv", strings.NewReader("a,b,c\n"), 0)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseTooLarge(t *testing.T) {
	_, err := Parse("big.csv", strings.NewReader(sample), 10)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestParseFieldCountIssues(t *testing.T) {
	text := "a,b\n1,2\n3\n4,5,6\n7\n8\n9,10\n"
	_, err := Parse("bad.csv", strings.NewReader(text), 0)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Len(t, pe.Issues, 3)
	assert.Equal(t, IssueTooFewFields, pe.Issues[0].Code)
	assert.Equal(t, 3, pe.Issues[0].Line)
	assert.Equal(t, IssueTooManyFields, pe.Issues[1].Code)
	assert.Equal(t, IssueTooFewFields, pe.Issues[2].Code)
}

func TestParseQuoteError(t *testing.T) {
	_, err := Parse("quote.csv", strings.NewReader("a,b\n\"x,1\n"), 0)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, IssueInvalidQuotes, pe.Issues[0].Code)
}

func TestParseStripsBOMAndDropsEmptyHeaders(t *testing.T) {
	text := "\ufeffid,,id\n1,skip,2\n"
	tbl, err := Parse("bom.csv", strings.NewReader(text), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "id_1"}, tbl.Headers)
	assert.Equal(t, profile.Row{"id": "1", "id_1": "2"}, tbl.Rows[0])
}

func TestDedupeHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "a_1", "a_2", "b", "a_1_1"},
		DedupeHeaders([]string{"a", "a", "a", "b", "a_1"}),
	)
}

func TestDetectCompression(t *testing.T) {
	c, ok := DetectCompression("Data.CSV.GZ")
	assert.True(t, ok)
	assert.Equal(t, CompressionGzip, c)

	_, ok = DetectCompression("data.csv.zip")
	assert.False(t, ok)
}
