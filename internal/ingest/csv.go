// Package ingest turns an uploaded CSV file into headers and row records.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"csvinsights/internal/profile"

	"github.com/dustin/go-humanize"
)

var (
	ErrNotCSV   = errors.New("not_csv")
	ErrEmptyCSV = errors.New("empty_csv")
	ErrNoData   = errors.New("no_data")
	ErrTooLarge = errors.New("too_large")
)

// maxIssues is how many parse problems are reported back to the uploader
const maxIssues = 3

// Issue codes
const (
	IssueTooFewFields  = "TooFewFields"
	IssueTooManyFields = "TooManyFields"
	IssueInvalidQuotes = "InvalidQuotes"
	IssueMalformed     = "Malformed"
)

// Issue is a single problem found while parsing
type Issue struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseError reports that the CSV text is malformed
type ParseError struct {
	Issues []Issue
}

func (e *ParseError) Error() string {
	if len(e.Issues) == 0 {
		return "parse_failed"
	}
	return fmt.Sprintf("parse_failed: line %d: %s", e.Issues[0].Line, e.Issues[0].Message)
}

// Table is a parsed CSV file
type Table struct {
	Headers []string
	Rows    []profile.Row
}

// Parse reads a CSV upload. fileName selects decompression; limit caps the
// number of bytes of CSV text (after decompression) that will be read.
func Parse(fileName string, r io.Reader, limit int64) (*Table, error) {
	compression, ok := DetectCompression(fileName)
	if !ok {
		return nil, ErrNotCSV
	}

	src, closeFn, err := decompress(r, compression)
	if err != nil {
		return nil, &ParseError{Issues: []Issue{{Code: IssueMalformed, Message: err.Error()}}}
	}
	defer closeFn()

	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &ParseError{Issues: []Issue{{Code: IssueMalformed, Message: err.Error()}}}
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: file exceeds %s", ErrTooLarge, humanize.IBytes(uint64(limit)))
	}

	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyCSV
	}
	return parseText(text)
}

func parseText(text string) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, &ParseError{Issues: []Issue{readIssue(err)}}
	}

	// Columns with an empty name are dropped together with their cells.
	var headers []string
	var index []int
	for i, h := range header {
		if h == "" {
			continue
		}
		headers = append(headers, h)
		index = append(index, i)
	}
	headers = DedupeHeaders(headers)

	var rows []profile.Row
	var issues []Issue
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			issues = append(issues, readIssue(err))
			break
		}

		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			code, msg := IssueTooFewFields, "too few fields"
			if len(rec) > len(header) {
				code, msg = IssueTooManyFields, "too many fields"
			}
			issues = append(issues, Issue{
				Line:    line,
				Code:    code,
				Message: fmt.Sprintf("%s: expected %d, parsed %d", msg, len(header), len(rec)),
			})
			continue
		}

		row := make(profile.Row, len(headers))
		for j, h := range headers {
			row[h] = rec[index[j]]
		}
		rows = append(rows, row)
	}

	if len(issues) > 0 {
		if len(issues) > maxIssues {
			issues = issues[:maxIssues]
		}
		return nil, &ParseError{Issues: issues}
	}
	if len(headers) == 0 || len(rows) == 0 {
		return nil, ErrNoData
	}
	return &Table{Headers: headers, Rows: rows}, nil
}

func readIssue(err error) Issue {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		code := IssueMalformed
		if errors.Is(pe.Err, csv.ErrQuote) || errors.Is(pe.Err, csv.ErrBareQuote) {
			code = IssueInvalidQuotes
		}
		return Issue{Line: pe.Line, Code: code, Message: pe.Err.Error()}
	}
	return Issue{Code: IssueMalformed, Message: err.Error()}
}

// DedupeHeaders suffixes repeated header names with _1, _2, ...
func DedupeHeaders(headers []string) []string {
	seen := make(map[string]struct{}, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		name := h
		for n := 1; ; n++ {
			if _, dup := seen[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", h, n)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out
}
