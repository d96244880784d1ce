package ingest

import (
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/pierrec/lz4"
)

// Compression of an uploaded file, derived from its name
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionLZ4  Compression = "lz4"
)

var extensions = []struct {
	suffix      string
	compression Compression
}{
	{".csv", CompressionNone},
	{".csv.gz", CompressionGzip},
	{".csv.gzip", CompressionGzip},
	{".csv.lz4", CompressionLZ4},
}

// DetectCompression checks the file name against the accepted CSV
// extensions. ok is false for anything that is not a CSV upload.
func DetectCompression(fileName string) (Compression, bool) {
	name := strings.ToLower(strings.TrimSpace(fileName))
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext.suffix) {
			return ext.compression, true
		}
	}
	return CompressionNone, false
}

// decompress wraps r so that reads yield the plain CSV text
func decompress(r io.Reader, c Compression) (io.Reader, func() error, error) {
	noop := func() error { return nil }
	switch c {
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("open gzip stream: %w", err)
		}
		return gr, gr.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), noop, nil
	default:
		return r, noop, nil
	}
}
