// Package relation loads delimited text into an in-memory table with
// the parse provenance (encoding, BOM, delimiter, lenient mode) that
// later validation phases report on.
package relation

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/opendq/opendq/pkg/detect"
)

// Relation is a parsed tabular file. The first record is always taken
// as the header row; whether it actually is one is a validation
// concern, not a parsing one.
type Relation struct {
	Source    string
	Header    []string
	Rows      [][]string
	Delimiter rune
	Encoding  string
	HadBOM    bool
	CRLF      bool

	// Lenient is set when the strict parse failed and the file was
	// re-read with relaxed quoting and ragged rows allowed. Once set
	// it holds for every query against the relation.
	Lenient bool

	// Truncated is set when row retention stopped at Options.MaxRows.
	Truncated bool
}

// Options configures loading.
type Options struct {
	// MaxRows caps retained data rows. Zero keeps everything.
	MaxRows int
	// Delimiter overrides autodetection when non-zero.
	Delimiter rune
}

// ParseError wraps a CSV parse failure that survived the lenient retry.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s as delimited text: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads and parses a file from disk.
func Load(path string, opts Options) (*Relation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path, opts)
}

// Parse builds a relation from raw bytes. Non-UTF-8 input is transcoded
// so downstream checks operate on valid text; the original encoding
// label is preserved for reporting.
func Parse(data []byte, source string, opts Options) (*Relation, error) {
	rel := &Relation{Source: source}

	if detect.HasUTF8BOM(data) {
		rel.HadBOM = true
		data = data[3:]
	}

	enc, _ := detect.DetectEncoding(data)
	rel.Encoding = enc
	if !detect.IsUTF8Compatible(enc) {
		decoded, err := transcode(data, enc)
		if err != nil {
			return nil, &ParseError{Source: source, Err: err}
		}
		data = decoded
	}

	sample := data
	if len(sample) > detect.DefaultSampleSize {
		sample = sample[:detect.DefaultSampleSize]
	}
	rel.CRLF = detect.HasCRLF(sample)

	rel.Delimiter = opts.Delimiter
	if rel.Delimiter == 0 {
		rel.Delimiter = detect.DetectDelimiter(sample)
	}

	records, truncated, err := readRecords(data, rel.Delimiter, false, opts.MaxRows)
	if err != nil {
		records, truncated, err = readRecords(data, rel.Delimiter, true, opts.MaxRows)
		if err != nil {
			return nil, &ParseError{Source: source, Err: err}
		}
		rel.Lenient = true
	}
	rel.Truncated = truncated

	if len(records) > 0 {
		rel.Header = records[0]
		rel.Rows = records[1:]
	}
	return rel, nil
}

func readRecords(data []byte, delim rune, lenient bool, maxRows int) ([][]string, bool, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	if lenient {
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
	}

	var records [][]string
	for {
		if maxRows > 0 && len(records) > maxRows {
			return records, true, nil
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		records = append(records, rec)
	}
}

func transcode(data []byte, label string) ([]byte, error) {
	var dec *encoding.Decoder
	switch label {
	case "utf-16le":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "utf-16be":
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case "iso-8859-1":
		dec = charmap.ISO8859_1.NewDecoder()
	case "iso-8859-15":
		dec = charmap.ISO8859_15.NewDecoder()
	case "windows-1251":
		dec = charmap.Windows1251.NewDecoder()
	default:
		// Windows-1252 decodes every byte value, so it doubles as the
		// fallback for unrecognized single-byte encodings.
		dec = charmap.Windows1252.NewDecoder()
	}
	return io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
}

// NumRows returns the count of data rows (header excluded).
func (r *Relation) NumRows() int { return len(r.Rows) }

// NumCols returns the header width.
func (r *Relation) NumCols() int { return len(r.Header) }

// Cell returns the value at a row/column position, or "" when a ragged
// row is shorter than the header.
func (r *Relation) Cell(row, col int) string {
	if row < 0 || row >= len(r.Rows) || col < 0 {
		return ""
	}
	rec := r.Rows[row]
	if col >= len(rec) {
		return ""
	}
	return rec[col]
}

// Column materializes one column across all rows.
func (r *Relation) Column(col int) []string {
	out := make([]string, len(r.Rows))
	for i := range r.Rows {
		out[i] = r.Cell(i, col)
	}
	return out
}

// ColumnIndex finds a header by exact name, or -1.
func (r *Relation) ColumnIndex(name string) int {
	for i, h := range r.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Head returns up to n leading data rows.
func (r *Relation) Head(n int) [][]string {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return r.Rows[:n]
}

// Tail returns up to n trailing data rows.
func (r *Relation) Tail(n int) [][]string {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return r.Rows[len(r.Rows)-n:]
}
