// Package bed provides a sequential reader for BED files, tab-delimited
// text tracks of genome annotation intervals.  See
// https://genome.ucsc.edu/FAQ/FAQformat.html#format1.
//
// A Reader decodes records lazily, in file order, from a plain or
// compressed byte stream; the compression format (gzip, including BGZF,
// bzip2 or zstd) is detected from the stream's leading magic bytes, not
// from the file name.  Every record carries the same number of columns,
// resolved once at open time either from Opts.NumFields or from the first
// data line of the file, and each line is validated against that count.
//
// Only tab-delimited BED files are supported, for ease of future support
// for tabix-indexed BED file querying.
package bed

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClosed is returned by operations attempted after Reader.Close.
	ErrClosed = errors.New("bed: reader is closed")
	// ErrActiveIterator is returned by Reader.Iterate when the reader's
	// records have already been claimed by an iterator.  The underlying
	// stream is one-pass: a second iteration requires reopening the file.
	ErrActiveIterator = errors.New("bed: records are already being iterated (single-pass stream)")
)

// Opts controls the behavior of a Reader.  It is fixed at construction.
type Opts struct {
	// NumFields, when positive, fixes the expected number of columns per
	// record without inspecting the data.  When zero, the count is inferred
	// from the first data line of the file.
	NumFields int
}

// Header describes the file-wide shape of a BED stream: the number of
// columns every record must carry.  It is resolved once per Reader and
// never changes afterwards.
type Header struct {
	NumFields int
}

// validate reports a field-count mismatch between a tokenized line and the
// header.  line is the 1-based physical line number, or 0 when the tokens
// did not come from this reader's stream.
func (h Header) validate(numTokens, line int) error {
	if numTokens != h.NumFields {
		return &FormatError{
			Line:     line,
			Expected: h.NumFields,
			Actual:   numTokens,
			Msg:      fmt.Sprintf("expected %d fields, found %d", h.NumFields, numTokens),
		}
	}
	return nil
}

// FormatError describes malformed BED input: an unresolvable header, a
// field-count mismatch, or a column that fails strict decoding.
type FormatError struct {
	Line     int    // 1-based physical line number; 0 if not tied to a line
	Field    string // offending column name, if any (e.g. "chromStart")
	Expected int    // expected field count, for count mismatches
	Actual   int    // actual field count, for count mismatches
	Msg      string
	Err      error // underlying parse error, if any
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("bed")
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

// checkNumFields rejects resolved field counts no BED record can have.
func checkNumFields(n int) error {
	if n < 3 || n > 12 {
		return &FormatError{Msg: fmt.Sprintf("invalid number of fields %d (BED defines 3 to 12 columns)", n)}
	}
	return nil
}
