package bed

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

// maxLineBytes bounds a single BED line.  bufio.Scanner does not grow its
// buffer past this; BED12 lines with very many blocks can exceed the
// 64KiB default.
const maxLineBytes = 16 << 20

// Reader reads BED records sequentially from a single underlying stream.
// It owns the whole stream chain (raw source, optional decompressor,
// buffering) and releases it on Close.  Readers are not threadsafe.
type Reader struct {
	opts   Opts
	header Header

	ctx     context.Context
	in      file.File     // non-nil only when opened via NewFromPath
	dec     io.ReadCloser // decompression layer over the raw source
	scanner *bufio.Scanner

	lineno      int    // physical lines consumed so far
	pending     string // first data line, replayed as the first record
	pendingLine int
	hasPending  bool

	closed   bool
	iterated bool
}

// New creates a Reader over r.  The stream may be plain text or compressed
// with gzip (including BGZF), bzip2 or zstd; the compression format is
// detected from the first bytes of the stream.  The header is resolved
// before New returns: from opts.NumFields if positive, otherwise by
// counting the tab-separated columns of the first data line.  An empty
// stream with no override resolves to a zero-field header and an empty
// record sequence.
func New(r io.Reader, opts Opts) (*Reader, error) {
	dec, _ := compress.NewReader(r)
	rd := &Reader{opts: opts, dec: dec, scanner: bufio.NewScanner(dec)}
	rd.scanner.Buffer(nil, maxLineBytes)
	if err := rd.resolveHeader(); err != nil {
		_ = dec.Close()
		return nil, err
	}
	return rd, nil
}

// NewFromPath opens the BED file at path.  The returned Reader owns the
// file handle; Close releases it.
func NewFromPath(path string, opts Opts) (*Reader, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "bed: open", path)
	}
	rd, err := New(in.Reader(ctx), opts)
	if err != nil {
		_ = in.Close(ctx)
		return nil, err
	}
	rd.ctx = ctx
	rd.in = in
	log.Debug.Printf("bed: opened %s (%d fields)", path, rd.header.NumFields)
	return rd, nil
}

// resolveHeader establishes the file-wide field count, consuming (and
// remembering) the first data line when no override is configured.
func (r *Reader) resolveHeader() error {
	if n := r.opts.NumFields; n != 0 {
		if err := checkNumFields(n); err != nil {
			return err
		}
		r.header = Header{NumFields: n}
		return nil
	}
	for r.scanner.Scan() {
		r.lineno++
		line := r.scanner.Text()
		if !isData(line) {
			continue
		}
		r.pending, r.pendingLine, r.hasPending = line, r.lineno, true
		n := strings.Count(line, "\t") + 1
		if err := checkNumFields(n); err != nil {
			return err
		}
		r.header = Header{NumFields: n}
		return nil
	}
	if err := r.scanner.Err(); err != nil {
		return errors.E(err, "bed: resolving header")
	}
	return nil
}

// isData reports whether line holds a BED record.  Blank lines and
// browser/track/comment lines are permitted by the format and skipped.
func isData(line string) bool {
	return line != "" &&
		!strings.HasPrefix(line, "#") &&
		!strings.HasPrefix(line, "track") &&
		!strings.HasPrefix(line, "browser")
}

// Header returns the resolved file-wide field count.
func (r *Reader) Header() Header { return r.header }

// Opts returns the options the Reader was constructed with.
func (r *Reader) Opts() Opts { return r.opts }

// Validate reports whether a tokenized line carries exactly the number of
// fields the header declares.  On mismatch it returns a *FormatError
// naming both counts.
func (r *Reader) Validate(numTokens int) error {
	return r.header.validate(numTokens, 0)
}

// Iterate hands out the Reader's record sequence.  The underlying stream
// is a single forward-only cursor, so at most one iterator may ever
// consume it: a second call fails with ErrActiveIterator, and any call
// after Close fails with ErrClosed.
func (r *Reader) Iterate() (*Iterator, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.iterated {
		return nil, ErrActiveIterator
	}
	r.iterated = true
	return &Iterator{r: r}, nil
}

// Close releases the stream chain: the decompression layer first, then the
// underlying file when the Reader owns one.  Close is idempotent; calls
// after the first return nil.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.dec.Close()
	if r.in != nil {
		if e := r.in.Close(r.ctx); e != nil && err == nil {
			err = e
		}
	}
	if err != nil {
		return errors.E(err, "bed: close")
	}
	return nil
}

// ReadAll eagerly reads every record of the BED file at path and closes
// it.  It stops at the first malformed line.
func ReadAll(path string, opts Opts) (recs []Record, err error) {
	r, err := NewFromPath(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	it, err := r.Iterate()
	if err != nil {
		return nil, err
	}
	var rec Record
	for {
		if err := it.Read(&rec); err != nil {
			if err == io.EOF {
				return recs, nil
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
}
