package bed

import (
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

// An Iterator produces the records of a Reader one at a time, in file
// order.  It is a non-owning view over the Reader's stream: closing the
// Reader invalidates the Iterator, and the Iterator's lifetime is bounded
// by the Reader's.
type Iterator struct {
	r         *Reader
	exhausted bool
}

// Read decodes the next record into rec.  It returns io.EOF once the end
// of the stream is reached; io.EOF is sticky.  A malformed line yields a
// *FormatError and leaves the stream positioned just after that line, so
// the caller may keep calling Read to resume with the following record.
// After the Reader is closed, Read returns ErrClosed.
func (it *Iterator) Read(rec *Record) error {
	r := it.r
	if r.closed {
		return ErrClosed
	}
	if it.exhausted {
		return io.EOF
	}
	var line string
	var lineno int
	if r.hasPending {
		line, lineno = r.pending, r.pendingLine
		r.hasPending = false
		r.pending = ""
	} else {
		for {
			if !r.scanner.Scan() {
				if err := r.scanner.Err(); err != nil {
					return errors.E(err, "bed: read")
				}
				it.exhausted = true
				return io.EOF
			}
			r.lineno++
			if isData(r.scanner.Text()) {
				line, lineno = r.scanner.Text(), r.lineno
				break
			}
		}
	}
	tokens := strings.Split(line, "\t")
	if err := r.header.validate(len(tokens), lineno); err != nil {
		return err
	}
	return decode(tokens, lineno, rec)
}
