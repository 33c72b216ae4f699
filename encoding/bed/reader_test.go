package bed

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const bed6 = `browser position chr7:127471196-127495720
track name="test track" description="reader test"
# leading comment
chr7	127471196	127472363	Pos1	0	+
chr7	127472363	127473530	Pos2	0	+

chr7	127473530	127474697	Neg1	0	-
`

func TestHeaderInference(t *testing.T) {
	r, err := New(strings.NewReader(bed6), Opts{})
	assert.NoError(t, err)
	defer r.Close() // nolint: errcheck
	expect.EQ(t, r.Header().NumFields, 6)
	expect.EQ(t, r.Opts().NumFields, 0)

	// The peeked line must still come out as the first record.
	it, err := r.Iterate()
	assert.NoError(t, err)
	var rec Record
	assert.NoError(t, it.Read(&rec))
	expect.EQ(t, rec.Name, "Pos1")
	expect.EQ(t, rec.Start, 127471196)
	var n int
	for it.Read(&rec) == nil {
		n++
	}
	expect.EQ(t, n, 2)
}

func TestHeaderOverride(t *testing.T) {
	r, err := New(strings.NewReader("chr1\t10\t20\n"), Opts{NumFields: 3})
	assert.NoError(t, err)
	defer r.Close() // nolint: errcheck
	expect.EQ(t, r.Header().NumFields, 3)
	expect.EQ(t, r.Opts().NumFields, 3)

	for _, n := range []int{1, 2, 13, -1} {
		_, err := New(strings.NewReader("chr1\t10\t20\n"), Opts{NumFields: n})
		if err == nil {
			t.Errorf("NumFields=%d: expected error", n)
			continue
		}
		if _, ok := err.(*FormatError); !ok {
			t.Errorf("NumFields=%d: got %T, want *FormatError", n, err)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, in := range []string{"", "# only a comment\n", "track name=x\n\n"} {
		r, err := New(strings.NewReader(in), Opts{})
		assert.NoError(t, err)
		expect.EQ(t, r.Header().NumFields, 0)
		it, err := r.Iterate()
		assert.NoError(t, err)
		var rec Record
		if got := it.Read(&rec); got != io.EOF {
			t.Errorf("%q: got %v, want io.EOF", in, got)
		}
		assert.NoError(t, r.Close())
	}
}

func TestValidate(t *testing.T) {
	r, err := New(strings.NewReader("chr1\t10\t20\n"), Opts{})
	assert.NoError(t, err)
	defer r.Close() // nolint: errcheck
	expect.NoError(t, r.Validate(3))
	for _, n := range []int{0, 2, 4} {
		err := r.Validate(n)
		ferr, ok := err.(*FormatError)
		if !ok {
			t.Fatalf("Validate(%d): got %T, want *FormatError", n, err)
		}
		expect.EQ(t, ferr.Expected, 3)
		expect.EQ(t, ferr.Actual, n)
	}

	// A zero-field header accepts only zero tokens.
	empty, err := New(strings.NewReader(""), Opts{})
	assert.NoError(t, err)
	defer empty.Close() // nolint: errcheck
	expect.NoError(t, empty.Validate(0))
	if empty.Validate(3) == nil {
		t.Error("Validate(3) on a zero-field header: expected error")
	}
}

func TestCloseIdempotent(t *testing.T) {
	r, err := New(strings.NewReader(bed6), Opts{})
	assert.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestIterateState(t *testing.T) {
	r, err := New(strings.NewReader(bed6), Opts{})
	assert.NoError(t, err)
	it, err := r.Iterate()
	assert.NoError(t, err)

	if _, err = r.Iterate(); err != ErrActiveIterator {
		t.Errorf("second Iterate: got %v, want ErrActiveIterator", err)
	}

	// Draining the iterator does not make the one-pass stream reusable.
	var rec Record
	for it.Read(&rec) == nil {
	}
	if _, err = r.Iterate(); err != ErrActiveIterator {
		t.Errorf("Iterate after exhaustion: got %v, want ErrActiveIterator", err)
	}

	assert.NoError(t, r.Close())
	if _, err = r.Iterate(); err != ErrClosed {
		t.Errorf("Iterate after Close: got %v, want ErrClosed", err)
	}
	if got := it.Read(&rec); got != ErrClosed {
		t.Errorf("Read after Close: got %v, want ErrClosed", got)
	}
}

func TestNewFromPath(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	const content = "chr1\t0\t100\nchr1\t100\t250\nchr2\t30\t75\n"
	plainPath := filepath.Join(tempDir, "plain.bed")
	assert.NoError(t, ioutil.WriteFile(plainPath, []byte(content), 0644))
	plain, err := ReadAll(plainPath, Opts{})
	assert.NoError(t, err)
	expect.EQ(t, len(plain), 3)
	expect.EQ(t, plain[2], Record{Chrom: "chr2", Start: 30, End: 75, Strand: StrandNone})

	// Compression is detected from magic bytes; deliberately no .gz suffix.
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	gzPath := filepath.Join(tempDir, "compressed.bed")
	assert.NoError(t, ioutil.WriteFile(gzPath, buf.Bytes(), 0644))
	compressed, err := ReadAll(gzPath, Opts{})
	assert.NoError(t, err)
	expect.EQ(t, compressed, plain)
}

func TestNewFromPathNotExist(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := NewFromPath(filepath.Join(tempDir, "missing.bed"), Opts{})
	if err == nil {
		t.Error("expected error opening a nonexistent path")
	}
}
