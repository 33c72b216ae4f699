package bed

import (
	"fmt"
	"strconv"
	"strings"
)

// Strand is the orientation column of a BED record.
type Strand byte

const (
	// StrandNone means the feature has no orientation ('.').
	StrandNone Strand = '.'
	// StrandFwd is the forward strand ('+').
	StrandFwd Strand = '+'
	// StrandRev is the reverse strand ('-').
	StrandRev Strand = '-'
)

func (s Strand) String() string {
	switch s {
	case StrandFwd:
		return "+"
	case StrandRev:
		return "-"
	default:
		return "."
	}
}

// A Record is one BED interval.  Start and End are 0-based half-open
// coordinates on Chrom.  The remaining columns are optional; a record read
// from a file with N columns leaves everything past column N at its zero
// value (Strand defaults to StrandNone).
type Record struct {
	Chrom       string
	Start       int
	End         int
	Name        string
	Score       int
	Strand      Strand
	ThickStart  int
	ThickEnd    int
	ItemRGB     string
	BlockCount  int
	BlockSizes  []int
	BlockStarts []int
}

// decode maps tokens positionally onto rec, replacing its previous
// contents.  Tokens past the twelfth standard column have already been
// rejected by field-count validation.
func decode(tokens []string, line int, rec *Record) error {
	*rec = Record{Strand: StrandNone}
	rec.Chrom = tokens[0]
	var err error
	if rec.Start, err = parseIntField(tokens[1], "chromStart", line); err != nil {
		return err
	}
	if rec.Start < 0 {
		return &FormatError{Line: line, Field: "chromStart", Msg: fmt.Sprintf("negative coordinate %d", rec.Start)}
	}
	if rec.End, err = parseIntField(tokens[2], "chromEnd", line); err != nil {
		return err
	}
	if rec.End < rec.Start {
		return &FormatError{Line: line, Field: "chromEnd", Msg: fmt.Sprintf("end %d precedes start %d", rec.End, rec.Start)}
	}
	if len(tokens) > 3 {
		rec.Name = tokens[3]
	}
	if len(tokens) > 4 {
		if rec.Score, err = parseIntField(tokens[4], "score", line); err != nil {
			return err
		}
		if rec.Score < 0 || rec.Score > 1000 {
			return &FormatError{Line: line, Field: "score", Msg: fmt.Sprintf("%d outside [0, 1000]", rec.Score)}
		}
	}
	if len(tokens) > 5 {
		switch tokens[5] {
		case "+":
			rec.Strand = StrandFwd
		case "-":
			rec.Strand = StrandRev
		case ".":
			rec.Strand = StrandNone
		default:
			return &FormatError{Line: line, Field: "strand", Msg: fmt.Sprintf("invalid strand %q", tokens[5])}
		}
	}
	if len(tokens) > 6 {
		if rec.ThickStart, err = parseIntField(tokens[6], "thickStart", line); err != nil {
			return err
		}
	}
	if len(tokens) > 7 {
		if rec.ThickEnd, err = parseIntField(tokens[7], "thickEnd", line); err != nil {
			return err
		}
	}
	if len(tokens) > 8 {
		rec.ItemRGB = tokens[8]
	}
	if len(tokens) > 9 {
		if rec.BlockCount, err = parseIntField(tokens[9], "blockCount", line); err != nil {
			return err
		}
	}
	if len(tokens) > 10 {
		if rec.BlockSizes, err = parseIntList(tokens[10], "blockSizes", line); err != nil {
			return err
		}
	}
	if len(tokens) > 11 {
		if rec.BlockStarts, err = parseIntList(tokens[11], "blockStarts", line); err != nil {
			return err
		}
	}
	return nil
}

func parseIntField(tok, field string, line int) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &FormatError{Line: line, Field: field, Msg: fmt.Sprintf("invalid integer %q", tok), Err: err}
	}
	return v, nil
}

// parseIntList decodes a comma-separated integer column (blockSizes,
// blockStarts).  The UCSC convention permits a trailing comma.
func parseIntList(tok, field string, line int) ([]int, error) {
	tok = strings.TrimSuffix(tok, ",")
	if tok == "" {
		return nil, nil
	}
	parts := strings.Split(tok, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, &FormatError{Line: line, Field: field, Msg: fmt.Sprintf("invalid integer %q", p), Err: err}
		}
		out[i] = v
	}
	return out, nil
}
