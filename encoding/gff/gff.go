// Package gff parses NCBI genomic GFF files of splign cDNA-to-genome
// alignments into typed records. Only the alignment line grammar is
// understood; general-purpose GFF3 parsing is out of scope.
package gff

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
)

// Record is one alignment line of the GFF file, i.e. one exon of a
// transcript-to-genome alignment. Coordinates are 1-based inclusive, as
// found on the wire. Records are immutable once parsed.
type Record struct {
	// RefAc is the genomic reference accession, e.g. "NC_000001.10".
	RefAc string
	// Source is the annotation source column, e.g. "RefSeq".
	Source string
	// MatchType is the GFF type column, e.g. "cDNA_match".
	MatchType string
	// GStart and GEnd are the genomic coordinates of the exon.
	GStart, GEnd int
	// Score is kept verbatim; NCBI writes either a number or ".".
	Score string
	// Strand is "+" or "-".
	Strand string
	// AlignID is the ID attribute shared by all exons of one alignment.
	AlignID string
	// TxAc is the transcript accession from the Target attribute.
	TxAc string
	// TxStart and TxEnd are the transcript coordinates of the exon.
	TxStart, TxEnd int
	// Alignment-quality percentages from the attribute list.
	PctCoverage      float64
	PctIdentityGap   float64
	PctIdentityUngap float64
}

// String reconstructs a canonical alignment line from the parsed fields.
// Parsing the result yields the same record.
func (r Record) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s\t%s\t.\t"+
		"ID=%s;Target=%s %d %d %s;pct_coverage=%s;pct_identity_gap=%s;pct_identity_ungap=%s",
		r.RefAc, r.Source, r.MatchType, r.GStart, r.GEnd, r.Score, r.Strand,
		r.AlignID, r.TxAc, r.TxStart, r.TxEnd, r.Strand,
		formatPct(r.PctCoverage), formatPct(r.PctIdentityGap), formatPct(r.PctIdentityUngap))
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseError reports a line that does not match the alignment grammar.
type ParseError struct {
	Num  int    // 1-based line number within the input
	Line string // the offending line, verbatim
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gff: line %d does not match alignment grammar: %q", e.Num, e.Line)
}

// Alignment line example (attributes beyond the ones captured here are
// ignored):
//
// NC_000001.10 RefSeq cDNA_match 155205541 155205820 280 - . ID=aln58042;Target=NM_001025190.1 1 280 +;pct_coverage=100;pct_identity_gap=99.9673;pct_identity_ungap=100
var alignmentRE = regexp.MustCompile(
	`^(\S+)\s+(\S+)\s+(\S+)\s+(\d+)\s+(\d+)\s+(\S+)\s+([-+])\s+\.\s+` +
		`ID=([^;]+);.*?Target=(\S+)\s+(\d+)\s+(\d+).*?` +
		`pct_coverage=([^;]+);.*?pct_identity_gap=([^;]+);.*?pct_identity_ungap=([^;\s]+)`)

// fastaTerminator ends the annotation section of a GFF file. Nothing past
// it is parsed.
const fastaTerminator = "##FASTA"

func parseLine(num int, line string) (Record, error) {
	m := alignmentRE.FindStringSubmatch(line)
	if m == nil {
		return Record{}, &ParseError{Num: num, Line: line}
	}
	parseInt := func(s string) int {
		// The pattern only admits digit runs here.
		v, _ := strconv.Atoi(s)
		return v
	}
	rec := Record{
		RefAc:     m[1],
		Source:    m[2],
		MatchType: m[3],
		GStart:    parseInt(m[4]),
		GEnd:      parseInt(m[5]),
		Score:     m[6],
		Strand:    m[7],
		AlignID:   m[8],
		TxAc:      m[9],
		TxStart:   parseInt(m[10]),
		TxEnd:     parseInt(m[11]),
	}
	for i, dst := range []*float64{&rec.PctCoverage, &rec.PctIdentityGap, &rec.PctIdentityUngap} {
		v, err := strconv.ParseFloat(m[12+i], 64)
		if err != nil {
			return Record{}, &ParseError{Num: num, Line: line}
		}
		*dst = v
	}
	return rec, nil
}

// Read parses alignment records from r until EOF or the ##FASTA
// terminator. Lines starting with '#' are skipped. Any other line that
// does not match the alignment grammar aborts the read with a
// *ParseError.
func Read(r io.Reader) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)
	num := 0
	for sc.Scan() {
		num++
		line := sc.Text()
		if line == fastaTerminator {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseLine(num, line)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// ReadAll opens path, transparently decompressing by extension, and
// parses every alignment record in it.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}
	recs, err := Read(inr)
	if err != nil {
		_ = in.Close(ctx)
		return nil, err
	}
	if err := in.Close(ctx); err != nil {
		return nil, err
	}
	return recs, nil
}
