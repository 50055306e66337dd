package splign

import (
	"fmt"
	"strconv"
	"strings"
)

// Method is the alignment method recorded in every exonset row.
const Method = "splign"

// Span is a 0-based half-open coordinate interval.
type Span struct {
	Start, End int
}

// spanFromInclusive converts a 1-based inclusive interval to 0-based
// half-open. Its inverse is Span.Inclusive.
func spanFromInclusive(start, end int) Span {
	return Span{Start: start - 1, End: end}
}

// Inclusive converts back to a 1-based inclusive interval.
func (s Span) Inclusive() (start, end int) {
	return s.Start + 1, s.End
}

func (s Span) String() string {
	return strconv.Itoa(s.Start) + "," + strconv.Itoa(s.End)
}

// FormatSpans joins spans with ';' as written in the exons_se_i column.
func FormatSpans(spans []Span) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.String()
	}
	return strings.Join(parts, ";")
}

func parseSpan(s string) (Span, error) {
	sep := strings.IndexByte(s, ',')
	if sep < 0 {
		return Span{}, fmt.Errorf("splign: malformed span %q", s)
	}
	start, err := strconv.Atoi(s[:sep])
	if err != nil {
		return Span{}, fmt.Errorf("splign: malformed span %q", s)
	}
	end, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return Span{}, fmt.Errorf("splign: malformed span %q", s)
	}
	return Span{Start: start, End: end}, nil
}

// ParseSpans is the inverse of FormatSpans. An empty string yields nil.
func ParseSpans(s string) ([]Span, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	spans := make([]Span, len(parts))
	for i, p := range parts {
		sp, err := parseSpan(p)
		if err != nil {
			return nil, err
		}
		spans[i] = sp
	}
	return spans, nil
}

// ExonSet is one output row of the exonset table: the genomic exon
// structure of one transcript against one reference. A transcript has one
// ExonSet per reference it validly aligned against.
type ExonSet struct {
	TxAc   string
	AltAc  string
	Method string
	Strand int    // +1 or -1
	Exons  []Span // genomic coordinates, transcript 5'→3' order
}

// TranscriptInfo is one output row of the txinfo table. At most one is
// retained per transcript accession for a run.
type TranscriptInfo struct {
	Origin string
	Ac     string
	Gene   string // empty when no gene symbol is known
	CDS    *Span  // nil when no CDS is known
	Exons  []Span // transcript coordinates
}

// convert maps a passing block to its exonset row and the transcript-
// coordinate structure used for txinfo and conflict detection. Both span
// lists are converted from 1-based inclusive to 0-based half-open.
func convert(b Block, origin string) (ExonSet, TranscriptInfo) {
	strand := +1
	if b.Records[0].Strand == "-" {
		strand = -1
	}
	es := ExonSet{TxAc: b.TxAc(), AltAc: b.RefAc(), Method: Method, Strand: strand}
	ti := TranscriptInfo{Origin: origin, Ac: b.TxAc()}
	for _, r := range b.Records {
		es.Exons = append(es.Exons, spanFromInclusive(r.GStart, r.GEnd))
		ti.Exons = append(ti.Exons, spanFromInclusive(r.TxStart, r.TxEnd))
	}
	return es, ti
}
