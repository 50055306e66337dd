package splign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtools/txalign/encoding/gff"
)

func TestSpanConversion(t *testing.T) {
	tests := []struct {
		start, end int
		want       Span
	}{
		{1, 100, Span{0, 100}},
		{1000, 1100, Span{999, 1100}},
		{7, 7, Span{6, 7}}, // single-base exon
	}
	for _, test := range tests {
		s := spanFromInclusive(test.start, test.end)
		assert.Equal(t, test.want, s)
		// Conversion is invertible.
		start, end := s.Inclusive()
		assert.Equal(t, test.start, start)
		assert.Equal(t, test.end, end)
	}
}

func TestFormatParseSpans(t *testing.T) {
	spans := []Span{{0, 101}, {101, 202}, {300, 412}}
	formatted := FormatSpans(spans)
	assert.Equal(t, "0,101;101,202;300,412", formatted)
	parsed, err := ParseSpans(formatted)
	require.NoError(t, err)
	assert.Equal(t, spans, parsed)

	empty, err := ParseSpans("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseSpans("0,101;bogus")
	assert.Error(t, err)
	_, err = ParseSpans("101")
	assert.Error(t, err)
}

// Exonset spans are genomic; txinfo spans are transcript coordinates.
func TestConvert(t *testing.T) {
	b := Block{Records: []gff.Record{
		alnRecord("NM_000001.1", "NC_000001.1", "aln1", 1000, 1100, 1, 100, "-", 100, 100),
	}}
	es, ti := convert(b, "NCBI")

	assert.Equal(t, "NM_000001.1", es.TxAc)
	assert.Equal(t, "NC_000001.1", es.AltAc)
	assert.Equal(t, "splign", es.Method)
	assert.Equal(t, -1, es.Strand)
	assert.Equal(t, "999,1100", FormatSpans(es.Exons))

	assert.Equal(t, "NCBI", ti.Origin)
	assert.Equal(t, "NM_000001.1", ti.Ac)
	assert.Equal(t, "0,100", FormatSpans(ti.Exons))
	assert.Empty(t, ti.Gene)
	assert.Nil(t, ti.CDS)
}

func TestConvertMultiExon(t *testing.T) {
	b := Block{Records: []gff.Record{
		alnRecord("NM_0001.1", "NC_000001.10", "aln1", 1000, 1100, 1, 101, "+", 100, 100),
		alnRecord("NM_0001.1", "NC_000001.10", "aln1", 2000, 2100, 102, 202, "+", 100, 100),
	}}
	es, ti := convert(b, "NCBI")
	assert.Equal(t, +1, es.Strand)
	assert.Equal(t, "999,1100;1999,2100", FormatSpans(es.Exons))
	assert.Equal(t, "0,101;101,202", FormatSpans(ti.Exons))
}
