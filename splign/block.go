package splign

import (
	"sort"
	"strings"

	"github.com/seqtools/txalign/encoding/gff"
)

// Primary-assembly reference accessions sort ahead of alternate loci and
// patch scaffolds when grouping.
const preferredRefPrefix = "NC_"

func refRank(ac string) int {
	if strings.HasPrefix(ac, preferredRefPrefix) {
		return 0
	}
	return 1
}

// sortRecords orders records by the block grouping key: transcript
// accession, preferred reference rank, reference accession, alignment ID.
func sortRecords(recs []gff.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.TxAc != b.TxAc {
			return a.TxAc < b.TxAc
		}
		if ra, rb := refRank(a.RefAc), refRank(b.RefAc); ra != rb {
			return ra < rb
		}
		if a.RefAc != b.RefAc {
			return a.RefAc < b.RefAc
		}
		return a.AlignID < b.AlignID
	})
}

type blockKey struct {
	txAc, refAc, alignID string
}

func keyOf(r gff.Record) blockKey {
	return blockKey{r.TxAc, r.RefAc, r.AlignID}
}

// Block holds all exons of one transcript-to-reference alignment: a
// maximal run of records sharing (transcript, reference, alignment ID).
// A block is never empty; members are sorted by ascending transcript
// start so exons appear in transcript 5'→3' order.
type Block struct {
	Records []gff.Record
}

func (b Block) TxAc() string  { return b.Records[0].TxAc }
func (b Block) RefAc() string { return b.Records[0].RefAc }

// Alignment-quality floor, fixed policy. Representative values are taken
// from the block's first record; both thresholds are inclusive.
const (
	MinPctCoverage    = 95.0
	MinPctIdentityGap = 99.5
)

// BelowQuality reports whether the block fails either quality floor.
func (b Block) BelowQuality() bool {
	r := b.Records[0]
	return r.PctCoverage < MinPctCoverage || r.PctIdentityGap < MinPctIdentityGap
}

// BlockIter yields alignment blocks from a record stream in grouping-key
// order. It is a finite, single-pass iterator; it cannot be restarted.
type BlockIter struct {
	recs []gff.Record
	pos  int
}

// NewBlockIter sorts recs in place and returns an iterator over its
// blocks.
func NewBlockIter(recs []gff.Record) *BlockIter {
	sortRecords(recs)
	return &BlockIter{recs: recs}
}

// Next returns the next block, or ok=false once the stream is exhausted.
func (it *BlockIter) Next() (Block, bool) {
	if it.pos >= len(it.recs) {
		return Block{}, false
	}
	start := it.pos
	key := keyOf(it.recs[start])
	for it.pos < len(it.recs) && keyOf(it.recs[it.pos]) == key {
		it.pos++
	}
	members := make([]gff.Record, it.pos-start)
	copy(members, it.recs[start:it.pos])
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].TxStart < members[j].TxStart
	})
	return Block{Records: members}, true
}
