// Package splign converts NCBI genomic GFF splign alignments into
// exonset and txinfo tables. The pipeline is a single sequential pass:
// records are parsed, grouped into per-(transcript, reference) alignment
// blocks, filtered by a fixed coverage/identity floor, converted to
// 0-based half-open exon spans, reconciled so the first-seen exon
// structure wins per transcript, and optionally enriched with gene
// symbols and CDS spans from auxiliary tables.
package splign

import (
	"context"

	"github.com/seqtools/txalign/encoding/gff"
)

// Options configures one conversion run.
type Options struct {
	// Origin is the label recorded in every txinfo row.
	Origin string
	// OutPrefix names the outputs: <prefix>.exonset.gz, <prefix>.txinfo.gz.
	OutPrefix string
	// GeneAccPath, if nonempty, is a gene-accession table used to fill
	// the txinfo gene-symbol column.
	GeneAccPath string
	// TxInfoPath, if nonempty, is a transcript-info table used for CDS
	// spans and exon-structure cross-checks. Transcripts absent from it
	// are withheld from both outputs.
	TxInfoPath string
	// BGZip selects bgzf output framing instead of plain gzip.
	BGZip bool
}

// DefaultOpts are the flag defaults of the gff-exonset command.
var DefaultOpts = Options{
	Origin:    "NCBI",
	OutPrefix: "ncbi-gff",
}

// Run executes the full pass over the alignments at gffPath. It returns
// the aggregated report of non-fatal conditions; any returned error is
// fatal and leaves nothing under the final output names.
func Run(ctx context.Context, gffPath string, opts Options) (*Report, error) {
	recs, err := gff.ReadAll(ctx, gffPath)
	if err != nil {
		return nil, err
	}

	var geneSymbols map[string]string
	if opts.GeneAccPath != "" {
		if geneSymbols, err = ReadGeneAccessions(ctx, opts.GeneAccPath); err != nil {
			return nil, err
		}
	}
	var auxTx map[string]TranscriptInfo
	if opts.TxInfoPath != "" {
		if auxTx, err = ReadTranscriptInfo(ctx, opts.TxInfoPath); err != nil {
			return nil, err
		}
	}

	w, err := NewWriter(opts.OutPrefix, opts.BGZip)
	if err != nil {
		return nil, err
	}
	conv := NewConverter(opts.Origin, geneSymbols, auxTx)
	rep := newReport()
	it := NewBlockIter(recs)
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		es, ti := conv.Process(b, rep)
		if es != nil {
			if err := w.WriteExonSet(es); err != nil {
				w.Abort()
				return nil, err
			}
		}
		if ti != nil {
			if err := w.WriteTranscriptInfo(ti); err != nil {
				w.Abort()
				return nil, err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return rep, nil
}
