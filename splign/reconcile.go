package splign

import (
	"github.com/grailbio/base/log"
)

// Converter drives the filter → convert → reconcile → enrich stages for a
// stream of blocks. The first-seen exon structure wins for a transcript;
// a later block reporting a different structure is recorded as a conflict
// and its txinfo row dropped, but its exonset row still goes out.
//
// Known limitation, kept for compatibility with existing exports: beyond
// sort order there is no prioritization of primary-assembly references
// when structures conflict.
type Converter struct {
	origin      string
	geneSymbols map[string]string         // nil when no gene-accession table was given
	auxTx       map[string]TranscriptInfo // nil when no transcript-info table was given

	established  map[string]string // txAc -> first-seen exon structure
	emittedPairs map[string]bool   // "txAc/refAc" exonset rows already out
}

// NewConverter returns a Converter enriching from the given lookup
// tables; either table may be nil.
func NewConverter(origin string, geneSymbols map[string]string, auxTx map[string]TranscriptInfo) *Converter {
	return &Converter{
		origin:       origin,
		geneSymbols:  geneSymbols,
		auxTx:        auxTx,
		established:  map[string]string{},
		emittedPairs: map[string]bool{},
	}
}

// Process runs one block through the pipeline tail, recording non-fatal
// conditions into rep. Either return may be nil when the corresponding
// row is withheld.
func (c *Converter) Process(b Block, rep *Report) (*ExonSet, *TranscriptInfo) {
	if b.BelowQuality() {
		rep.QualityFailed.Add(b.TxAc() + "/" + b.RefAc())
		return nil, nil
	}
	es, ti := convert(b, c.origin)

	if c.auxTx != nil {
		aux, ok := c.auxTx[ti.Ac]
		if !ok {
			// Transcripts unknown to the table are withheld entirely.
			rep.NotFound.Add(ti.Ac)
			return nil, nil
		}
		if aux.CDS != nil {
			cds := *aux.CDS
			ti.CDS = &cds
		}
		if FormatSpans(aux.Exons) != FormatSpans(ti.Exons) {
			log.Error.Printf("%s: exon structure %s differs from transcript-info table %s",
				ti.Ac, FormatSpans(ti.Exons), FormatSpans(aux.Exons))
			rep.ExonsDiffer.Add(ti.Ac)
		}
	}

	var esOut *ExonSet
	if pair := es.TxAc + "/" + es.AltAc; !c.emittedPairs[pair] {
		c.emittedPairs[pair] = true
		rep.ExonSetsWritten++
		esOut = &es
	}

	structure := FormatSpans(ti.Exons)
	if prev, ok := c.established[ti.Ac]; ok {
		if prev != structure {
			log.Error.Printf("%s: conflicting exon structure against %s; keeping first-seen",
				ti.Ac, es.AltAc)
			rep.Conflicts.Add(ti.Ac)
		}
		// txinfo was already written on establishment.
		return esOut, nil
	}
	c.established[ti.Ac] = structure

	if c.geneSymbols != nil {
		if g, ok := c.geneSymbols[ti.Ac]; ok {
			ti.Gene = g
		} else {
			rep.Ungenned.Add(ti.Ac)
		}
	}
	rep.TxInfosWritten++
	return esOut, &ti
}
