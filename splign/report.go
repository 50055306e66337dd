package splign

import (
	"sort"
	"strings"

	"github.com/grailbio/base/log"
)

// StringSet accumulates accessions for one non-fatal condition.
type StringSet map[string]bool

func (s StringSet) Add(v string) { s[v] = true }

// Sorted returns the members in ascending order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Report aggregates everything non-fatal that happened during one run.
// It is created and owned by the orchestrator; the pipeline stages only
// record into it.
type Report struct {
	// ExonSetsWritten and TxInfosWritten count output rows.
	ExonSetsWritten int
	TxInfosWritten  int

	// QualityFailed holds "txAc/refAc" keys of blocks below the
	// coverage/identity floor.
	QualityFailed StringSet
	// Conflicts holds transcripts whose later blocks reported a
	// different exon structure than the first-seen one.
	Conflicts StringSet
	// Ungenned holds transcripts absent from the gene-accession table.
	Ungenned StringSet
	// ExonsDiffer holds transcripts whose exon structure disagrees with
	// the transcript-info table.
	ExonsDiffer StringSet
	// NotFound holds transcripts absent from the transcript-info table
	// and therefore withheld from both outputs.
	NotFound StringSet
}

func newReport() *Report {
	return &Report{
		QualityFailed: StringSet{},
		Conflicts:     StringSet{},
		Ungenned:      StringSet{},
		ExonsDiffer:   StringSet{},
		NotFound:      StringSet{},
	}
}

// LogSummary prints row counts and the accession list of every non-fatal
// condition recorded during the run.
func (r *Report) LogSummary() {
	log.Printf("wrote %d exonset rows, %d txinfo rows", r.ExonSetsWritten, r.TxInfosWritten)
	logSet := func(name string, s StringSet) {
		if len(s) == 0 {
			return
		}
		log.Printf("%s (%d): %s", name, len(s), strings.Join(s.Sorted(), " "))
	}
	logSet("below quality floor", r.QualityFailed)
	logSet("conflicting exon structures", r.Conflicts)
	logSet("no gene symbol", r.Ungenned)
	logSet("exon structure differs from transcript-info table", r.ExonsDiffer)
	logSet("not in transcript-info table", r.NotFound)
}
