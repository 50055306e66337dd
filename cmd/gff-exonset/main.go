package main

/*
gff-exonset converts an NCBI genomic GFF file of splign cDNA-to-genome
alignments into two compressed tab-delimited tables: an exonset table
(genomic exon structure per transcript per reference) and a txinfo table
(one row per transcript, optionally enriched with gene symbol and CDS
span from auxiliary tables).
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/seqtools/txalign/splign"
)

var (
	origin      = flag.String("origin", splign.DefaultOpts.Origin, "Origin label recorded in every txinfo row")
	outPrefix   = flag.String("out", splign.DefaultOpts.OutPrefix, "Output path prefix; writes <prefix>.exonset.gz and <prefix>.txinfo.gz")
	geneAccPath = flag.String("geneacc", "", "Optional gene-accession table (transcript accession -> gene symbol)")
	txInfoPath  = flag.String("txinfo", "", "Optional transcript-info table supplying CDS spans; transcripts absent from it are skipped")
	bgzip       = flag.Bool("bgzip", false, "Write bgzf-framed outputs instead of plain gzip")
)

func gffExonsetUsage() {
	fmt.Printf("Usage: %s [OPTIONS] gffpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = gffExonsetUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (gffpath) expected, got %d; please check flag syntax", flag.NArg())
	}
	gffPath := flag.Arg(0)
	ctx := vcontext.Background()
	rep, err := splign.Run(ctx, gffPath, splign.Options{
		Origin:      *origin,
		OutPrefix:   *outPrefix,
		GeneAccPath: *geneAccPath,
		TxInfoPath:  *txInfoPath,
		BGZip:       *bgzip,
	})
	if err != nil {
		log.Fatalf("%s: %v", gffPath, err)
	}
	rep.LogSummary()
}
