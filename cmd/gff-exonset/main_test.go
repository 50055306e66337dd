package main

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtools/txalign/encoding/gff"
	"github.com/seqtools/txalign/splign"
)

const testGFF = `##gff-version 3
#!processor NCBI annotwriter
NC_000001.10	RefSeq	cDNA_match	2000	2100	.	-	.	ID=aln1;Target=NM_000001.1 102 202 +;pct_coverage=100;pct_identity_gap=100;pct_identity_ungap=100
NC_000001.10	RefSeq	cDNA_match	1000	1100	.	-	.	ID=aln1;Target=NM_000001.1 1 101 +;pct_coverage=100;pct_identity_gap=100;pct_identity_ungap=100
NT_000001.1	RefSeq	cDNA_match	500	600	.	+	.	ID=aln2;Target=NM_000002.1 1 101 +;pct_coverage=100;pct_identity_gap=100;pct_identity_ungap=100
NC_000002.11	RefSeq	cDNA_match	10	20	.	+	.	ID=aln3;Target=NM_000003.1 1 11 +;pct_coverage=90;pct_identity_gap=100;pct_identity_ungap=100
`

func readGzipLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()
	data, err := ioutil.ReadAll(gz)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRunEndToEnd(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	gffPath := filepath.Join(tempDir, "alignments.gff")
	require.NoError(t, ioutil.WriteFile(gffPath, []byte(testGFF), 0644))
	prefix := filepath.Join(tempDir, "ncbi")

	rep, err := splign.Run(context.Background(), gffPath, splign.Options{
		Origin:    "NCBI",
		OutPrefix: prefix,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#tx_ac\talt_ac\tmethod\tstrand\texons_se_i",
		"NM_000001.1\tNC_000001.10\tsplign\t-1\t999,1100;1999,2100",
		"NM_000002.1\tNT_000001.1\tsplign\t1\t499,600",
	}, readGzipLines(t, splign.ExonSetPath(prefix)))
	assert.Equal(t, []string{
		"#origin\tac\thgnc\tcds_se_i\texons_se_i",
		"NCBI\tNM_000001.1\t\t\t0,101;101,202",
		"NCBI\tNM_000002.1\t\t\t0,101",
	}, readGzipLines(t, splign.TxInfoPath(prefix)))

	assert.Equal(t, 2, rep.ExonSetsWritten)
	assert.Equal(t, 2, rep.TxInfosWritten)
	assert.True(t, rep.QualityFailed["NM_000003.1/NC_000002.11"])
	assert.Empty(t, rep.Conflicts)
}

func TestRunWithAuxTables(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	gffPath := filepath.Join(tempDir, "alignments.gff")
	require.NoError(t, ioutil.WriteFile(gffPath, []byte(testGFF), 0644))
	geneAccPath := filepath.Join(tempDir, "geneacc.tsv")
	require.NoError(t, ioutil.WriteFile(geneAccPath, []byte(
		"#tx_ac\thgnc\nNM_000001.1\tA1BG\n"), 0644))
	txInfoPath := filepath.Join(tempDir, "txinfo.tsv")
	require.NoError(t, ioutil.WriteFile(txInfoPath, []byte(
		"#origin\tac\thgnc\tcds_se_i\texons_se_i\n"+
			"NCBI\tNM_000001.1\tA1BG\t10,190\t0,101;101,202\n"), 0644))
	prefix := filepath.Join(tempDir, "ncbi")

	rep, err := splign.Run(context.Background(), gffPath, splign.Options{
		Origin:      "NCBI",
		OutPrefix:   prefix,
		GeneAccPath: geneAccPath,
		TxInfoPath:  txInfoPath,
	})
	require.NoError(t, err)

	// NM_000002.1 is absent from the transcript-info table, so it is
	// withheld from both outputs.
	assert.Equal(t, []string{
		"#tx_ac\talt_ac\tmethod\tstrand\texons_se_i",
		"NM_000001.1\tNC_000001.10\tsplign\t-1\t999,1100;1999,2100",
	}, readGzipLines(t, splign.ExonSetPath(prefix)))
	assert.Equal(t, []string{
		"#origin\tac\thgnc\tcds_se_i\texons_se_i",
		"NCBI\tNM_000001.1\tA1BG\t10,190\t0,101;101,202",
	}, readGzipLines(t, splign.TxInfoPath(prefix)))
	assert.True(t, rep.NotFound["NM_000002.1"])
}

// A parse failure aborts the run without leaving anything under the
// final output names.
func TestRunParseErrorLeavesNoOutput(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	gffPath := filepath.Join(tempDir, "alignments.gff")
	require.NoError(t, ioutil.WriteFile(gffPath, []byte(
		testGFF+"this line matches no grammar\n"), 0644))
	prefix := filepath.Join(tempDir, "ncbi")

	_, err := splign.Run(context.Background(), gffPath, splign.Options{
		Origin:    "NCBI",
		OutPrefix: prefix,
	})
	require.Error(t, err)
	pe, ok := err.(*gff.ParseError)
	require.True(t, ok, "want *gff.ParseError, got %T", err)
	assert.Equal(t, "this line matches no grammar", pe.Line)

	_, err = os.Stat(splign.ExonSetPath(prefix))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(splign.TxInfoPath(prefix))
	assert.True(t, os.IsNotExist(err))
}
