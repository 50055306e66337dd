package splign

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

func openTable(ctx context.Context, path string) (file.File, io.Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}
	return in, inr, nil
}

// geneAccRow matches the gene-accession table:
//
// #tx_ac	hgnc
type geneAccRow struct {
	TxAc string
	Hgnc string
}

// ReadGeneAccessions loads the transcript-accession → gene-symbol table.
func ReadGeneAccessions(ctx context.Context, path string) (map[string]string, error) {
	in, inr, err := openTable(ctx, path)
	if err != nil {
		return nil, err
	}
	r := tsv.NewReader(bufio.NewReader(inr))
	r.Comment = '#'
	r.LazyQuotes = true
	m := map[string]string{}
	var row geneAccRow
	for {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			_ = in.Close(ctx)
			return nil, errors.E(err, path)
		}
		m[row.TxAc] = row.Hgnc
	}
	return m, in.Close(ctx)
}

// txInfoRow matches the transcript-info table, which has the same five
// columns as the txinfo output:
//
// #origin	ac	hgnc	cds_se_i	exons_se_i
type txInfoRow struct {
	Origin   string
	Ac       string
	Hgnc     string
	CdsSeI   string
	ExonsSeI string
}

// ReadTranscriptInfo loads a transcript-info table keyed by transcript
// accession. The cds_se_i column may be empty.
func ReadTranscriptInfo(ctx context.Context, path string) (map[string]TranscriptInfo, error) {
	in, inr, err := openTable(ctx, path)
	if err != nil {
		return nil, err
	}
	r := tsv.NewReader(bufio.NewReader(inr))
	r.Comment = '#'
	r.LazyQuotes = true
	m := map[string]TranscriptInfo{}
	var row txInfoRow
	for {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			_ = in.Close(ctx)
			return nil, errors.E(err, path)
		}
		ti := TranscriptInfo{Origin: row.Origin, Ac: row.Ac, Gene: row.Hgnc}
		if row.CdsSeI != "" {
			cds, err := parseSpan(row.CdsSeI)
			if err != nil {
				_ = in.Close(ctx)
				return nil, errors.E(err, path)
			}
			ti.CDS = &cds
		}
		if ti.Exons, err = ParseSpans(row.ExonsSeI); err != nil {
			_ = in.Close(ctx)
			return nil, errors.E(err, path)
		}
		m[row.Ac] = ti
	}
	return m, in.Close(ctx)
}
