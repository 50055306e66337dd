package splign

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

const (
	exonSetHeader = "#tx_ac\talt_ac\tmethod\tstrand\texons_se_i"
	txInfoHeader  = "#origin\tac\thgnc\tcds_se_i\texons_se_i"
)

// tableWriter writes one compressed output table through a temp file in
// the destination directory. The table appears under its final name only
// when close(true) succeeds.
type tableWriter struct {
	finalPath string
	tmp       *os.File
	comp      io.WriteCloser // gzip or bgzf, over tmp
	tsv       *tsv.Writer
}

func newTableWriter(path, header string, bgzip bool) (*tableWriter, error) {
	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return nil, err
	}
	var comp io.WriteCloser
	if bgzip {
		comp = bgzf.NewWriter(tmp, 1)
	} else {
		comp = gzip.NewWriter(tmp)
	}
	w := &tableWriter{finalPath: path, tmp: tmp, comp: comp, tsv: tsv.NewWriter(comp)}
	w.tsv.WriteString(header)
	if err := w.tsv.EndLine(); err != nil {
		w.close(false)
		return nil, err
	}
	return w, nil
}

func (w *tableWriter) close(commit bool) error {
	var err error
	if commit {
		err = w.tsv.Flush()
		if e := w.comp.Close(); e != nil && err == nil {
			err = e
		}
		if e := w.tmp.Close(); e != nil && err == nil {
			err = e
		}
		if err == nil {
			err = os.Chmod(w.tmp.Name(), 0644)
		}
		if err == nil {
			err = os.Rename(w.tmp.Name(), w.finalPath)
		}
	} else {
		_ = w.comp.Close()
		_ = w.tmp.Close()
	}
	if err != nil || !commit {
		os.Remove(w.tmp.Name())
	}
	return err
}

// Writer emits the exonset and txinfo tables. Both are staged in temp
// files and renamed into place on Close, so an aborted run never leaves a
// partial table under its final name.
type Writer struct {
	exonset *tableWriter
	txinfo  *tableWriter
}

// ExonSetPath and TxInfoPath name the final output files for a prefix.
func ExonSetPath(prefix string) string { return prefix + ".exonset.gz" }
func TxInfoPath(prefix string) string  { return prefix + ".txinfo.gz" }

// NewWriter creates the pair of table writers under prefix.
func NewWriter(prefix string, bgzip bool) (*Writer, error) {
	es, err := newTableWriter(ExonSetPath(prefix), exonSetHeader, bgzip)
	if err != nil {
		return nil, err
	}
	ti, err := newTableWriter(TxInfoPath(prefix), txInfoHeader, bgzip)
	if err != nil {
		es.close(false)
		return nil, err
	}
	return &Writer{exonset: es, txinfo: ti}, nil
}

func (w *Writer) WriteExonSet(es *ExonSet) error {
	t := w.exonset.tsv
	t.WriteString(es.TxAc)
	t.WriteString(es.AltAc)
	t.WriteString(es.Method)
	t.WriteInt64(int64(es.Strand))
	t.WriteString(FormatSpans(es.Exons))
	return t.EndLine()
}

func (w *Writer) WriteTranscriptInfo(ti *TranscriptInfo) error {
	t := w.txinfo.tsv
	t.WriteString(ti.Origin)
	t.WriteString(ti.Ac)
	t.WriteString(ti.Gene)
	if ti.CDS != nil {
		t.WriteString(ti.CDS.String())
	} else {
		t.WriteString("")
	}
	t.WriteString(FormatSpans(ti.Exons))
	return t.EndLine()
}

// Close finishes both tables and renames them into place.
func (w *Writer) Close() error {
	err := w.exonset.close(true)
	if e := w.txinfo.close(true); e != nil && err == nil {
		err = e
	}
	return err
}

// Abort discards both temp files without publishing either table.
func (w *Writer) Abort() {
	_ = w.exonset.close(false)
	_ = w.txinfo.close(false)
}
