// core/fasta/reader_test.go
package fasta

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAllMultiRecord(t *testing.T) {
	in := ">seq1:chr1:1000-1100 sample\nACGT\nACGT\n\n>seq2\nTTTT\n"
	recs, err := ReadAll(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1:chr1:1000-1100 sample", recs[0].ID)
	assert.Equal(t, "ACGTACGT", recs[0].Seq)
	assert.Equal(t, "seq2", recs[1].ID)
	assert.Equal(t, "TTTT", recs[1].Seq)
}

func TestReadAllEmptySequenceRecord(t *testing.T) {
	_, err := ReadAll(strings.NewReader(">empty\n>seq2\nACGT\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadAllDataBeforeHeader(t *testing.T) {
	_, err := ReadAll(strings.NewReader("ACGT\n>seq\nACGT\n"))
	assert.Error(t, err)
}

func TestReadAllEmptyInput(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.fa.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(">g1\nACGTACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	recs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ACGTACGT", recs[0].Seq)
}
