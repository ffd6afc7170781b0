// internal/track/track_test.go
package track

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrack(t *testing.T, path string, rows [][4]any) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE signal (chrom TEXT, start INTEGER, "end" INTEGER, value REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE INDEX signal_pos ON signal (chrom, start, "end")`)
	require.NoError(t, err)
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO signal VALUES (?, ?, ?, ?)`, r[0], r[1], r[2], r[3])
		require.NoError(t, err)
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "H2AZ", Stem("/data/H2AZ.track"))
	assert.Equal(t, "H2AZ", Stem("H2AZ.liver.db"))
	assert.Equal(t, "noext", Stem("noext"))
}

func TestQueryMeanAndExtensions(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "H2AZ.track")
	writeTrack(t, p, [][4]any{
		{"chr1", 100, 200, 2.0},
		{"chr1", 200, 300, 4.0},
		{"chr1", 5000, 5100, 100.0},
	})

	// [150, 180) overlaps only the first interval; ext 200 pulls in the second.
	got, err := Query([]string{p}, "chr1", 150, 180, []int{0, 200}, AggMean)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got["H2AZ_0"])
	assert.Equal(t, 3.0, got["H2AZ_200"])
}

func TestQueryMaxAndSum(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "DNase.track")
	writeTrack(t, p, [][4]any{
		{"chr2", 0, 10, 1.0},
		{"chr2", 10, 20, 5.0},
	})

	got, err := Query([]string{p}, "chr2", 0, 20, []int{0}, AggMax)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got["DNase_0"])

	got, err = Query([]string{p}, "chr2", 0, 20, []int{0}, AggSum)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got["DNase_0"])
}

func TestQueryMissingChromYieldsNoKey(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "H3K4me3.track")
	writeTrack(t, p, [][4]any{{"chr1", 0, 10, 1.0}})

	got, err := Query([]string{p}, "chrX", 0, 10, []int{0}, AggMean)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryNegativeExtensionClamp(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "H2AZ.track")
	writeTrack(t, p, [][4]any{{"chr1", 0, 50, 7.0}})

	got, err := Query([]string{p}, "chr1", 10, 20, []int{1000}, AggMean)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got["H2AZ_1000"])
}

func TestQueryErrors(t *testing.T) {
	_, err := Query(nil, "chr1", 10, 5, []int{0}, AggMean)
	assert.Error(t, err)

	_, err = Query(nil, "chr1", 0, 5, []int{0}, "median")
	assert.Error(t, err)
}

func TestQueryUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "missing.track")
	_, err := Query([]string{bad}, "chr1", 0, 10, []int{0}, AggMean)
	assert.Error(t, err)
}
