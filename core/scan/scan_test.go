// core/scan/scan_test.go
package scan

import (
	"strings"
	"testing"

	"treecrispr/core/dna"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanShortSequenceEmpty(t *testing.T) {
	for _, seq := range []string{"", "ACGT", strings.Repeat("A", WindowLen-1)} {
		assert.Empty(t, Scan(seq), "len=%d", len(seq))
	}
}

func TestScanForwardHit(t *testing.T) {
	// N(24)=A, G(25), G(26): exact PAM is AGG.
	seq := strings.Repeat("T", 24) + "AGG" + "TTT"
	hits := Scan(seq)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{Start: 0, End: 30, Strand: "+", PAM: "AGG"}, hits[0])
}

func TestScanReverseHit(t *testing.T) {
	// C(3) C(4) T(5): genomic CCT reports as its reverse complement AGG.
	seq := "TTT" + "CCT" + strings.Repeat("T", 24)
	hits := Scan(seq)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{Start: 0, End: 30, Strand: "-", PAM: "AGG"}, hits[0])
}

func TestScanBothStrandsSameWindow(t *testing.T) {
	// CCA at 3-5 and TGG at 24-26: one window, two independent hits.
	seq := "TTTCCA" + strings.Repeat("T", 18) + "TGG" + "TTT"
	hits := Scan(seq)
	require.Len(t, hits, 2)
	assert.Equal(t, "+", hits[0].Strand)
	assert.Equal(t, "TGG", hits[0].PAM)
	assert.Equal(t, "-", hits[1].Strand)
	assert.Equal(t, "TGG", hits[1].PAM)
}

func TestScanRejectsAmbiguousPAMBase(t *testing.T) {
	fwd := strings.Repeat("T", 24) + "NGG" + "TTT"
	assert.Empty(t, Scan(fwd))

	rev := "TTT" + "CCN" + strings.Repeat("T", 24)
	assert.Empty(t, Scan(rev))
}

func TestScanRNAInput(t *testing.T) {
	seq := strings.Repeat("U", 24) + "AGG" + "UUU"
	hits := Scan(seq)
	require.Len(t, hits, 1)
	assert.Equal(t, "AGG", hits[0].PAM)
}

func TestScanSlidingOffsets(t *testing.T) {
	// A single AGG placed deep enough that several windows see it at
	// different offsets; starts must come back in ascending order.
	seq := strings.Repeat("T", 40) + "AGG" + strings.Repeat("T", 10)
	hits := Scan(seq)
	require.NotEmpty(t, hits)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Start, hits[i].Start)
	}
	for _, h := range hits {
		assert.Equal(t, 30, h.End-h.Start)
	}
}

func TestBuildCandidatesForwardOrientation(t *testing.T) {
	seq := strings.Repeat("T", 24) + "AGG" + "TTT"
	cands := BuildCandidates("rec1", seq)
	require.Len(t, cands, 1)
	c := cands[0]
	assert.Equal(t, "rec1", c.ID)
	assert.Equal(t, seq, c.Sequence)
	assert.Equal(t, dna.RevComp(seq), c.ReverseComplement)
	assert.Equal(t, "AGG", c.PAM)
}

func TestBuildCandidatesReverseSwap(t *testing.T) {
	win := "TTT" + "CCT" + strings.Repeat("T", 24)
	cands := BuildCandidates("rec1", win)
	require.Len(t, cands, 1)
	c := cands[0]
	assert.Equal(t, "-", c.Strand)
	// Sequence must be the NGG-oriented reverse complement of the window.
	assert.Equal(t, dna.RevComp(win), c.Sequence)
	assert.Equal(t, win, c.ReverseComplement)
	// PAM trails the reported sequence.
	assert.Equal(t, "AGG", c.Sequence[24:27])
}

func TestBuildCandidatesOrientationRoundTrip(t *testing.T) {
	seq := "TTTCCA" + strings.Repeat("T", 18) + "TGG" + "TTT"
	for _, c := range BuildCandidates("r", seq) {
		assert.Equal(t, c.ReverseComplement, dna.RevComp(c.Sequence), "strand %s", c.Strand)
		assert.Equal(t, c.Sequence, dna.RevComp(c.ReverseComplement), "strand %s", c.Strand)
	}
}
