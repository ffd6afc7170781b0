// core/seqfeat/seqfeat.go

// Package seqfeat computes per-base composition features for a
// canonically oriented guide+PAM sequence: positional one-hots
// (pos<k>_<base>), dinucleotide one-hots (di<k>_<pair>) and GC content.
// The schema is fixed for a given window length so every candidate row
// carries the same columns.
package seqfeat

import (
	"fmt"

	"treecrispr/core/dna"
)

var bases = []byte{'A', 'C', 'G', 'T'}

// Schema returns the full ordered feature-name list for windows of n
// bases: n*4 positional, (n-1)*16 dinucleotide, plus gc_content.
func Schema(n int) []string {
	out := make([]string, 0, n*4+(n-1)*16+1)
	for k := 0; k < n; k++ {
		for _, b := range bases {
			out = append(out, fmt.Sprintf("pos%d_%c", k, b))
		}
	}
	for k := 0; k < n-1; k++ {
		for _, a := range bases {
			for _, b := range bases {
				out = append(out, fmt.Sprintf("di%d_%c%c", k, a, b))
			}
		}
	}
	out = append(out, "gc_content")
	return out
}

// Features maps seq onto the positional schema. Deterministic and total:
// ambiguous bases simply light no one-hot at their position.
func Features(seq string) map[string]float64 {
	s := dna.Normalize(seq)
	feats := make(map[string]float64, len(s)*4+(len(s)-1)*16+1)

	gc := 0
	for k := 0; k < len(s); k++ {
		b := s[k]
		if dna.Unambiguous(b) {
			feats[fmt.Sprintf("pos%d_%c", k, b)] = 1
		}
		if b == 'G' || b == 'C' {
			gc++
		}
		if k+1 < len(s) && dna.Unambiguous(b) && dna.Unambiguous(s[k+1]) {
			feats[fmt.Sprintf("di%d_%s", k, s[k:k+2])] = 1
		}
	}
	if len(s) > 0 {
		feats["gc_content"] = float64(gc) / float64(len(s))
	} else {
		feats["gc_content"] = 0
	}
	return feats
}
