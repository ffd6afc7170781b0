// core/dna/dna.go
package dna

import "strings"

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'
}

// Normalize uppercases a nucleotide string and substitutes U with T so
// RNA input scans like DNA.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToUpper(s), "U", "T")
}

// RevComp returns the reverse complement of seq. Unknown characters
// complement to N.
func RevComp(seq string) string {
	n := len(seq)
	if n == 0 {
		return ""
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}

// Unambiguous reports whether b is one of the four concrete bases.
// Ambiguity codes (N, R, Y, ...) are rejected.
func Unambiguous(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}
