// core/scan/scan.go
package scan

import "treecrispr/core/dna"

// WindowLen is the guide+PAM window scanned as a unit: a 20 nt protospacer
// with 4 nt of upstream and 3 nt of downstream context around the NGG.
const WindowLen = 30

// Within the 30-mer, the PAM occupies positions 24-26 on the forward
// strand; the complementary CCN pattern sits at 3-5 when the guide lies
// on the reverse strand.
const (
	fwdPAMStart = 24
	revPAMStart = 3
)

// Hit is a raw scanner match: a half-open window over the normalized
// input plus the strand and the exact PAM realization. The PAM is always
// reported in NGG orientation, so reverse hits carry the reverse
// complement of the genomic CCN literal.
type Hit struct {
	Start  int
	End    int
	Strand string
	PAM    string
}

// Candidate is a normalized guide record. Sequence always reads 5'→3'
// with the PAM trailing it, whichever genomic strand the hit came from;
// ReverseComplement holds the opposite orientation of the same interval.
type Candidate struct {
	ID                string
	Start             int
	End               int
	Strand            string
	Sequence          string
	ReverseComplement string
	PAM               string
}

// Scan enumerates every 30-mer window of seq and reports strict-PAM hits
// on both strands. A window can hit on neither, one, or both strands.
// Sequences shorter than WindowLen yield no hits.
func Scan(seq string) []Hit {
	s := dna.Normalize(seq)
	var hits []Hit
	for i := 0; i+WindowLen <= len(s); i++ {
		w := s[i : i+WindowLen]

		// Forward strand: N(24) G(25) G(26), N restricted to ACGT.
		if w[fwdPAMStart+1] == 'G' && w[fwdPAMStart+2] == 'G' && dna.Unambiguous(w[fwdPAMStart]) {
			hits = append(hits, Hit{
				Start:  i,
				End:    i + WindowLen,
				Strand: "+",
				PAM:    w[fwdPAMStart : fwdPAMStart+3],
			})
		}

		// Reverse strand: C(3) C(4) N(5) on the forward literal.
		if w[revPAMStart] == 'C' && w[revPAMStart+1] == 'C' && dna.Unambiguous(w[revPAMStart+2]) {
			hits = append(hits, Hit{
				Start:  i,
				End:    i + WindowLen,
				Strand: "-",
				PAM:    dna.RevComp(w[revPAMStart : revPAMStart+3]),
			})
		}
	}
	return hits
}

// BuildCandidates scans seq and normalizes every hit into a Candidate
// carrying the record identifier. For reverse-strand hits the window and
// its reverse complement are swapped so Sequence is guide+NGG oriented.
func BuildCandidates(id, seq string) []Candidate {
	s := dna.Normalize(seq)
	var out []Candidate
	for _, h := range Scan(s) {
		win := s[h.Start:h.End]
		rc := dna.RevComp(win)

		c := Candidate{
			ID:     id,
			Start:  h.Start,
			End:    h.End,
			Strand: h.Strand,
			PAM:    h.PAM,
		}
		if h.Strand == "+" {
			c.Sequence, c.ReverseComplement = win, rc
		} else {
			c.Sequence, c.ReverseComplement = rc, win
		}
		out = append(out, c)
	}
	return out
}
