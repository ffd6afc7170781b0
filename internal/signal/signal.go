// internal/signal/signal.go

// Package signal maps candidate windows back to absolute genome
// coordinates and merges indexed-track values into a fixed feature
// schema. Extraction never fails: every expected {source}_{extension}
// key is pre-declared at zero and only overwritten when a region, a
// track file and a query result are all available.
package signal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"treecrispr/core/scan"
	"treecrispr/internal/track"

	"github.com/sirupsen/logrus"
)

var coordRE = regexp.MustCompile(`(?i)(chr\w+|\b[0-9XYM]+)\s*:\s*([0-9,]+)\s*-\s*([0-9,]+)`)

// Region is a parsed genomic interval in 0-based half-open coordinates.
type Region struct {
	Chrom string
	Start int
	End   int
}

// ParseRegion extracts a region token from a record identifier. The
// chromosome keeps or gains its "chr" prefix and is lowercased; thousands
// separators are stripped; a positive 1-based start is converted to
// 0-based exactly once. Returns false when no token parses.
func ParseRegion(id string) (Region, bool) {
	m := coordRE.FindStringSubmatch(id)
	if m == nil {
		return Region{}, false
	}
	chrom := m[1]
	if !strings.HasPrefix(strings.ToLower(chrom), "chr") {
		chrom = "chr" + chrom
	}
	start, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return Region{}, false
	}
	end, err := strconv.Atoi(strings.ReplaceAll(m[3], ",", ""))
	if err != nil {
		return Region{}, false
	}
	if start > 0 {
		start--
	}
	return Region{Chrom: strings.ToLower(chrom), Start: start, End: end}, true
}

// Querier aggregates signal for the given track files over an interval,
// keyed by file stem and extension. track.Query is the production
// implementation.
type Querier func(paths []string, chrom string, start0, end0 int, extensions []int, agg string) (map[string]float64, error)

// Extractor resolves expected track sources against a directory and
// computes the signal feature block for candidates.
type Extractor struct {
	Dir         string
	Expected    []string
	Extensions  []int
	Aggregation string
	Query       Querier
	Log         logrus.FieldLogger

	mu      sync.Mutex
	regions map[string]*Region // parse cache per identifier, nil = unparsable
}

// New returns an Extractor querying real track files under dir.
func New(dir string, expected []string, extensions []int, agg string, log logrus.FieldLogger) *Extractor {
	return &Extractor{
		Dir:         dir,
		Expected:    expected,
		Extensions:  extensions,
		Aggregation: agg,
		Query:       track.Query,
		Log:         log,
	}
}

// Schema returns the fixed ordered key list: expected sources crossed
// with extensions.
func (e *Extractor) Schema() []string {
	out := make([]string, 0, len(e.Expected)*len(e.Extensions))
	for _, base := range e.Expected {
		for _, ext := range e.Extensions {
			out = append(out, fmt.Sprintf("%s_%d", base, ext))
		}
	}
	return out
}

func (e *Extractor) zeroed() map[string]float64 {
	feats := make(map[string]float64, len(e.Expected)*len(e.Extensions))
	for _, k := range e.Schema() {
		feats[k] = 0.0
	}
	return feats
}

func (e *Extractor) region(id string) *Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.regions == nil {
		e.regions = make(map[string]*Region)
	}
	if r, ok := e.regions[id]; ok {
		return r
	}
	var r *Region
	if parsed, ok := ParseRegion(id); ok {
		r = &parsed
	}
	e.regions[id] = r
	return r
}

// resolve maps each expected source name to one on-disk file by
// case-insensitive prefix match; with several matches the shortest file
// name wins. A missing or empty directory resolves nothing.
func (e *Extractor) resolve() map[string]string {
	mapping := make(map[string]string)
	entries, err := os.ReadDir(e.Dir)
	if err != nil {
		return mapping
	}
	var names []string
	for _, ent := range entries {
		if !ent.IsDir() {
			names = append(names, ent.Name())
		}
	}
	for _, expected := range e.Expected {
		var cands []string
		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(expected)) {
				cands = append(cands, n)
			}
		}
		if len(cands) == 0 {
			continue
		}
		sort.Slice(cands, func(i, j int) bool {
			if len(cands[i]) != len(cands[j]) {
				return len(cands[i]) < len(cands[j])
			}
			return cands[i] < cands[j]
		})
		mapping[expected] = filepath.Join(e.Dir, cands[0])
	}
	return mapping
}

// Features computes the signal feature block for one candidate. The full
// schema always comes back; values stay zero when the identifier has no
// region, no track resolves, or the query fails.
func (e *Extractor) Features(c scan.Candidate) map[string]float64 {
	feats := e.zeroed()

	reg := e.region(c.ID)
	if reg == nil {
		return feats
	}
	absStart := reg.Start + c.Start
	absEnd := reg.Start + c.End

	fileMap := e.resolve()
	if len(fileMap) == 0 {
		return feats
	}

	paths := make([]string, 0, len(fileMap))
	for _, p := range fileMap {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	vals, err := e.Query(paths, reg.Chrom, absStart, absEnd, e.Extensions, e.Aggregation)
	if err != nil {
		if e.Log != nil {
			e.Log.Warnf("signal features failed for %s: %v", c.ID, err)
		}
		return feats
	}

	// Query keys are scoped by file stem; remap onto expected names.
	for expected, path := range fileMap {
		stem := track.Stem(path)
		for _, ext := range e.Extensions {
			if v, ok := vals[fmt.Sprintf("%s_%d", stem, ext)]; ok {
				feats[fmt.Sprintf("%s_%d", expected, ext)] = v
			}
		}
	}
	return feats
}
