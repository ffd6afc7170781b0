// internal/pipeline/pipeline.go

// Package pipeline composes the scanner, the feature extractors and the
// model scorer into the end-to-end run: FASTA records in, one scored row
// per candidate out, in deterministic scan order.
package pipeline

import (
	"treecrispr/core/fasta"
	"treecrispr/core/frame"
	"treecrispr/core/scan"
	"treecrispr/core/seqfeat"
	"treecrispr/internal/model"
	"treecrispr/internal/signal"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Pipeline holds the run-wide collaborators and limits. Construct once
// per run; it has no mutable state of its own.
type Pipeline struct {
	MaxSeqLen int
	Threads   int
	Signal    *signal.Extractor
	Log       logrus.FieldLogger
}

// Result pairs candidate metadata with the per-model score table.
// Scores has one row per candidate, aligned by position.
type Result struct {
	Candidates []scan.Candidate
	Scores     *frame.Table
}

// Empty reports whether the run produced no candidates.
func (r *Result) Empty() bool { return len(r.Candidates) == 0 }

// ModelNames returns the score column names in registry order.
func (r *Result) ModelNames() []string { return r.Scores.Columns() }

// Run scans every record, computes the combined feature table and scores
// it against the models under modelDir. Oversized records are skipped
// with a warning. No candidates anywhere is an empty result, not an
// error; so is an empty model registry.
func (p *Pipeline) Run(records []fasta.Record, modelDir string) (*Result, error) {
	var cands []scan.Candidate
	for _, rec := range records {
		if p.MaxSeqLen > 0 && len(rec.Seq) > p.MaxSeqLen {
			if p.Log != nil {
				p.Log.Warnf("skipping %s: too long (%d > %d)", rec.ID, len(rec.Seq), p.MaxSeqLen)
			}
			continue
		}
		cands = append(cands, scan.BuildCandidates(rec.ID, rec.Seq)...)
	}
	if len(cands) == 0 {
		return &Result{Scores: frame.New(nil)}, nil
	}

	if p.Log != nil {
		p.Log.Infof("computing features for %d candidates", len(cands))
	}
	table, err := p.featureTable(cands)
	if err != nil {
		return nil, err
	}

	reg := model.LoadRegistry(modelDir, p.Log)
	scores := model.ScoreTable(table, reg, p.threads(), p.Log)

	return &Result{Candidates: cands, Scores: scores}, nil
}

func (p *Pipeline) threads() int {
	if p.Threads < 1 {
		return 1
	}
	return p.Threads
}

// featureTable builds the fixed-schema numeric table: sequence
// composition features plus the genomic-signal block. Candidates are
// independent, so rows are filled by indexed workers and the table keeps
// scan order.
func (p *Pipeline) featureTable(cands []scan.Candidate) (*frame.Table, error) {
	schema := seqfeat.Schema(scan.WindowLen)
	schema = append(schema, p.Signal.Schema()...)

	table := frame.New(schema)
	table.Resize(len(cands))

	var g errgroup.Group
	g.SetLimit(p.threads())
	for i := range cands {
		i := i
		g.Go(func() error {
			c := cands[i]
			feats := seqfeat.Features(c.Sequence)
			for k, v := range p.Signal.Features(c) {
				feats[k] = v
			}
			return table.SetRow(i, feats)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}
