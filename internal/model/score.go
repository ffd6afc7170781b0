// internal/model/score.go
package model

import (
	"math"

	"treecrispr/core/frame"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ScoreTable scores the feature table against every registered model and
// returns one column per model, in registry order, one row per table
// row. Each model is scored independently through an ordered list of
// binding strategies:
//
//  1. bind columns by feature name, table as-is;
//  2. on schema mismatch, rename positional columns to the flat
//     convention (pos0_A → A1) and rebind;
//  3. strip names entirely and bind by column position.
//
// A model exhausting all strategies (or failing for a reason other than
// a schema mismatch) gets a NaN-filled column; no other model is
// affected. Models run concurrently, each owning its column.
func ScoreTable(tb *frame.Table, reg *Registry, threads int, log logrus.FieldLogger) *frame.Table {
	out := frame.New(reg.Names())
	out.Resize(tb.Len())
	if tb.Len() == 0 || reg.Len() == 0 {
		return out
	}
	if threads < 1 {
		threads = 1
	}

	cols := make([][]float64, reg.Len())

	var g errgroup.Group
	g.SetLimit(threads)
	for i, e := range reg.Entries() {
		i, e := i, e
		g.Go(func() error {
			cols[i] = scoreOne(tb, e, log)
			return nil
		})
	}
	_ = g.Wait()

	for row := 0; row < tb.Len(); row++ {
		vals := make(map[string]float64, reg.Len())
		for i, e := range reg.Entries() {
			vals[e.Name] = cols[i][row]
		}
		_ = out.SetRow(row, vals)
	}
	return out
}

// scoreOne runs the fallback ladder for a single model and always
// returns a full column; failures fill NaN.
func scoreOne(tb *frame.Table, e Entry, log logrus.FieldLogger) []float64 {
	art := e.Artifact

	b, err := art.bindByName(tb)
	if err == nil {
		return art.predict(tb, b)
	}
	if !errors.Is(err, ErrSchemaMismatch) {
		if log != nil {
			log.Errorf("[skip] %s failed: %v", e.Name, err)
		}
		return nanColumn(tb.Len())
	}

	// Mismatch: retry with flat positional names.
	if log != nil {
		log.Infof("[%s] feature name mismatch, renaming columns and retrying", e.Name)
	}
	renamed, rerr := tb.WithColumns(FlatNames(tb.Columns()))
	if rerr == nil {
		if b, err = art.bindByName(renamed); err == nil {
			return art.predict(renamed, b)
		}
	}

	// Last resort: ignore names, bind by position.
	if log != nil {
		log.Warnf("[%s] renaming failed, binding features by position", e.Name)
	}
	if b, err = art.bindPositional(tb); err == nil {
		return art.predict(tb, b)
	}

	if log != nil {
		log.Errorf("[skip] %s failed all scoring attempts: %v", e.Name, err)
	}
	return nanColumn(tb.Len())
}

func nanColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}
