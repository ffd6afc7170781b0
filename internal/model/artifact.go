// internal/model/artifact.go
package model

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"treecrispr/core/frame"

	"github.com/pkg/errors"
)

// Artifact kinds.
const (
	KindClassifier = "classifier"
	KindRegressor  = "regressor"
)

// ErrSchemaMismatch is returned when an artifact's declared input schema
// cannot be bound to the feature table presented to it. The scorer keys
// its rename/positional fallbacks off this sentinel instead of sniffing
// error text.
var ErrSchemaMismatch = errors.New("model: feature schema mismatch")

// Node is one split or leaf of a regression tree. Splits reference
// features by name; rows with value < Threshold go Left, else Right.
type Node struct {
	Feature   string  `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// Tree is a flat node array; index 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is a serialized pre-trained tree ensemble. FeatureNames, when
// present, declares the ordered input schema the ensemble was trained
// against; positional binding uses that order. For classifiers with
// NumClass > 2, tree t contributes to class t mod NumClass.
type Artifact struct {
	Kind         string   `json:"kind"`
	FeatureNames []string `json:"feature_names,omitempty"`
	NumClass     int      `json:"num_class,omitempty"`
	BaseScore    float64  `json:"base_score"`
	Trees        []Tree   `json:"trees"`
}

// DecodeArtifact reads and validates one artifact.
func DecodeArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	if err := dec.Decode(&a); err != nil {
		return nil, errors.Wrap(err, "model: decode artifact")
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadArtifact decodes the artifact file at path.
func LoadArtifact(path string) (*Artifact, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "model: open artifact")
	}
	defer func() { _ = fh.Close() }()
	return DecodeArtifact(fh)
}

func (a *Artifact) validate() error {
	if a.Kind != KindClassifier && a.Kind != KindRegressor {
		return errors.Errorf("model: unknown artifact kind %q", a.Kind)
	}
	if len(a.Trees) == 0 {
		return errors.New("model: artifact has no trees")
	}
	named := make(map[string]struct{}, len(a.FeatureNames))
	for _, n := range a.FeatureNames {
		named[n] = struct{}{}
	}
	for ti, tr := range a.Trees {
		if len(tr.Nodes) == 0 {
			return errors.Errorf("model: tree %d is empty", ti)
		}
		for ni, nd := range tr.Nodes {
			if nd.Leaf {
				continue
			}
			if nd.Feature == "" {
				return errors.Errorf("model: tree %d node %d: split without feature", ti, ni)
			}
			// Children must point forward in the flat array, which also
			// guarantees evaluation terminates.
			if nd.Left <= ni || nd.Left >= len(tr.Nodes) || nd.Right <= ni || nd.Right >= len(tr.Nodes) {
				return errors.Errorf("model: tree %d node %d: child out of range", ti, ni)
			}
			if len(named) > 0 {
				if _, ok := named[nd.Feature]; !ok {
					return errors.Errorf("model: tree %d node %d: split on undeclared feature %q", ti, ni, nd.Feature)
				}
			}
		}
	}
	return nil
}

// binding maps each feature name used by the ensemble to a column index
// in a concrete table.
type binding map[string]int

// bindByName matches artifact feature names against table column names.
func (a *Artifact) bindByName(tb *frame.Table) (binding, error) {
	cols := tb.Columns()
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
	}
	b := make(binding)
	var missing []string
	for _, name := range a.requiredFeatures() {
		if i, ok := idx[name]; ok {
			b[name] = i
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrSchemaMismatch, "%d features absent from table (first: %s)", len(missing), missing[0])
	}
	return b, nil
}

// bindPositional ignores table column names entirely: declared feature i
// reads table column i. Requires the artifact to declare its schema and
// the table to be at least that wide.
func (a *Artifact) bindPositional(tb *frame.Table) (binding, error) {
	if len(a.FeatureNames) == 0 {
		return nil, errors.Wrap(ErrSchemaMismatch, "artifact declares no feature order")
	}
	if tb.Width() < len(a.FeatureNames) {
		return nil, errors.Wrapf(ErrSchemaMismatch, "table has %d columns, artifact wants %d", tb.Width(), len(a.FeatureNames))
	}
	b := make(binding, len(a.FeatureNames))
	for i, name := range a.FeatureNames {
		b[name] = i
	}
	return b, nil
}

// requiredFeatures is the declared schema when present, otherwise the
// set of split features in tree order of first use.
func (a *Artifact) requiredFeatures() []string {
	if len(a.FeatureNames) > 0 {
		return a.FeatureNames
	}
	seen := make(map[string]struct{})
	var out []string
	for _, tr := range a.Trees {
		for _, nd := range tr.Nodes {
			if nd.Leaf || nd.Feature == "" {
				continue
			}
			if _, ok := seen[nd.Feature]; !ok {
				seen[nd.Feature] = struct{}{}
				out = append(out, nd.Feature)
			}
		}
	}
	return out
}

func (tr *Tree) eval(row []float64, b binding) float64 {
	n := tr.Nodes[0]
	for !n.Leaf {
		if row[b[n.Feature]] < n.Threshold {
			n = tr.Nodes[n.Left]
		} else {
			n = tr.Nodes[n.Right]
		}
	}
	return n.Value
}

// predict scores every table row through the bound ensemble. Classifiers
// return the positive-class probability for two classes and the maximum
// per-row class probability otherwise; regressors return the raw sum.
func (a *Artifact) predict(tb *frame.Table, b binding) []float64 {
	out := make([]float64, tb.Len())
	classes := a.NumClass
	if a.Kind == KindClassifier && classes < 2 {
		classes = 2
	}

	for i := 0; i < tb.Len(); i++ {
		row := tb.Row(i)

		if a.Kind == KindRegressor {
			sum := a.BaseScore
			for t := range a.Trees {
				sum += a.Trees[t].eval(row, b)
			}
			out[i] = sum
			continue
		}

		if classes == 2 {
			margin := a.BaseScore
			for t := range a.Trees {
				margin += a.Trees[t].eval(row, b)
			}
			out[i] = sigmoid(margin)
			continue
		}

		// Multi-class: round-robin tree grouping, softmax, max probability.
		margins := make([]float64, classes)
		for c := range margins {
			margins[c] = a.BaseScore
		}
		for t := range a.Trees {
			margins[t%classes] += a.Trees[t].eval(row, b)
		}
		out[i] = maxSoftmax(margins)
	}
	return out
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func maxSoftmax(margins []float64) float64 {
	peak := margins[0]
	for _, m := range margins[1:] {
		if m > peak {
			peak = m
		}
	}
	var sum, top float64
	for _, m := range margins {
		e := math.Exp(m - peak)
		sum += e
		if e > top {
			top = e
		}
	}
	return top / sum
}
