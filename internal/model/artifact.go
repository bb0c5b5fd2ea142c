// Package model loads and evaluates the pre-trained regressor artifacts that
// back the comfort predictions. Artifacts are JSON documents (optionally
// zstd-compressed) exported by the training pipeline; this package treats
// them as opaque prediction capabilities with a fixed input width.
package model

import (
	"fmt"

	"comfortsense/internal/types"
)

// Kind identifies the regressor encoding inside an artifact.
type Kind string

const (
	// KindLinear is an ordinary least-squares style linear model:
	// intercept + dot(coefficients, features).
	KindLinear Kind = "linear"

	// KindGBRT is a gradient-boosted ensemble of flattened regression trees:
	// base_score + learning_rate * sum(tree responses).
	KindGBRT Kind = "gbrt"
)

// Regressor is the opaque prediction capability loaded from one artifact.
// Implementations are immutable and safe for concurrent use.
type Regressor interface {
	// Predict evaluates the regressor on one feature vector. The vector
	// layout is the training-time contract; Predict cannot detect a
	// reordered vector, only a wrong width.
	Predict(features types.FeatureVector) (float64, error)

	// Kind reports the artifact encoding.
	Kind() Kind
}

// artifact is the on-disk JSON document.
type artifact struct {
	SchemaVersion int         `json:"schema_version"`
	Kind          Kind        `json:"kind"`
	Target        string      `json:"target"`
	NFeatures     int         `json:"n_features"`
	Linear        *linearSpec `json:"linear,omitempty"`
	GBRT          *gbrtSpec   `json:"gbrt,omitempty"`
}

type linearSpec struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

type gbrtSpec struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []tree  `json:"trees"`
}

// tree is a flattened binary decision tree. Node i tests feature Feature[i]
// against Threshold[i]; Left/Right hold child node indexes. A Feature value
// of -1 marks a leaf whose response is Value[i].
type tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// leafMarker is the Feature entry that designates a leaf node.
const leafMarker = -1

// validate checks internal consistency of the decoded document so that a
// corrupt artifact is rejected at load time instead of producing garbage
// predictions later.
func (a *artifact) validate() error {
	if a.NFeatures != types.FeatureCount {
		return fmt.Errorf("artifact expects %d features, service supplies %d",
			a.NFeatures, types.FeatureCount)
	}

	switch a.Kind {
	case KindLinear:
		if a.Linear == nil {
			return fmt.Errorf("kind %q requires a linear section", a.Kind)
		}
		if len(a.Linear.Coefficients) != a.NFeatures {
			return fmt.Errorf("linear model has %d coefficients, expected %d",
				len(a.Linear.Coefficients), a.NFeatures)
		}
	case KindGBRT:
		if a.GBRT == nil {
			return fmt.Errorf("kind %q requires a gbrt section", a.Kind)
		}
		if len(a.GBRT.Trees) == 0 {
			return fmt.Errorf("gbrt model has no trees")
		}
		for i, tr := range a.GBRT.Trees {
			if err := tr.validate(a.NFeatures); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown artifact kind %q", a.Kind)
	}

	return nil
}

// validate checks that all node arrays are the same length and every
// reference (feature index, child index) is in range.
func (t *tree) validate(nFeatures int) error {
	n := len(t.Feature)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return fmt.Errorf("inconsistent node array lengths")
	}

	for i := 0; i < n; i++ {
		if t.Feature[i] == leafMarker {
			continue
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d references feature %d", i, t.Feature[i])
		}
		if t.Left[i] < 0 || t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
			return fmt.Errorf("node %d has out-of-range children", i)
		}
	}

	return nil
}

// linearRegressor evaluates a linear artifact.
type linearRegressor struct {
	intercept    float64
	coefficients []float64
}

func (m *linearRegressor) Kind() Kind { return KindLinear }

func (m *linearRegressor) Predict(features types.FeatureVector) (float64, error) {
	if len(m.coefficients) != len(features) {
		return 0, fmt.Errorf("feature width mismatch: model wants %d, got %d",
			len(m.coefficients), len(features))
	}

	score := m.intercept
	for i, c := range m.coefficients {
		score += c * features[i]
	}
	return score, nil
}

// gbrtRegressor evaluates a gradient-boosted tree ensemble.
type gbrtRegressor struct {
	baseScore    float64
	learningRate float64
	trees        []tree
}

func (m *gbrtRegressor) Kind() Kind { return KindGBRT }

func (m *gbrtRegressor) Predict(features types.FeatureVector) (float64, error) {
	score := m.baseScore
	for i := range m.trees {
		resp, err := m.trees[i].evaluate(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		score += m.learningRate * resp
	}
	return score, nil
}

// evaluate walks the tree from the root until it reaches a leaf. The hop
// count is bounded by the node count so a malformed child cycle terminates
// with an error instead of spinning.
func (t *tree) evaluate(features types.FeatureVector) (float64, error) {
	node := 0
	for hops := 0; hops <= len(t.Feature); hops++ {
		if t.Feature[node] == leafMarker {
			return t.Value[node], nil
		}
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return 0, fmt.Errorf("traversal did not reach a leaf (cycle in node table)")
}

// newRegressor converts a validated artifact into its runtime form.
func newRegressor(a *artifact) (Regressor, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	switch a.Kind {
	case KindLinear:
		return &linearRegressor{
			intercept:    a.Linear.Intercept,
			coefficients: a.Linear.Coefficients,
		}, nil
	case KindGBRT:
		return &gbrtRegressor{
			baseScore:    a.GBRT.BaseScore,
			learningRate: a.GBRT.LearningRate,
			trees:        a.GBRT.Trees,
		}, nil
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", a.Kind)
	}
}
