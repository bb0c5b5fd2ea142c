package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfortsense/internal/types"
)

func TestLinearRegressor_Predict(t *testing.T) {
	doc := &artifact{
		Kind:      KindLinear,
		NFeatures: types.FeatureCount,
		Linear: &linearSpec{
			Intercept:    1.5,
			Coefficients: []float64{0.1, 0.2, 0.0, -0.01, 2.0},
		},
	}
	reg, err := newRegressor(doc)
	require.NoError(t, err)
	assert.Equal(t, KindLinear, reg.Kind())

	// 1.5 + 0.1*7 + 0.2*3.5 + 0 + -0.01*180 + 2*0.4
	got, err := reg.Predict(types.FeatureVector{7, 3.5, 5.0, 180, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 1.9, got, 1e-9)
}

func TestGBRTRegressor_Predict(t *testing.T) {
	// Single stump on the orientation feature: <=90 -> -1.0, else 2.0.
	doc := &artifact{
		Kind:      KindGBRT,
		NFeatures: types.FeatureCount,
		GBRT: &gbrtSpec{
			BaseScore:    0.5,
			LearningRate: 0.1,
			Trees: []tree{{
				Feature:   []int{3, -1, -1},
				Threshold: []float64{90, 0, 0},
				Left:      []int{1, 0, 0},
				Right:     []int{2, 0, 0},
				Value:     []float64{0, -1.0, 2.0},
			}},
		},
	}
	reg, err := newRegressor(doc)
	require.NoError(t, err)
	assert.Equal(t, KindGBRT, reg.Kind())

	south, err := reg.Predict(types.FeatureVector{7, 3.5, 5.0, 180, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 0.5+0.1*2.0, south, 1e-9)

	east, err := reg.Predict(types.FeatureVector{7, 3.5, 5.0, 90, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 0.5+0.1*-1.0, east, 1e-9, "split is <= threshold")
}

func TestGBRTRegressor_MultipleTreesAccumulate(t *testing.T) {
	leaf := func(v float64) tree {
		return tree{
			Feature:   []int{-1},
			Threshold: []float64{0},
			Left:      []int{0},
			Right:     []int{0},
			Value:     []float64{v},
		}
	}
	doc := &artifact{
		Kind:      KindGBRT,
		NFeatures: types.FeatureCount,
		GBRT: &gbrtSpec{
			BaseScore:    10.0,
			LearningRate: 0.5,
			Trees:        []tree{leaf(1), leaf(2), leaf(3)},
		},
	}
	reg, err := newRegressor(doc)
	require.NoError(t, err)

	got, err := reg.Predict(types.FeatureVector{})
	require.NoError(t, err)
	assert.InDelta(t, 10.0+0.5*6.0, got, 1e-9)
}

func TestArtifactValidate_Rejections(t *testing.T) {
	valid := func() *artifact {
		return &artifact{
			Kind:      KindLinear,
			NFeatures: types.FeatureCount,
			Linear: &linearSpec{
				Coefficients: make([]float64, types.FeatureCount),
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*artifact)
		wantErr string
	}{
		{
			name:    "wrong feature count",
			mutate:  func(a *artifact) { a.NFeatures = 8 },
			wantErr: "features",
		},
		{
			name:    "unknown kind",
			mutate:  func(a *artifact) { a.Kind = "svm" },
			wantErr: "unknown artifact kind",
		},
		{
			name:    "missing linear section",
			mutate:  func(a *artifact) { a.Linear = nil },
			wantErr: "requires a linear section",
		},
		{
			name:    "coefficient width mismatch",
			mutate:  func(a *artifact) { a.Linear.Coefficients = []float64{1, 2} },
			wantErr: "coefficients",
		},
		{
			name: "gbrt without trees",
			mutate: func(a *artifact) {
				a.Kind = KindGBRT
				a.GBRT = &gbrtSpec{}
			},
			wantErr: "no trees",
		},
		{
			name: "tree references bad feature",
			mutate: func(a *artifact) {
				a.Kind = KindGBRT
				a.GBRT = &gbrtSpec{Trees: []tree{{
					Feature:   []int{9},
					Threshold: []float64{0},
					Left:      []int{0},
					Right:     []int{0},
					Value:     []float64{0},
				}}}
			},
			wantErr: "references feature",
		},
		{
			name: "tree array length mismatch",
			mutate: func(a *artifact) {
				a.Kind = KindGBRT
				a.GBRT = &gbrtSpec{Trees: []tree{{
					Feature:   []int{-1, -1},
					Threshold: []float64{0},
					Left:      []int{0},
					Right:     []int{0},
					Value:     []float64{0},
				}}}
			},
			wantErr: "inconsistent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)
			_, err := newRegressor(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGBRTRegressor_CycleTerminates(t *testing.T) {
	// Two internal nodes pointing at each other: structurally valid per the
	// static checks, but traversal never reaches a leaf.
	cyclic := tree{
		Feature:   []int{0, 0},
		Threshold: []float64{100, 100},
		Left:      []int{1, 0},
		Right:     []int{1, 0},
		Value:     []float64{0, 0},
	}
	reg := &gbrtRegressor{learningRate: 1, trees: []tree{cyclic}}

	_, err := reg.Predict(types.FeatureVector{7, 3.5, 5.0, 180, 0.4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
