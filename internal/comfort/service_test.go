package comfort

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfortsense/internal/model"
	"comfortsense/internal/types"
)

// stubRegressor returns a fixed value or error.
type stubRegressor struct {
	value float64
	err   error

	mu       sync.Mutex
	lastSeen types.FeatureVector
}

func (r *stubRegressor) Kind() model.Kind { return model.KindLinear }

func (r *stubRegressor) Predict(features types.FeatureVector) (float64, error) {
	r.mu.Lock()
	r.lastSeen = features
	r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return r.value, nil
}

// stubProvider wires stub regressors into the ModelProvider contract.
type stubProvider struct {
	pmv, ppd *stubRegressor
}

func (p *stubProvider) PMV() (model.Regressor, bool) {
	if p.pmv == nil {
		return nil, false
	}
	return p.pmv, true
}

func (p *stubProvider) PPD() (model.Regressor, bool) {
	if p.ppd == nil {
		return nil, false
	}
	return p.ppd, true
}

// countingRecorder tallies RecordPrediction calls per source.
type countingRecorder struct {
	mu     sync.Mutex
	counts map[types.PredictionSource]int
}

func (r *countingRecorder) RecordPrediction(source types.PredictionSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[types.PredictionSource]int)
	}
	r.counts[source]++
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultParams() types.DesignParameters {
	return types.DesignParameters{
		WallWidthM:  3.5,
		RoomDepthM:  5.0,
		WWR:         0.4,
		Orientation: types.OrientationSouth,
		Month:       types.MonthJul,
	}
}

func TestEvaluate_ModelPrediction(t *testing.T) {
	provider := &stubProvider{
		pmv: &stubRegressor{value: 0.731},
		ppd: &stubRegressor{value: 16.24},
	}
	recorder := &countingRecorder{}
	svc := NewService(provider, testLogger(), recorder)

	got, err := svc.Evaluate(context.Background(), defaultParams())
	require.NoError(t, err)

	assert.Equal(t, types.SourceModel, got.Source)
	assert.Equal(t, 0.73, got.Prediction.PMV, "pmv rounds to 2 decimals")
	assert.Equal(t, 16.2, got.Prediction.PPD, "ppd rounds to 1 decimal")
	assert.False(t, got.Comfortable, "pmv 0.73 is outside the comfort band")
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.GeneratedAt.IsZero())
	assert.Equal(t, types.FeatureVector{7, 3.5, 5.0, 180, 0.4}, got.Features)
	assert.Equal(t, defaultParams(), got.Parameters)

	// Both regressors see the same encoded vector.
	assert.Equal(t, got.Features, provider.pmv.lastSeen)
	assert.Equal(t, got.Features, provider.ppd.lastSeen)

	assert.Equal(t, 1, recorder.counts[types.SourceModel])
}

func TestEvaluate_ComfortBand(t *testing.T) {
	tests := []struct {
		pmv  float64
		want bool
	}{
		{-0.5, true},
		{0.0, true},
		{0.5, true},
		{0.51, false},
		{-0.51, false},
		{1.2, false},
	}

	for _, tt := range tests {
		provider := &stubProvider{
			pmv: &stubRegressor{value: tt.pmv},
			ppd: &stubRegressor{value: 10},
		}
		svc := NewService(provider, testLogger(), nil)

		got, err := svc.Evaluate(context.Background(), defaultParams())
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Comfortable, "pmv=%v", tt.pmv)
	}
}

func TestEvaluate_FallbackWhenModelMissing(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
	}{
		{"pmv missing", &stubProvider{ppd: &stubRegressor{value: 10}}},
		{"ppd missing", &stubProvider{pmv: &stubRegressor{value: 0.2}}},
		{"both missing", &stubProvider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &countingRecorder{}
			svc := NewService(tt.provider, testLogger(), recorder)

			got, err := svc.Evaluate(context.Background(), defaultParams())
			require.NoError(t, err, "a missing model degrades, never fails")

			assert.Equal(t, types.SourceFallback, got.Source)
			assert.Equal(t, types.FallbackPMV, got.Prediction.PMV)
			assert.Equal(t, types.FallbackPPD, got.Prediction.PPD)
			assert.True(t, got.Comfortable, "fallback pmv 0.0 sits inside the band")
			assert.Equal(t, 1, recorder.counts[types.SourceFallback])
		})
	}
}

func TestEvaluate_FallbackWhenPredictFails(t *testing.T) {
	provider := &stubProvider{
		pmv: &stubRegressor{err: errors.New("tree cycle")},
		ppd: &stubRegressor{value: 10},
	}
	svc := NewService(provider, testLogger(), nil)

	got, err := svc.Evaluate(context.Background(), defaultParams())
	require.NoError(t, err)
	assert.Equal(t, types.SourceFallback, got.Source)
	assert.Equal(t, types.FallbackPMV, got.Prediction.PMV)
	assert.Equal(t, types.FallbackPPD, got.Prediction.PPD)
}

func TestEvaluate_Rounding(t *testing.T) {
	tests := []struct {
		rawPMV, rawPPD   float64
		wantPMV, wantPPD float64
	}{
		{0.005, 5.06, 0.01, 5.1},
		{-0.005, 12.34, -0.01, 12.3},
		{0.731, 16.26, 0.73, 16.3},
		{0.0, 5.0, 0.0, 5.0},
	}

	for _, tt := range tests {
		provider := &stubProvider{
			pmv: &stubRegressor{value: tt.rawPMV},
			ppd: &stubRegressor{value: tt.rawPPD},
		}
		svc := NewService(provider, testLogger(), nil)

		got, err := svc.Evaluate(context.Background(), defaultParams())
		require.NoError(t, err)
		assert.InDelta(t, tt.wantPMV, got.Prediction.PMV, 1e-9, "pmv raw=%v", tt.rawPMV)
		assert.InDelta(t, tt.wantPPD, got.Prediction.PPD, 1e-9, "ppd raw=%v", tt.rawPPD)
	}
}

func TestEvaluate_RejectsBadEnumsBeforePredicting(t *testing.T) {
	provider := &stubProvider{
		pmv: &stubRegressor{value: 0.1},
		ppd: &stubRegressor{value: 8},
	}
	svc := NewService(provider, testLogger(), nil)

	params := defaultParams()
	params.Orientation = "Up"
	_, err := svc.Evaluate(context.Background(), params)
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidationInvalidOrientation, appErr.Code)
}

func TestEvaluate_Idempotent(t *testing.T) {
	provider := &stubProvider{
		pmv: &stubRegressor{value: 0.42},
		ppd: &stubRegressor{value: 9.87},
	}
	svc := NewService(provider, testLogger(), nil)

	a, err := svc.Evaluate(context.Background(), defaultParams())
	require.NoError(t, err)
	b, err := svc.Evaluate(context.Background(), defaultParams())
	require.NoError(t, err)

	assert.Equal(t, a.Prediction, b.Prediction)
	assert.Equal(t, a.Features, b.Features)
	assert.NotEqual(t, a.ID, b.ID, "each assessment gets its own identifier")
}
