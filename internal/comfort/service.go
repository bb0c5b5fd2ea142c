package comfort

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"comfortsense/internal/model"
	"comfortsense/internal/types"
)

// ModelProvider supplies the loaded regressors. The second return is false
// when the corresponding artifact is unavailable; the service then degrades
// to the fixed fallback prediction instead of failing the request.
type ModelProvider interface {
	PMV() (model.Regressor, bool)
	PPD() (model.Regressor, bool)
}

// PredictionRecorder counts served predictions by source. Implementations
// must be non-blocking; a nil recorder disables counting.
type PredictionRecorder interface {
	RecordPrediction(source types.PredictionSource)
}

// Assessment is one complete evaluation of a design: the echoed inputs, the
// encoded feature vector, and the comfort prediction with its provenance.
type Assessment struct {
	ID          string                  `json:"id"`
	Parameters  types.DesignParameters  `json:"parameters"`
	Features    types.FeatureVector     `json:"features"`
	Prediction  types.ComfortPrediction `json:"prediction"`
	Source      types.PredictionSource  `json:"source"`
	Comfortable bool                    `json:"comfortable"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Service evaluates design parameters into comfort assessments. It is
// stateless apart from its injected dependencies and safe for concurrent use.
type Service struct {
	models   ModelProvider
	logger   *slog.Logger
	recorder PredictionRecorder
}

// NewService constructs the evaluation service. recorder may be nil.
func NewService(models ModelProvider, logger *slog.Logger, recorder PredictionRecorder) *Service {
	return &Service{
		models:   models,
		logger:   logger,
		recorder: recorder,
	}
}

// Evaluate encodes the parameters and runs both regressors. Parameters must
// already be validated at the API boundary; an out-of-enum value here still
// returns an error rather than a bogus prediction.
//
// A missing regressor or a prediction failure degrades the result to the
// fixed fallback values. Both indices fall back together: mixing a real PMV
// with a fallback PPD would present an internally inconsistent result.
func (s *Service) Evaluate(ctx context.Context, params types.DesignParameters) (*Assessment, error) {
	features, err := BuildFeatureVector(params)
	if err != nil {
		return nil, err
	}

	prediction, source := s.predict(ctx, features)

	if s.recorder != nil {
		s.recorder.RecordPrediction(source)
	}

	return &Assessment{
		ID:          uuid.NewString(),
		Parameters:  params,
		Features:    features,
		Prediction:  prediction,
		Source:      source,
		Comfortable: prediction.Comfortable(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// predict runs both regressors, falling back as a pair on any failure.
func (s *Service) predict(ctx context.Context, features types.FeatureVector) (types.ComfortPrediction, types.PredictionSource) {
	var logger types.Logger = s.logger
	if ctxLogger := types.LoggerFromContext(ctx); ctxLogger != nil {
		logger = ctxLogger
	}

	pmvModel, pmvOK := s.models.PMV()
	ppdModel, ppdOK := s.models.PPD()
	if !pmvOK || !ppdOK {
		logger.Warn("regressor unavailable, serving fallback prediction",
			"pmv_loaded", pmvOK,
			"ppd_loaded", ppdOK)
		return fallbackPrediction(), types.SourceFallback
	}

	pmv, err := pmvModel.Predict(features)
	if err != nil {
		logger.Error("pmv prediction failed, serving fallback", "error", err)
		return fallbackPrediction(), types.SourceFallback
	}

	ppd, err := ppdModel.Predict(features)
	if err != nil {
		logger.Error("ppd prediction failed, serving fallback", "error", err)
		return fallbackPrediction(), types.SourceFallback
	}

	return types.ComfortPrediction{
		PMV: roundTo(pmv, 2),
		PPD: roundTo(ppd, 1),
	}, types.SourceModel
}

func fallbackPrediction() types.ComfortPrediction {
	return types.ComfortPrediction{
		PMV: types.FallbackPMV,
		PPD: types.FallbackPPD,
	}
}

// roundTo rounds half away from zero at the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
