// Package comfort implements the prediction pipeline: design parameters are
// encoded into the model feature vector, evaluated against both regressors,
// and shaped into the assessment returned to the dashboard.
package comfort

import (
	"comfortsense/internal/types"
)

// BuildFeatureVector encodes validated design parameters into the ordered
// model input. The element order is the training-time contract:
//
//	[month index, wall width, room depth, orientation degrees, wwr]
//
// Unknown enum values return an error rather than a zero-filled slot, since a
// silently wrong encoding would yield plausible but meaningless predictions.
func BuildFeatureVector(params types.DesignParameters) (types.FeatureVector, error) {
	monthIdx, ok := params.Month.Index()
	if !ok {
		return types.FeatureVector{}, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidMonth,
			"month is not one of the twelve calendar labels",
			nil,
			map[string]any{"month": string(params.Month)},
		)
	}

	degrees, ok := params.Orientation.Degrees()
	if !ok {
		return types.FeatureVector{}, types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidOrientation,
			"orientation is not one of the four cardinal directions",
			nil,
			map[string]any{"orientation": string(params.Orientation)},
		)
	}

	return types.FeatureVector{
		float64(monthIdx),
		params.WallWidthM,
		params.RoomDepthM,
		degrees,
		params.WWR,
	}, nil
}
