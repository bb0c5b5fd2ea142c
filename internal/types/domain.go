// Package types defines the shared domain model for the ComfortSense
// platform: design parameters, the model feature vector, comfort predictions,
// and the error and context plumbing used across all components.
package types

import "time"

// Orientation is the compass direction the glazed wall faces.
// The set of values is fixed by the training data; anything else is a
// contract violation and must be rejected at the validation boundary.
type Orientation string

const (
	OrientationNorth Orientation = "North"
	OrientationEast  Orientation = "East"
	OrientationSouth Orientation = "South"
	OrientationWest  Orientation = "West"
)

// orientationDegrees maps each orientation onto the compass angle the
// regression models were trained with.
var orientationDegrees = map[Orientation]float64{
	OrientationNorth: 0,
	OrientationEast:  90,
	OrientationSouth: 180,
	OrientationWest:  270,
}

// Degrees returns the compass angle encoding of the orientation.
// ok is false for values outside the fixed enumeration.
func (o Orientation) Degrees() (float64, bool) {
	deg, ok := orientationDegrees[o]
	return deg, ok
}

// Valid reports whether the orientation is one of the four cardinal values.
func (o Orientation) Valid() bool {
	_, ok := orientationDegrees[o]
	return ok
}

// Orientations returns the enumeration in fixed compass order.
func Orientations() []Orientation {
	return []Orientation{OrientationNorth, OrientationEast, OrientationSouth, OrientationWest}
}

// Month is the three-letter calendar month label used by the training data.
type Month string

const (
	MonthJan Month = "Jan"
	MonthFeb Month = "Feb"
	MonthMar Month = "Mar"
	MonthApr Month = "Apr"
	MonthMay Month = "May"
	MonthJun Month = "Jun"
	MonthJul Month = "Jul"
	MonthAug Month = "Aug"
	MonthSep Month = "Sep"
	MonthOct Month = "Oct"
	MonthNov Month = "Nov"
	MonthDec Month = "Dec"
)

// monthOrder lists the months in calendar order. Index() derives the 1-based
// model encoding from the position in this slice.
var monthOrder = []Month{
	MonthJan, MonthFeb, MonthMar, MonthApr, MonthMay, MonthJun,
	MonthJul, MonthAug, MonthSep, MonthOct, MonthNov, MonthDec,
}

// monthIndex is the reverse lookup from label to 1-based calendar index.
var monthIndex = func() map[Month]int {
	m := make(map[Month]int, len(monthOrder))
	for i, month := range monthOrder {
		m[month] = i + 1
	}
	return m
}()

// Index returns the 1-based calendar index (Jan=1 .. Dec=12).
// ok is false for labels outside the fixed enumeration.
func (m Month) Index() (int, bool) {
	idx, ok := monthIndex[m]
	return idx, ok
}

// Valid reports whether the month is one of the twelve fixed labels.
func (m Month) Valid() bool {
	_, ok := monthIndex[m]
	return ok
}

// Months returns the enumeration in calendar order.
func Months() []Month {
	out := make([]Month, len(monthOrder))
	copy(out, monthOrder)
	return out
}

// Design parameter bounds. The API boundary enforces these ranges; the
// feature and geometry builders assume validated input.
const (
	MinWallWidthM = 0.5
	MaxWallWidthM = 5.0

	MinRoomDepthM = 2.0
	MaxRoomDepthM = 10.0

	MinWWR = 0.1
	MaxWWR = 0.9

	// RoomHeightM is the fixed room height used for both the glazing-area
	// calculation and the rendered preview volume.
	RoomHeightM = 3.0
)

// Dashboard control defaults.
const (
	DefaultWallWidthM = 3.5
	DefaultRoomDepthM = 5.0
	DefaultWWR        = 0.4

	DefaultOrientation = OrientationSouth
	DefaultMonth       = MonthJul
)

// DesignParameters is a single prediction request: the five architectural
// inputs chosen on the dashboard. Instances are immutable once validated.
type DesignParameters struct {
	WallWidthM  float64     `json:"wall_width_m" validate:"gte=0.5,lte=5"`
	RoomDepthM  float64     `json:"room_depth_m" validate:"gte=2,lte=10"`
	WWR         float64     `json:"wwr" validate:"gte=0.1,lte=0.9"`
	Orientation Orientation `json:"orientation" validate:"required,orientation"`
	Month       Month       `json:"month" validate:"required,month"`
}

// FeatureCount is the width of the model input vector.
const FeatureCount = 5

// FeatureVector is the ordered model input:
//
//	[month index, wall width, room depth, orientation degrees, wwr]
//
// The order mirrors the order the regressors were trained on. Reordering
// produces wrong but plausible-looking predictions with no error, so this
// layout must never change independently of the artifacts.
type FeatureVector [FeatureCount]float64

// PredictionSource tags whether a prediction came from the loaded model
// artifacts or from the fixed fallback used when an artifact is unavailable.
type PredictionSource string

const (
	SourceModel    PredictionSource = "model"
	SourceFallback PredictionSource = "fallback"
)

// Fallback prediction values returned when either regressor failed to load.
// The service degrades to these rather than failing the request.
const (
	FallbackPMV = 0.0
	FallbackPPD = 5.0
)

// ASHRAE 55 comfort band for PMV.
const (
	ComfortPMVMin = -0.5
	ComfortPMVMax = 0.5
)

// ComfortPrediction holds the two comfort indices returned to the dashboard.
// PMV is rounded to 2 decimals, PPD (a percentage) to 1 decimal.
type ComfortPrediction struct {
	PMV float64 `json:"pmv"`
	PPD float64 `json:"ppd"`
}

// Comfortable reports whether the PMV falls inside the ASHRAE 55 target band.
func (p ComfortPrediction) Comfortable() bool {
	return p.PMV >= ComfortPMVMin && p.PMV <= ComfortPMVMax
}

// ModelTarget identifies which comfort index a regressor artifact predicts.
type ModelTarget string

const (
	TargetPMV ModelTarget = "pmv"
	TargetPPD ModelTarget = "ppd"
)

// ArtifactStatus describes the load state of one model artifact. Exposed via
// the models endpoint so clients can distinguish real predictions from
// fallback output.
type ArtifactStatus struct {
	Target   ModelTarget `json:"target"`
	Path     string      `json:"path"`
	Kind     string      `json:"kind,omitempty"`
	Loaded   bool        `json:"loaded"`
	Error    string      `json:"error,omitempty"`
	LoadedAt time.Time   `json:"loaded_at,omitzero"`
}
