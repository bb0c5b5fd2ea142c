// Package handlers contains the HTTP handler implementations for the
// ComfortSense API.
//
// This file implements the comfort assessment surface:
//   - Assessment creation (POST body and GET query variants)
//   - Room preview mesh generation
//   - Parameter metadata, model artifact status, and the feedback link
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"comfortsense/internal/comfort"
	"comfortsense/internal/core"
	"comfortsense/internal/geometry"
	"comfortsense/internal/types"
)

// --- Service Interfaces ---
//
// The handler depends on abstractions rather than the concrete service and
// registry so tests can substitute stubs.

// AssessmentService evaluates design parameters into a comfort assessment.
type AssessmentService interface {
	Evaluate(ctx context.Context, params types.DesignParameters) (*comfort.Assessment, error)
}

// ModelStatusProvider reports the load state of the regressor artifacts.
type ModelStatusProvider interface {
	Status() []types.ArtifactStatus
	Available() bool
}

// --- Request/Response Models ---

// AssessmentRequest is the request body for POST /v1/comfort/assessments.
// It is the wire form of types.DesignParameters; validation tags live on the
// domain struct so both entry points share one rule set.
type AssessmentRequest struct {
	WallWidthM  float64 `json:"wall_width_m"`
	RoomDepthM  float64 `json:"room_depth_m"`
	WWR         float64 `json:"wwr"`
	Orientation string  `json:"orientation"`
	Month       string  `json:"month"`
}

// toDomain converts the wire form into the validated domain struct.
func (r AssessmentRequest) toDomain() types.DesignParameters {
	return types.DesignParameters{
		WallWidthM:  r.WallWidthM,
		RoomDepthM:  r.RoomDepthM,
		WWR:         r.WWR,
		Orientation: types.Orientation(r.Orientation),
		Month:       types.Month(r.Month),
	}
}

// ParameterMetadata describes the dashboard controls: ranges, enumerations,
// and defaults. Served so the UI renders its inputs from the same contract
// the API validates against.
type ParameterMetadata struct {
	WallWidthM  RangeMetadata `json:"wall_width_m"`
	RoomDepthM  RangeMetadata `json:"room_depth_m"`
	WWR         RangeMetadata `json:"wwr"`
	Orientation EnumMetadata  `json:"orientation"`
	Month       EnumMetadata  `json:"month"`
	RoomHeightM float64       `json:"room_height_m"`
}

// RangeMetadata describes one numeric slider.
type RangeMetadata struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// EnumMetadata describes one select control.
type EnumMetadata struct {
	Values  []string `json:"values"`
	Default string   `json:"default"`
}

// FeedbackResponse carries the outbound research feedback form link.
type FeedbackResponse struct {
	FormURL string `json:"form_url"`
}

// ModelsResponse reports artifact load state and overall availability.
type ModelsResponse struct {
	Available bool                   `json:"available"`
	Artifacts []types.ArtifactStatus `json:"artifacts"`
}

// --- Handler ---

// ComfortHandler serves the assessment, mesh, and metadata endpoints.
type ComfortHandler struct {
	service     AssessmentService
	models      ModelStatusProvider
	validator   *core.Validator
	logger      *slog.Logger
	feedbackURL string
}

// NewComfortHandler creates a new ComfortHandler with the provided dependencies.
func NewComfortHandler(
	service AssessmentService,
	models ModelStatusProvider,
	v *core.Validator,
	l *slog.Logger,
	feedbackURL string,
) *ComfortHandler {
	if l == nil {
		l = slog.Default()
	}
	return &ComfortHandler{
		service:     service,
		models:      models,
		validator:   v,
		logger:      l,
		feedbackURL: feedbackURL,
	}
}

// RegisterRoutes mounts the comfort routes on the provided chi.Router.
func (h *ComfortHandler) RegisterRoutes(r chi.Router) {
	r.Route("/comfort", func(r chi.Router) {
		r.Post("/assessments", h.CreateAssessment)
		r.Get("/assessment", h.GetAssessment)
		r.Get("/mesh", h.GetMesh)
		r.Get("/parameters", h.GetParameters)
		r.Get("/models", h.GetModels)
		r.Get("/feedback", h.GetFeedback)
	})
}

// CreateAssessment handles POST /v1/comfort/assessments.
func (h *ComfortHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req AssessmentRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	h.evaluate(w, r, req.toDomain())
}

// GetAssessment handles GET /v1/comfort/assessment. Parameters arrive as
// query values; absent values take the dashboard defaults so a bare GET
// returns the default design's assessment.
func (h *ComfortHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	params, err := parseDesignQuery(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.evaluate(w, r, params)
}

// evaluate is the shared tail of both assessment entry points: validate,
// run the service, and wrap the result in the response envelope. Fallback
// predictions carry a warning in the envelope meta so clients can flag the
// result without parsing the source field.
func (h *ComfortHandler) evaluate(w http.ResponseWriter, r *http.Request, params types.DesignParameters) {
	if err := h.validator.ValidateStruct(params); err != nil {
		core.Error(w, r, err)
		return
	}

	assessment, err := h.service.Evaluate(r.Context(), params)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	resp := core.APIResponse{Data: assessment}
	if assessment.Source == types.SourceFallback {
		resp.Meta = &types.ResponseMeta{
			Warnings: []string{"prediction models unavailable; returning fallback comfort values"},
		}
	}
	core.JSON(w, r, http.StatusOK, resp)
}

// GetMesh handles GET /v1/comfort/mesh. Only the three dimensional
// parameters matter for geometry; orientation and month do not change the
// preview volume.
func (h *ComfortHandler) GetMesh(w http.ResponseWriter, r *http.Request) {
	params, err := parseDesignQuery(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(params); err != nil {
		core.Error(w, r, err)
		return
	}

	mesh := geometry.BuildRoomMesh(params.WallWidthM, params.RoomDepthM, params.WWR)

	// The mesh is a pure function of its query string.
	w.Header().Set("Cache-Control", "public, max-age=3600")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: mesh})
}

// GetParameters handles GET /v1/comfort/parameters.
func (h *ComfortHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	orientations := types.Orientations()
	months := types.Months()

	meta := ParameterMetadata{
		WallWidthM: RangeMetadata{
			Min:     types.MinWallWidthM,
			Max:     types.MaxWallWidthM,
			Default: types.DefaultWallWidthM,
		},
		RoomDepthM: RangeMetadata{
			Min:     types.MinRoomDepthM,
			Max:     types.MaxRoomDepthM,
			Default: types.DefaultRoomDepthM,
		},
		WWR: RangeMetadata{
			Min:     types.MinWWR,
			Max:     types.MaxWWR,
			Default: types.DefaultWWR,
		},
		Orientation: EnumMetadata{
			Values:  orientationStrings(orientations),
			Default: string(types.DefaultOrientation),
		},
		Month: EnumMetadata{
			Values:  monthStrings(months),
			Default: string(types.DefaultMonth),
		},
		RoomHeightM: types.RoomHeightM,
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: meta})
}

// GetModels handles GET /v1/comfort/models.
func (h *ComfortHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ModelsResponse{
		Available: h.models.Available(),
		Artifacts: h.models.Status(),
	}})
}

// GetFeedback handles GET /v1/comfort/feedback.
func (h *ComfortHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: FeedbackResponse{
		FormURL: h.feedbackURL,
	}})
}

// --- Query Parsing ---

// parseDesignQuery reads design parameters from the query string, applying
// the dashboard defaults for absent values. Malformed numbers are rejected
// here; range and enum checks belong to the validator.
func parseDesignQuery(r *http.Request) (types.DesignParameters, error) {
	q := r.URL.Query()

	params := types.DesignParameters{
		WallWidthM:  types.DefaultWallWidthM,
		RoomDepthM:  types.DefaultRoomDepthM,
		WWR:         types.DefaultWWR,
		Orientation: types.DefaultOrientation,
		Month:       types.DefaultMonth,
	}

	var err error
	if params.WallWidthM, err = queryFloat(q.Get("wall_width_m"), params.WallWidthM); err != nil {
		return params, invalidNumber("wall_width_m", q.Get("wall_width_m"))
	}
	if params.RoomDepthM, err = queryFloat(q.Get("room_depth_m"), params.RoomDepthM); err != nil {
		return params, invalidNumber("room_depth_m", q.Get("room_depth_m"))
	}
	if params.WWR, err = queryFloat(q.Get("wwr"), params.WWR); err != nil {
		return params, invalidNumber("wwr", q.Get("wwr"))
	}
	if v := q.Get("orientation"); v != "" {
		params.Orientation = types.Orientation(v)
	}
	if v := q.Get("month"); v != "" {
		params.Month = types.Month(v)
	}

	return params, nil
}

// queryFloat parses a query value, keeping the fallback when the value is
// absent.
func queryFloat(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func invalidNumber(field, raw string) *types.AppError {
	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationInvalidNumber,
		field+" must be a number",
		nil,
		map[string]any{"field": field, "value": raw},
	)
}

func orientationStrings(in []types.Orientation) []string {
	out := make([]string, len(in))
	for i, o := range in {
		out[i] = string(o)
	}
	return out
}

func monthStrings(in []types.Month) []string {
	out := make([]string, len(in))
	for i, m := range in {
		out[i] = string(m)
	}
	return out
}
