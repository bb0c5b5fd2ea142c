package types

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorCode_HTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationInvalidJSON, http.StatusBadRequest},
		{ErrCodeValidationInvalidOrientation, http.StatusBadRequest},
		{ErrCodeValidationInvalidMonth, http.StatusBadRequest},
		{ErrCodeValidationDimensionRange, http.StatusBadRequest},
		{ErrCodeNotFoundRoute, http.StatusNotFound},
		{ErrCodeInternalUnexpected, http.StatusInternalServerError},
		{ErrCodeInternalModelCorruption, http.StatusInternalServerError},
		{ErrorCode("something_unrecognized"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("%s: expected status %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAppError(ErrCodeInternalUnexpected, "wrapper", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}

	var appErr *AppError
	if !errors.As(error(err), &appErr) {
		t.Fatal("expected errors.As to match *AppError")
	}
	if appErr.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", appErr.HTTPStatus())
	}
}

func TestAppError_WithDetails(t *testing.T) {
	base := NewAppErrorWithDetails(ErrCodeValidationDimensionRange, "out of range", nil,
		map[string]any{"field": "wall_width_m"})

	extended := base.WithDetails(map[string]any{"max": 5.0})

	if len(base.Details) != 1 {
		t.Errorf("expected original details untouched, got %v", base.Details)
	}
	if extended.Details["field"] != "wall_width_m" || extended.Details["max"] != 5.0 {
		t.Errorf("expected merged details, got %v", extended.Details)
	}
}
