package core

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"comfortsense/internal/types"
)

// Validator wraps go-playground/validator with the domain-specific rules for
// design parameters: the fixed orientation and month enumerations.
type Validator struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewValidator creates a new Validator and registers custom validation tags.
// Field names in error details use the json tag so clients see the wire names.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// The enumerations are contract boundaries: anything outside them has no
	// defined model encoding and must never reach the feature builder.
	_ = v.RegisterValidation("orientation", func(fl validator.FieldLevel) bool {
		return types.Orientation(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return types.Month(fl.Field().String()).Valid()
	})

	return &Validator{
		logger:   logger,
		validate: v,
	}
}

// ValidateStruct validates s against its struct tags and translates the first
// violation into a *types.AppError suitable for the API error envelope.
// Returns nil when s is valid.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		// InvalidValidationError (e.g., non-struct input) is a programming
		// error, not a client fault.
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
	}

	fe := verrs[0]
	return fieldError(fe)
}

// fieldError maps a single field violation onto the matching error code.
func fieldError(fe validator.FieldError) *types.AppError {
	details := map[string]any{
		"field": fe.Field(),
	}
	if fe.Param() != "" {
		details["constraint"] = fe.Tag() + "=" + fe.Param()
	}

	switch fe.Tag() {
	case "orientation":
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidOrientation,
			"orientation must be one of North, East, South, West",
			nil, details,
		)
	case "month":
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidMonth,
			"month must be a three-letter label Jan through Dec",
			nil, details,
		)
	case "gte", "lte", "gt", "lt":
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationDimensionRange,
			fe.Field()+" is outside the supported range",
			nil, details,
		)
	case "required":
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationMissingField,
			fe.Field()+" is required",
			nil, details,
		)
	default:
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidNumber,
			fe.Field()+" is invalid",
			nil, details,
		)
	}
}
