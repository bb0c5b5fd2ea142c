package types

// Logger is the minimal structured logging contract used where a concrete
// *slog.Logger would create an unwanted dependency direction. *slog.Logger
// satisfies it via a thin adapter where needed.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// ResponseMeta contains non-blocking metadata returned with API responses.
// Warnings convey degraded-mode notices (e.g., a fallback prediction) without
// failing the request.
type ResponseMeta struct {
	Warnings []string `json:"warnings,omitempty"`
}
