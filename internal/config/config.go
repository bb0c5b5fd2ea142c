// Package config defines the global configuration structure for the
// ComfortSense service. Configuration is loaded once at process
// initialization and is immutable thereafter. It follows 12-Factor App
// principles by strictly separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup (fail fast). Model artifact paths deliberately live
// here rather than in code: the artifacts are environment-coupled files, not
// design constants.
package config

import "time"

// Config is the top-level configuration struct for the ComfortSense service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"comfortsense-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server        ServerConfig
	Models        ModelsConfig
	Feedback      FeedbackConfig
	AWS           AWSConfig
	Security      SecurityConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
}

// ModelsConfig holds the locations of the pre-trained regressor artifacts and
// load behavior. Paths may point at plain JSON documents or zstd-compressed
// ones (".zst" suffix). A load failure degrades predictions to the fixed
// fallback values instead of failing startup.
type ModelsConfig struct {
	PMVPath     string        `envconfig:"PMV_MODEL_PATH" validate:"required"`
	PPDPath     string        `envconfig:"PPD_MODEL_PATH" validate:"required"`
	LoadTimeout time.Duration `envconfig:"MODEL_LOAD_TIMEOUT" default:"30s"`
}

// FeedbackConfig holds the outbound research feedback form link surfaced on
// the dashboard. No data flows through this service to the form.
type FeedbackConfig struct {
	FormURL string `envconfig:"FEEDBACK_FORM_URL" default:"https://forms.office.com/r/THfuycGkDZ" validate:"required,url"`
}

// AWSConfig holds regional configuration for the CloudWatch metrics sink.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// SecurityConfig holds CORS settings for the browser-facing API.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ObservabilityConfig holds telemetry and monitoring settings. Metrics are
// disabled by default so local development needs no AWS credentials.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"ComfortSense"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"false"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
