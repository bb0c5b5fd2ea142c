package types

// Telemetry metric names for CloudWatch.
// All components MUST use these constants.
const (
	// Metric Names
	MetricAPILatency      = "APILatency"
	MetricAPIRequestCount = "APIRequestCount"
	MetricPredictionCount = "PredictionCount"
	MetricArtifactLoad    = "ArtifactLoadFailure"

	// Dimension Keys
	DimEndpoint = "Endpoint"
	DimMethod   = "Method"
	DimStatus   = "Status"
	DimSource   = "Source"
	DimTarget   = "Target"

	// Metric Namespace
	MetricNamespace = "ComfortSense"
)
