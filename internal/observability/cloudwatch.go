// Package observability emits service telemetry to AWS CloudWatch: request
// counts and latency per endpoint, and prediction counts split by source so a
// dashboard alarm can catch a fleet silently serving fallback values.
package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"comfortsense/internal/config"
	"comfortsense/internal/types"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// putTimeout bounds each best-effort metric publish so a slow CloudWatch
// endpoint cannot hold a request goroutine.
const putTimeout = 2 * time.Second

// CloudWatchCollector publishes API and prediction metrics. Publishes are
// best-effort: failures are logged, never propagated to the request path.
type CloudWatchCollector struct {
	client    CloudWatchClient
	namespace string
	logger    types.Logger
}

// NewCloudWatchCollector creates a collector publishing to the given namespace.
func NewCloudWatchCollector(client CloudWatchClient, namespace string, logger types.Logger) *CloudWatchCollector {
	if namespace == "" {
		namespace = types.MetricNamespace
	}
	return &CloudWatchCollector{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// NewCloudWatchClient builds the concrete SDK client from service config.
// A non-empty endpoint override points the client at LocalStack.
func NewCloudWatchClient(ctx context.Context, cfg config.AWSConfig) (*cloudwatch.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	return cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	}), nil
}

// RecordRequest emits one count and one latency datum for a served request.
// Implements the HTTP middleware collector contract.
func (c *CloudWatchCollector) RecordRequest(method, endpoint, status string, duration time.Duration) {
	dims := []cwtypes.Dimension{
		{Name: aws.String(types.DimMethod), Value: aws.String(method)},
		{Name: aws.String(types.DimEndpoint), Value: aws.String(endpoint)},
		{Name: aws.String(types.DimStatus), Value: aws.String(status)},
	}

	c.put(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricAPIRequestCount),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
			},
			{
				MetricName: aws.String(types.MetricAPILatency),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: dims,
			},
		},
	}, "method", method, "endpoint", endpoint)
}

// RecordPrediction counts one served prediction by source.
func (c *CloudWatchCollector) RecordPrediction(source types.PredictionSource) {
	c.put(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricPredictionCount),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String(types.DimSource), Value: aws.String(string(source))},
				},
			},
		},
	}, "source", string(source))
}

// RecordArtifactFailure counts a model artifact load failure by target.
func (c *CloudWatchCollector) RecordArtifactFailure(target types.ModelTarget) {
	c.put(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricArtifactLoad),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String(types.DimTarget), Value: aws.String(string(target))},
				},
			},
		},
	}, "target", string(target))
}

func (c *CloudWatchCollector) put(input *cloudwatch.PutMetricDataInput, logArgs ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
	defer cancel()

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		args := append([]any{"error", err.Error(), "datums", strconv.Itoa(len(input.MetricData))}, logArgs...)
		c.logger.Error("failed to publish metric", args...)
	}
}

// NoopCollector satisfies both collector contracts while publishing nothing.
// Used when metrics are disabled (local development, tests).
type NoopCollector struct{}

func (NoopCollector) RecordRequest(method, endpoint, status string, duration time.Duration) {}

func (NoopCollector) RecordPrediction(source types.PredictionSource) {}

func (NoopCollector) RecordArtifactFailure(target types.ModelTarget) {}
