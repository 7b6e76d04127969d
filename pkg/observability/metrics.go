package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics emits request metrics to CloudWatch. Emission is best effort and
// never blocks or fails a request.
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
}

// NewMetrics creates a new Metrics instance
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordRequest emits a count and latency datapoint for one HTTP request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dimensions := []types.Dimension{
		{Name: aws.String("Route"), Value: aws.String(route)},
		{Name: aws.String("Method"), Value: aws.String(method)},
		{Name: aws.String("StatusClass"), Value: aws.String(fmt.Sprintf("%dxx", status/100))},
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("RequestCount"),
				Dimensions: dimensions,
				Unit:       types.StandardUnitCount,
				Value:      aws.Float64(1),
			},
			{
				MetricName: aws.String("RequestLatency"),
				Dimensions: dimensions,
				Unit:       types.StandardUnitMilliseconds,
				Value:      aws.Float64(float64(duration.Milliseconds())),
			},
		},
	})
	if err != nil {
		m.logger.Debug("failed to emit request metrics", zap.Error(err))
	}
}
