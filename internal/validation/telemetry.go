package validation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// InstrumentationName is the name used for OTEL instrumentation.
	InstrumentationName = "github.com/fyrsmithlabs/validationd/internal/validation"
)

// Metrics provides OpenTelemetry metrics for the validation engine.
// All Record* methods are nil-safe no-ops when metrics are uninitialized.
type Metrics struct {
	decisionsTotal metric.Int64Counter
	failuresTotal  metric.Int64Counter

	confidenceScore metric.Float64Histogram
	batchDuration   metric.Float64Histogram
	batchSize       metric.Int64Histogram

	initialized bool
}

// NewMetrics creates a Metrics instance with the provided meter.
// If meter is nil, uses the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.decisionsTotal, err = meter.Int64Counter(
		"validation.decisions.total",
		metric.WithDescription("Total number of validation decisions, by outcome"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	m.failuresTotal, err = meter.Int64Counter(
		"validation.record_failures.total",
		metric.WithDescription("Total number of per-record evaluation failures recovered into needs-review"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.confidenceScore, err = meter.Float64Histogram(
		"validation.confidence.score",
		metric.WithDescription("Distribution of combined confidence scores"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0),
	)
	if err != nil {
		return nil, err
	}

	m.batchDuration, err = meter.Float64Histogram(
		"validation.batch.duration.seconds",
		metric.WithDescription("Duration of batch processing in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	m.batchSize, err = meter.Int64Histogram(
		"validation.batch.size",
		metric.WithDescription("Records processed per batch"),
		metric.WithUnit("{record}"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 500, 1000, 5000, 10000),
	)
	if err != nil {
		return nil, err
	}

	m.initialized = true
	return m, nil
}

// RecordDecision records one evaluation outcome.
func (m *Metrics) RecordDecision(ctx context.Context, decision Decision, confidence float64) {
	if m == nil || !m.initialized {
		return
	}
	m.decisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("decision", string(decision)),
	))
	m.confidenceScore.Record(ctx, confidence)
}

// RecordFailure records one recovered per-record failure.
func (m *Metrics) RecordFailure(ctx context.Context) {
	if m == nil || !m.initialized {
		return
	}
	m.failuresTotal.Add(ctx, 1)
}

// RecordBatch records batch-level aggregates.
func (m *Metrics) RecordBatch(ctx context.Context, processed int, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	m.batchDuration.Record(ctx, duration.Seconds())
	m.batchSize.Record(ctx, int64(processed))
}

// Tracer returns a tracer for the validation package.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartBatchSpan starts a span covering one batch run.
func StartBatchSpan(ctx context.Context, batchID string, size int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "validation.process_batch", trace.WithAttributes(
		attribute.String("validation.batch_id", batchID),
		attribute.Int("validation.batch_size", size),
	))
}
