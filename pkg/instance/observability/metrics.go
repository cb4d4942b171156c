package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records instance database metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCreate records an instance creation with its duration and error status.
	RecordCreate(ctx context.Context, assetType string, duration time.Duration, err error)

	// RecordDedupHit records a find-or-create that returned an existing instance.
	RecordDedupHit(ctx context.Context, assetType string)

	// RecordRelease records removal of an instance on its final release.
	RecordRelease(ctx context.Context, assetType string)

	// RecordMismatch records an existing instance requested with a different
	// asset than the one it was created from.
	RecordMismatch(ctx context.Context, assetType string)

	// RecordLoadFailure records an asset that never became ready.
	RecordLoadFailure(ctx context.Context, assetType string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	creates       metric.Int64Counter
	createLatency metric.Float64Histogram
	createErrors  metric.Int64Counter
	dedupHits     metric.Int64Counter
	releases      metric.Int64Counter
	mismatches    metric.Int64Counter
	loadFailures  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("instancedb")

	creates, err := meter.Int64Counter("instancedb.instance.creates",
		metric.WithDescription("Number of instances created"),
	)
	if err != nil {
		return nil, err
	}

	createLatency, err := meter.Float64Histogram("instancedb.instance.create_latency_ms",
		metric.WithDescription("Instance creation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	createErrors, err := meter.Int64Counter("instancedb.instance.create_errors",
		metric.WithDescription("Number of failed instance creations"),
	)
	if err != nil {
		return nil, err
	}

	dedupHits, err := meter.Int64Counter("instancedb.instance.dedup_hits",
		metric.WithDescription("Number of lookups satisfied by an existing instance"),
	)
	if err != nil {
		return nil, err
	}

	releases, err := meter.Int64Counter("instancedb.instance.releases",
		metric.WithDescription("Number of instances removed on final release"),
	)
	if err != nil {
		return nil, err
	}

	mismatches, err := meter.Int64Counter("instancedb.asset.mismatches",
		metric.WithDescription("Number of lookups whose asset differed from the instance's source asset"),
	)
	if err != nil {
		return nil, err
	}

	loadFailures, err := meter.Int64Counter("instancedb.asset.load_failures",
		metric.WithDescription("Number of assets that never became ready"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		creates:       creates,
		createLatency: createLatency,
		createErrors:  createErrors,
		dedupHits:     dedupHits,
		releases:      releases,
		mismatches:    mismatches,
		loadFailures:  loadFailures,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCreate records an instance creation.
func (m *otelMetrics) RecordCreate(ctx context.Context, assetType string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("asset_type", assetType),
	}

	m.creates.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.createLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.createErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordDedupHit records a lookup satisfied by an existing instance.
func (m *otelMetrics) RecordDedupHit(ctx context.Context, assetType string) {
	m.dedupHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("asset_type", assetType),
	))
}

// RecordRelease records removal of an instance.
func (m *otelMetrics) RecordRelease(ctx context.Context, assetType string) {
	m.releases.Add(ctx, 1, metric.WithAttributes(
		attribute.String("asset_type", assetType),
	))
}

// RecordMismatch records an asset mismatch on an existing instance.
func (m *otelMetrics) RecordMismatch(ctx context.Context, assetType string) {
	m.mismatches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("asset_type", assetType),
	))
}

// RecordLoadFailure records a failed asset load.
func (m *otelMetrics) RecordLoadFailure(ctx context.Context, assetType string) {
	m.loadFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("asset_type", assetType),
	))
}
