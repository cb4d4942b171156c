package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a function to collect metrics.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	// Save the original provider
	originalProvider := otel.GetMeterProvider()

	// Set test provider
	otel.SetMeterProvider(provider)

	// Return cleanup function
	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumForType returns the counter value recorded for an asset_type attribute.
func sumForType(m *metricdata.Metrics, assetType string) (int64, bool) {
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return 0, false
	}
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == "asset_type" && attr.Value.AsString() == assetType {
				return dp.Value, true
			}
		}
	}
	return 0, false
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
}

func TestRecordCreate(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records create count and latency", func(t *testing.T) {
		m.RecordCreate(ctx, "image", 5*time.Millisecond, nil)

		rm := collectMetrics(t, reader)

		creates := findMetric(rm, "instancedb.instance.creates")
		require.NotNil(t, creates)
		v, found := sumForType(creates, "image")
		assert.True(t, found)
		assert.GreaterOrEqual(t, v, int64(1))

		latency := findMetric(rm, "instancedb.instance.create_latency_ms")
		require.NotNil(t, latency)
		hist, ok := latency.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("records errors when present", func(t *testing.T) {
		m.RecordCreate(ctx, "mesh", time.Millisecond, errors.New("create failed"))

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "instancedb.instance.create_errors")
		require.NotNil(t, metric)

		v, found := sumForType(metric, "mesh")
		assert.True(t, found)
		assert.GreaterOrEqual(t, v, int64(1))
	})
}

func TestRecordDedupHit(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordDedupHit(context.Background(), "image")
	m.RecordDedupHit(context.Background(), "image")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "instancedb.instance.dedup_hits")
	require.NotNil(t, metric)

	v, found := sumForType(metric, "image")
	assert.True(t, found)
	assert.GreaterOrEqual(t, v, int64(2))
}

func TestRecordRelease(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordRelease(context.Background(), "image")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "instancedb.instance.releases")
	require.NotNil(t, metric)

	v, found := sumForType(metric, "image")
	assert.True(t, found)
	assert.GreaterOrEqual(t, v, int64(1))
}

func TestRecordMismatch(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordMismatch(context.Background(), "image")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "instancedb.asset.mismatches")
	require.NotNil(t, metric)

	v, found := sumForType(metric, "image")
	assert.True(t, found)
	assert.GreaterOrEqual(t, v, int64(1))
}

func TestRecordLoadFailure(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordLoadFailure(context.Background(), "image")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "instancedb.asset.load_failures")
	require.NotNil(t, metric)

	v, found := sumForType(metric, "image")
	assert.True(t, found)
	assert.GreaterOrEqual(t, v, int64(1))
}
