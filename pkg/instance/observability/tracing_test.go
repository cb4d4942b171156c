package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	// Save the original provider
	originalProvider := otel.GetTracerProvider()

	// Set test provider
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("instancedb")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartAcquireSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	_, span := m.StartAcquireSpan(context.Background(), "id-1", "image")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "instancedb.find_or_create", s.Name)

	var instanceID, assetType string
	for _, attr := range s.Attributes {
		switch attr.Key {
		case "instance.id":
			instanceID = attr.Value.AsString()
		case "asset.type":
			assetType = attr.Value.AsString()
		}
	}
	assert.Equal(t, "id-1", instanceID)
	assert.Equal(t, "image", assetType)
}

func TestStartLoadSpanIsChild(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx, acquire := m.StartAcquireSpan(context.Background(), "id-1", "image")
	_, load := m.StartLoadSpan(ctx, "asset-1", "image")
	load.End()
	acquire.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Export order is end order: load first.
	assert.Equal(t, "instancedb.load", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("records error", func(t *testing.T) {
		exporter.Reset()
		_, span := m.StartAcquireSpan(context.Background(), "id-1", "image")
		m.EndSpanWithError(span, errors.New("load failed"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		require.NotEmpty(t, spans[0].Events)
	})

	t.Run("sets ok status without error", func(t *testing.T) {
		exporter.Reset()
		_, span := m.StartAcquireSpan(context.Background(), "id-1", "image")
		m.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx, span := m.StartAcquireSpan(context.Background(), "id-1", "image")
	m.AddSpanEvent(ctx, "dedup_hit", attribute.String("instance.id", "id-1"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "dedup_hit", spans[0].Events[0].Name)
}
