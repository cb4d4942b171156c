package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetricsDoesNothing(t *testing.T) {
	m := NoopMetrics{}

	assert.NotPanics(t, func() {
		m.RecordCreate(context.Background(), "image", 10*time.Millisecond, nil)
		m.RecordCreate(context.Background(), "image", 0, errors.New("create failed"))
		m.RecordDedupHit(context.Background(), "")
		m.RecordRelease(context.Background(), "image")
		m.RecordMismatch(context.Background(), "image")
		m.RecordLoadFailure(context.Background(), "image")
	})
}

func TestNoopSpanManagerDoesNothing(t *testing.T) {
	m := NoopSpanManager{}

	ctx := context.Background()

	assert.NotPanics(t, func() {
		spanCtx, span := m.StartAcquireSpan(ctx, "id", "image")
		assert.Equal(t, ctx, spanCtx, "noop span manager must not replace the context")

		loadCtx, loadSpan := m.StartLoadSpan(ctx, "asset", "image")
		assert.Equal(t, ctx, loadCtx)

		m.AddSpanEvent(ctx, "event", attribute.String("key", "value"))
		m.EndSpanWithError(span, errors.New("failed"))
		m.EndSpanWithError(loadSpan, nil)
	})
}
