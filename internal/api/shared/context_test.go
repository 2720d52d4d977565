package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.NotEmpty(t, traceID)
	assert.Len(t, traceID, 32, "trace ID should be 16 random bytes hex encoded")
}

func TestTraceID_Unique(t *testing.T) {
	t.Parallel()

	first := GetTraceID(SetTraceID(context.Background()))
	second := GetTraceID(SetTraceID(context.Background()))

	assert.NotEqual(t, first, second)
}

func TestGetTraceID_MissingReturnsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))
}
