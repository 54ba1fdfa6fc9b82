package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitOtel_StdoutTraces(t *testing.T) {
	var out bytes.Buffer
	ctx := context.Background()

	shutdown, err := InitOtel(ctx, Options{Stdout: &out})
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry_test").Start(ctx, "test-span")
	span.End()

	// Shutdown flushes the batcher.
	require.NoError(t, shutdown(ctx))
	assert.Contains(t, out.String(), `"Name": "test-span"`)
	assert.Contains(t, out.String(), serviceName)
}
