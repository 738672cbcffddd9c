package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracing_Disabled(t *testing.T) {
	tr, err := NewTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, tr.Tracer())

	_, span := tr.Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNewTracing_EnabledWithoutExporter(t *testing.T) {
	tr, err := NewTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "none"})
	require.NoError(t, err)

	_, span := tr.Tracer().Start(context.Background(), "sampled")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNewTracing_UnknownExporter(t *testing.T) {
	_, err := NewTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"})
	assert.ErrorContains(t, err, "zipkin")
}
