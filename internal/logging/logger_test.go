package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "rid-123")
	assert.Equal(t, "rid-123", RequestIDFromContext(ctx))
}

func TestLoggerAttachesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := Wrap(zap.New(core))

	ctx := ContextWithRequestID(context.Background(), "rid-456")
	log.Info(ctx, "hello", zap.String("k", "v"))

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-456", fields["request_id"])
	assert.Equal(t, "v", fields["k"])
}

func TestLoggerWithoutRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := Wrap(zap.New(core))

	log.Warn(context.Background(), "plain")

	entries := logs.All()
	assert.Len(t, entries, 1)
	_, ok := entries[0].ContextMap()["request_id"]
	assert.False(t, ok)
}

func TestWithChildLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := Wrap(zap.New(core)).With(zap.String("component", "feed"))

	log.Info(context.Background(), "tick")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "feed", entries[0].ContextMap()["component"])
}

func TestNewSelectsEnvironment(t *testing.T) {
	prod, err := New("production")
	assert.NoError(t, err)
	assert.NotNil(t, prod)

	dev, err := New("development")
	assert.NoError(t, err)
	assert.NotNil(t, dev)
}
