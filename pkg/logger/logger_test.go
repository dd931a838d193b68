package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewRejectsBadEncoding(t *testing.T) {
	_, err := New(Config{Level: "debug", Encoding: "xml"})
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContextAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := WithCommand(context.Background(), "infer")
	ctx = WithTable(ctx, "run_17")
	ctx = WithColumn(ctx, "views")

	FromContext(ctx, base).Info("inferred column")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "infer", fields["command"])
	assert.Equal(t, "run_17", fields["table"])
	assert.Equal(t, "views", fields["column"])
}

func TestFromContextWithoutValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	FromContext(context.Background(), zap.New(core)).Info("plain")

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
}

func TestInitReplacesGlobal(t *testing.T) {
	require.NoError(t, Init(Config{Level: "error", OutputPaths: []string{"stderr"}}))
	assert.False(t, Get().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, Init(DefaultConfig()))
	assert.True(t, Get().Core().Enabled(zapcore.InfoLevel))
}
