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

func TestNew(t *testing.T) {
	t.Run("creates logger with default config", func(t *testing.T) {
		log, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("creates json logger for production", func(t *testing.T) {
		log, err := NewForEnvironment("production")
		require.NoError(t, err)
		assert.NotNil(t, log)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns no-op logger when absent", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("injects request and user IDs into entries", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		log := zap.New(core)

		ctx := context.Background()
		ctx, _ = WithRequestID(ctx, log, "req-123")
		ctx, _ = WithUserID(ctx, log, "user-456")

		WithLogger(ctx, log).Info("hello")

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, "user-456", fields["user_id"])
	})
}
