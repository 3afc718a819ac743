package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"notekeeper/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "invalid", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns logger stored in context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, got)
	})

	t.Run("error when context has no logger", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})

	t.Run("derived context keeps logger", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		type keyType struct{}
		ctx := context.WithValue(logger.NewContext(context.Background(), testLogger), keyType{}, "v")

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, got)
	})
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	t.Run("context logger has priority over global", func(t *testing.T) {
		contextLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)
		globalLogger, err := logger.NewLogger(logger.Production, "error")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLogger)

		ctx := logger.NewContext(context.Background(), contextLogger)
		assert.Same(t, contextLogger, logger.Log(ctx))
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		globalLogger, err := logger.NewLogger(logger.Development, "info")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLogger)

		assert.Same(t, globalLogger, logger.Log(context.Background()))
	})

	t.Run("fallback logger is a singleton", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		first := logger.Log(context.Background())
		second := logger.Log(context.Background())
		require.NotNil(t, first)
		assert.Same(t, first, second)
	})
}

func TestInitGlobalLoggerWithLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Production, "info"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "debug"))
	assert.Same(t, first, logger.Log(context.Background()), "second init must keep the existing logger")
}

func TestRequestID(t *testing.T) {
	t.Run("stores provided id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-1")

		id, ok := logger.GetRequestID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "req-1", id)
	})

	t.Run("generates unique ids when empty", func(t *testing.T) {
		id1, ok1 := logger.GetRequestID(logger.NewRequestIDContext(context.Background(), ""))
		id2, ok2 := logger.GetRequestID(logger.NewRequestIDContext(context.Background(), ""))
		require.True(t, ok1)
		require.True(t, ok2)
		assert.NotEmpty(t, id1)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("missing id", func(t *testing.T) {
		id, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, id)
	})
}

func TestWithRequestID(t *testing.T) {
	base, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	assert.Same(t, base, base.WithRequestID(context.Background()))

	ctx := logger.NewRequestIDContext(context.Background(), "req-2")
	withID := base.With(zap.String("custom", "value")).WithRequestID(ctx)
	assert.NotSame(t, base, withID)

	assert.NotPanics(t, func() {
		withID.Debug(ctx, "debug")
		withID.Info(ctx, "info")
		withID.Warn(ctx, "warn")
		withID.Error(ctx, "error")
	})
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.New(zap.New(core))

	ctx := logger.WithUserID(logger.NewRequestIDContext(context.Background(), "req-3"), 42)
	log.Info(ctx, "with both")
	log.Info(context.Background(), "bare")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{logger.RequestID: "req-3", logger.UserID: int64(42)}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}

func TestUserID(t *testing.T) {
	_, ok := logger.GetUserID(context.Background())
	assert.False(t, ok)

	id, ok := logger.GetUserID(logger.WithUserID(context.Background(), 9))
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)
}
