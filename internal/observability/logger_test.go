package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("default json logger", func(t *testing.T) {
		logger, closer, err := NewLogger(LoggerOptions{Level: "info", Format: "json"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer closer.Close()

		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("development console logger", func(t *testing.T) {
		logger, closer, err := NewLogger(LoggerOptions{Level: "debug", Format: "console"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer closer.Close()

		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("defaults when not set", func(t *testing.T) {
		logger, closer, err := NewLogger(LoggerOptions{})
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.NoError(t, closer.Close())
	})

	t.Run("invalid log level", func(t *testing.T) {
		logger, closer, err := NewLogger(LoggerOptions{Level: "invalid", Format: "json"})
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Nil(t, closer)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("invalid log format", func(t *testing.T) {
		_, _, err := NewLogger(LoggerOptions{Level: "info", Format: "xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})
}

func TestNewLogger_RotatingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resource-api.log")

	logger, closer, err := NewLogger(LoggerOptions{
		Level:        "info",
		Format:       "json",
		File:         file,
		MaxAge:       time.Hour,
		RotationTime: time.Hour,
	})
	require.NoError(t, err)

	logger.Info("token verified")
	_ = logger.Sync()
	require.NoError(t, closer.Close())

	rotated, err := filepath.Glob(file + ".*")
	require.NoError(t, err)
	require.Len(t, rotated, 1)

	content, err := os.ReadFile(rotated[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"token verified"`)
}
