package logger

import (
	"os"
	"path/filepath"
	"testing"

	"mindcheck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func testConfig(dir, level string) config.LoggingConfig {
	return config.LoggingConfig{Level: level, Directory: dir, MaxSize: 1, MaxBackups: 1, MaxAge: 1}
}

func TestNewWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(testConfig(dir, "info"))
	require.NoError(t, err)

	log.Info("hello")
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "mindcheck.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(testConfig(t.TempDir(), "loud"))
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	log, err := New(testConfig(t.TempDir(), "info"))
	require.NoError(t, err)

	log.SetLevel("debug")
	assert.Equal(t, zapcore.DebugLevel, log.Atom.Level())

	log.SetLevel("nonsense")
	assert.Equal(t, zapcore.DebugLevel, log.Atom.Level())
}
