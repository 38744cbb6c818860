package logger

import (
	"miniudemy_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	assert.True(t, SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, Level())

	assert.False(t, SetLevel("loud"))
	assert.Equal(t, zapcore.DebugLevel, Level())
}

func TestOnConfigReloadFallsBackToServerMode(t *testing.T) {
	defer SetLevel("info")

	OnConfigReload(&config.Config{Server: config.ServerConfig{Mode: "debug"}})
	assert.Equal(t, zapcore.DebugLevel, Level())

	OnConfigReload(&config.Config{Server: config.ServerConfig{Mode: "release"}, Log: config.LogConfig{Level: "warn"}})
	assert.Equal(t, zapcore.WarnLevel, Level())
}
