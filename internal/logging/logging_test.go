package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"", zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"WARN", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.muted))
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}
