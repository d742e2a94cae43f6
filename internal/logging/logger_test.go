package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		env   string
		want  zapcore.Level
	}{
		{"debug", "development", zapcore.DebugLevel},
		{"warn", "production", zapcore.WarnLevel},
		{"loud", "development", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.env, func(t *testing.T) {
			log, err := New(tt.level, tt.env)
			require.NoError(t, err)
			assert.True(t, log.Desugar().Core().Enabled(tt.want))
			assert.False(t, log.Desugar().Core().Enabled(tt.want-1))
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger())
	assert.Same(t, GetLogger(), GetLogger())
}
