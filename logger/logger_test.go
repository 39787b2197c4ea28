package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0, wantLevel: zapcore.WarnLevel},
		{name: "Console output mode", jsonOutput: false, verbosity: 1, wantLevel: zapcore.InfoLevel},
		{name: "Console debug", jsonOutput: false, verbosity: 2, wantLevel: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(3))
	assert.Equal(t, "Unknown", LevelName(-1))
}

func TestFieldsFromContext(t *testing.T) {
	assert.Empty(t, FieldsFromContext(context.Background()))

	ctx := WithRunID(context.Background(), "run-1")
	assert.Equal(t, []interface{}{FieldRunID, "run-1"}, FieldsFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(ctx))
}

func TestLoggerSafeBeforeInitialize(t *testing.T) {
	// Helpers must not panic with the default no-op logger
	Infow("message", FieldCount, 1)
	Debugw("message")
	Warnw("message")
	Errorw("message")
	Cleanup()
}
