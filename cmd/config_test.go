package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "cleandesigner", configBaseName)
	assert.Equal(t, "cleandesigner.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "path", pathFlagName)
	assert.Equal(t, "prefix", prefixFlagName)
	assert.Equal(t, "dry-run", dryRunFlagName)
	assert.Equal(t, "parallel", runParallelFlagName)
	assert.Equal(t, "run.parallel", runParallelConfigKey)
	assert.Equal(t, "f", defaultPrefix)
	assert.Equal(t, 1, defaultRunParallel)
	assert.Equal(t, ".cleandesigner.log", defaultLogFilename)
	assert.Equal(t, "CLEANDESIGNER", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"warning alias", " Warning ", slog.LevelWarn},
		{"error", "ERROR", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"unknown uses default", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}
