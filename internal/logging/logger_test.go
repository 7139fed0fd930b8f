package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.ErrorLevel},
		{0, zerolog.ErrorLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{5, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestSetup_GatesOnVerbosity(t *testing.T) {
	var quiet bytes.Buffer
	logger := Setup(0, &quiet)
	logger.Info().Msg("progress")
	logger.Error().Msg("broken")
	assert.NotContains(t, quiet.String(), "progress")
	assert.Contains(t, quiet.String(), "broken")

	var loud bytes.Buffer
	logger = NewLogger(Setup(1, &loud), "paginator")
	logger.Info().Msg("progress")
	assert.Contains(t, loud.String(), "progress")
	assert.Contains(t, loud.String(), "component=paginator")
}
