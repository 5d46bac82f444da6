package logging

import (
	"bytes"
	"testing"

	"github.com/milk9111/kartphysics/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			log := NewWithWriter(config.LogConfig{Level: tc.level}, &bytes.Buffer{})
			assert.Equal(t, tc.want, log.GetLevel())
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info"}, &buf)
	log.Debug().Msg("hidden")
	log.Info().Str("scene", "demo").Msg("loaded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"scene":"demo"`)
	assert.Contains(t, out, `"message":"loaded"`)
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Pretty: true}, &buf)
	log.Info().Str("scene", "demo").Msg("loaded")

	out := buf.String()
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "scene=")
	assert.NotContains(t, out, `"message"`)
}
