package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "logger output should be valid JSON")
	return out
}

func TestNewWithWriter_StructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info().Str("tx_id", "abc").Msg("transaction recorded")

	out := decodeLine(t, &buf)
	assert.Equal(t, "transaction recorded", out["message"])
	assert.Equal(t, "abc", out["tx_id"])
	assert.Equal(t, "info", out["level"])
	assert.Equal(t, ServiceName, out["service"])
	assert.Contains(t, out, "time")
}

func TestComponent_TagsLines(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewWithWriter("info", &buf), "scheduler")

	log.Info().Msg("job started")

	out := decodeLine(t, &buf)
	assert.Equal(t, "scheduler", out["component"])
	assert.Equal(t, ServiceName, out["service"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"invalid": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNewWithWriter_InfoFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Debug().Msg("should not appear")
	assert.Empty(t, buf.String())

	log.Warn().Msg("sweep slow")
	assert.NotEmpty(t, buf.String())
}

func TestNew_PrettyMode(t *testing.T) {
	log := New("info", true)
	log.Info().Msg("pretty mode test")
}
