package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	Info().Msg("hidden")
	component := WithComponent("applications")
	component.Warn().Str("competitionID", "c1").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "applications", entry["component"])
	assert.Equal(t, "c1", entry["competitionID"])
	assert.Equal(t, "warn", entry["level"])
}

func TestGet_ReturnsConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf})
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	lgr := Get()
	lgr.Info().Str("organizationID", "o1").Msg("injected")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "injected", entry["message"])
	assert.Equal(t, "o1", entry["organizationID"])
}
