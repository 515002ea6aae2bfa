package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "json", "warn", false))
	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.csv").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "a.csv", line["file"])
	assert.Equal(t, "warn", line["level"])
}

func TestSetupDebugWins(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "console", "error", true))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	log.Debug().Msg("details")
	assert.Contains(t, buf.String(), "details")
}

func TestSetupErrors(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	assert.Error(t, Setup(nil, "json", "loud", false))
	assert.Error(t, Setup(nil, "xml", "info", false))
}
