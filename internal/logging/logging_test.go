package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	var quiet, loud bytes.Buffer

	quietLog := New(&quiet, false)
	quietLog.Debug().Msg("entity registered")
	quietLog = New(&quiet, false)
	quietLog.Warn().Msg("venue table missing")
	loudLog := New(&loud, true)
	loudLog.Debug().Str("label", "nlp").Msg("entity registered")

	assert.NotContains(t, quiet.String(), "entity registered")
	assert.Contains(t, quiet.String(), "venue table missing")
	assert.Contains(t, loud.String(), "entity registered")
	assert.Contains(t, loud.String(), "label=nlp")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, true)
	log.Debug().Uint32("id", 7).Msg("paper inserted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "paper inserted", line["message"])
	assert.EqualValues(t, 7, line["id"])
	assert.Contains(t, line, "time")
}
