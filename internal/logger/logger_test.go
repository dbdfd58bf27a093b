package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoped(t *testing.T) {
	t.Cleanup(func() { Setup(os.Stderr, "info", "auto") })

	log := Scoped("stremio/dsearch")

	var buf bytes.Buffer
	Setup(&buf, "debug", "json")

	log.With("store", "realdebrid").Debug("listing items", "count", 3)
	log.Trace("hidden")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	record := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "listing items", record["msg"])
	assert.Equal(t, "stremio/dsearch", record["scope"])
	assert.Equal(t, "realdebrid", record["store"])
	assert.Equal(t, float64(3), record["count"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("TRACE"))
	assert.Equal(t, ParseLevel("info"), ParseLevel("whatever"))
}
