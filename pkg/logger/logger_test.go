package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWithOutput_JSONFieldsAndLevel(t *testing.T) {
	t.Cleanup(func() { log = nil })

	var buf bytes.Buffer
	require.NoError(t, InitWithOutput("info", "json", &buf))

	Debugf("hidden %d", 1)
	WithFields(Fields{"status": 200}).Info("Webhook response")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "Webhook response", entry["msg"])
	require.EqualValues(t, 200, entry["status"])
	require.Equal(t, "info", entry["level"])
}

func TestInitWithOutput_RejectsUnknownValues(t *testing.T) {
	t.Cleanup(func() { log = nil })

	require.Error(t, InitWithOutput("loud", "json", &bytes.Buffer{}))
	require.Error(t, InitWithOutput("info", "xml", &bytes.Buffer{}))
}

func TestWithFields_BeforeInit(t *testing.T) {
	log = nil
	require.NotPanics(t, func() {
		WithFields(Fields{"k": "v"}).Warn("dropped")
		Info("dropped")
	})
}
