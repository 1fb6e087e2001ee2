package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_Level(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, NewWithOutput("debug", &bytes.Buffer{}).GetLevel())
	require.Equal(t, logrus.InfoLevel, NewWithOutput("loud", &bytes.Buffer{}).GetLevel())
	require.Equal(t, logrus.InfoLevel, New("").GetLevel())
}

func TestNewWithOutput_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf)
	log.WithField("key", "ac_countries").Info("cache refreshed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "cache refreshed", entry["message"])
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "ac_countries", entry["key"])
	require.Contains(t, entry, "timestamp")
	require.NotContains(t, entry, "msg")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	require.False(t, log.IsLevelEnabled(logrus.ErrorLevel))
	log.Error("dropped")
}
