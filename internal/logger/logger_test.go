package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Domenick1991/boatbooking/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	configure(l, config.LogConfig{Level: "warn", Format: "json"}, "worker", &buf)

	l.Info("dropped")
	l.WithField("booking_id", 7).Warn("send failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "send failed", entry["message"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "worker", entry["service"])
	assert.Equal(t, float64(7), entry["booking_id"])
	assert.Contains(t, entry, "ts")
}

func TestConfigure_TextAndUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	configure(l, config.LogConfig{Level: "loud", Format: "text"}, "api", &buf)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
	assert.Contains(t, buf.String(), "service=api")
}

func TestConfigure_ReplacesHooks(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	configure(l, config.LogConfig{Level: "info"}, "api", &buf)
	configure(l, config.LogConfig{Level: "info"}, "", &buf)
	buf.Reset()

	l.Info("plain")
	assert.NotContains(t, buf.String(), "service")
}
