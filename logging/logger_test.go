package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cro-ux-auditor/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	logger.WithFields(Fields{"url": "https://example.com"}).Debug("fetching")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetching", entry["msg"])
	assert.Equal(t, "https://example.com", entry["url"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewUnknownLevel(t *testing.T) {
	logger := NewWithOutput(config.LoggingConfig{Level: "chatty"}, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
