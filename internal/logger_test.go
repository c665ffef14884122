package internal

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "info")

	logger.Debug("hidden")
	logger.Info("invoice created", "invoice_id", "abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "invoice created", rec["msg"])
	assert.Equal(t, "fakturo", rec["service"])
	assert.Equal(t, "abc", rec["invoice_id"])
}

func TestNewLogger_DevWritesText(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "dev", "warn").Warn("slow render")

	assert.Contains(t, buf.String(), "msg=\"slow render\"")
	assert.Contains(t, buf.String(), "service=fakturo")
}
