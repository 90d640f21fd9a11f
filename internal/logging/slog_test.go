package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLoggerInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Info(context.Background(), "schedule created", "user_id", int64(1))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "schedule created", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 1, entry["user_id"])
}

func TestSlogLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	child := logger.With("component", "storage")
	child.Warn(context.Background(), "slow query")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slow query", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "storage", entry["component"])
}
