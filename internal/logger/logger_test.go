package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: DebugLevel, Output: &buf, JSON: true})

	log.With("submission_id", "abc").Info("state changed", "to", "polling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "state changed", entry["msg"])
	assert.Equal(t, "abc", entry["submission_id"])
	assert.Equal(t, "polling", entry["to"])
}

func TestLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WarnLevel, Output: &buf})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	log := New(Config{Output: &buf})
	ctx := ContextWithLogger(context.Background(), log)
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "hello")
}
