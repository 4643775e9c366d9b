package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel(" warning "))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestJSONLogger_WritesFieldsAndApp(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "pet-records", Output: &buf})

	l.With(map[string]any{"request_id": "r-1"}).Info("pet created", map[string]any{
		"pet_id": "p-1",
		"err":    errors.New("boom"),
		" ":      "ignored",
	})
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "pet created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pet-records", entry["app"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "p-1", entry["pet_id"])
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, " ")
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatText, Output: &buf})

	l.Info("hidden", nil)
	l.Warn("shown", nil)

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := NewNop()
	l.With(map[string]any{"a": 1}).Error("x", nil)
	assert.NoError(t, l.Sync())
}
