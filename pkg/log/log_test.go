package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("Chain opened", "links", 3)

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "Chain opened"))
	assert.True(t, strings.Contains(out, "links=3"))
	assert.False(t, strings.Contains(out, "\x1b["))
}

func TestNew_Kubernetes(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")
	_, isJSON := New(slog.LevelInfo).Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
}
