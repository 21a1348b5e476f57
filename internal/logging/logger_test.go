package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTo(t *testing.T) {
	var buf bytes.Buffer

	log := NewTo(&buf, slog.LevelInfo)
	log.Debug("hidden")
	log.Warn("validation swallowed", "path", "server.port", "error", errors.New("out of range"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "path=server.port")
	assert.Contains(t, out, `err="out of range"`)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotNil(t, log)
	assert.NotPanics(t, func() { log.Error("dropped", "error", errors.New("x")) })
}
