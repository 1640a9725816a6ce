package testutil

import (
	"bytes"
	"log/slog"
)

// NewBufferLogger returns a debug-level slog logger backed by a buffer and the
// buffer for assertions.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}
