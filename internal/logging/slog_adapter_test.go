// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	logger := NewSlogLogger().With("supervisor", "comolive").WithGroup("event")
	logger.Warn("service restarted", "service", "http-server", "backoff", 2*time.Second)

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"supervisor":"comolive"`,
		`"event.service":"http-server"`,
		"service restarted",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelDebug - 4, "trace"},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.level).String(); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %s, want %s", tt.level, got, tt.want)
		}
	}
}
