package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "WARN")

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected INFO to be filtered, got %s", buf.String())
	}
	logger.Warn("shown")
	if rec := decodeLine(t, &buf); rec["msg"] != "shown" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNew_ErrorHasStacktrace(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "INFO").Error("boom")

	rec := decodeLine(t, &buf)
	if _, ok := rec["stacktrace"]; !ok {
		t.Errorf("expected stacktrace on ERROR, got %v", rec)
	}
}

func TestNew_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithRequestID(context.Background(), "req-1")
	New(&buf, "INFO").With("component", "test").InfoContext(ctx, "hello")

	rec := decodeLine(t, &buf)
	if rec["request_id"] != "req-1" {
		t.Errorf("expected request_id=req-1, got %v", rec["request_id"])
	}
	if rec["component"] != "test" {
		t.Errorf("expected attrs from With to survive, got %v", rec)
	}
	if _, ok := rec["stacktrace"]; ok {
		t.Error("unexpected stacktrace on INFO")
	}
}

func TestRequestID_Missing(t *testing.T) {
	if _, ok := RequestID(context.Background()); ok {
		t.Error("expected no request id on empty context")
	}
}
