package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/tejash-9/spacedrive/internal/logging"
)

func TestParseLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Options{Level: "unknown", Format: "json", OutputPaths: []string{"stdout"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info level enabled")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level disabled")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsJobFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.WithJob(context.Background(), "job-123", "file_identifier")
	ctx = logging.WithLocation(ctx, 7)

	logging.WithContext(ctx, base).Info("hello")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("parse log line: %v (line %q)", err, buf.String())
	}
	if payload[logging.FieldJobID] != "job-123" {
		t.Fatalf("expected job_id field, got %v", payload)
	}
	if payload[logging.FieldJobName] != "file_identifier" {
		t.Fatalf("expected job_name field, got %v", payload)
	}
	if payload[logging.FieldLocationID] != float64(7) {
		t.Fatalf("expected location_id field, got %v", payload)
	}
}

func TestNewComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.NewComponentLogger(base, "identifier").Info("ready")

	if !strings.Contains(buf.String(), `"component":"identifier"`) {
		t.Fatalf("expected component attribute, got %q", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
