package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
)

// createTestLogFile writes events to a temp .flog file and returns its path.
func createTestLogFile(t *testing.T, events []diag.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.flog")

	logger, err := diag.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

func TestRunView(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	events := []diag.Event{
		{Timestamp: ts, StreamID: "stream-a", Field: "cadence",
			Category: diag.CategoryResolution, Severity: diag.SeverityWarning,
			Detail: "no reference matched, decoding statically"},
		{Timestamp: ts, StreamID: "stream-a", Field: "speed",
			Category: diag.CategoryAbsent, Severity: diag.SeverityInfo,
			Detail: "buffer held no valid values"},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "WARNING RESOLUTION cadence") {
		t.Errorf("missing resolution header, got:\n%s", out)
	}
	if !strings.Contains(out, "no reference matched") {
		t.Errorf("missing detail line, got:\n%s", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "ABSENT") {
		t.Errorf("missing absent event, got:\n%s", out)
	}
}

func TestRunViewFilterByCategory(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	events := []diag.Event{
		{Timestamp: ts, Field: "a", Category: diag.CategoryScale, Severity: diag.SeverityWarning},
		{Timestamp: ts, Field: "b", Category: diag.CategoryAbsent, Severity: diag.SeverityInfo},
	}
	path := createTestLogFile(t, events)

	cat := diag.CategoryScale
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SCALE") {
		t.Errorf("missing scale event, got:\n%s", out)
	}
	if strings.Contains(out, "ABSENT") {
		t.Errorf("absent event not filtered out, got:\n%s", out)
	}
}

func TestRunViewFilterBySeverity(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	events := []diag.Event{
		{Timestamp: ts, Field: "a", Category: diag.CategoryAbsent, Severity: diag.SeverityInfo},
		{Timestamp: ts, Field: "b", Category: diag.CategoryScale, Severity: diag.SeverityWarning},
		{Timestamp: ts, Field: "c", Category: diag.CategoryType, Severity: diag.SeverityError},
	}
	path := createTestLogFile(t, events)

	min := diag.SeverityWarning
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Severity: &min}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "INFO") {
		t.Errorf("info event not filtered out, got:\n%s", out)
	}
	if !strings.Contains(out, "WARNING") || !strings.Contains(out, "ERROR") {
		t.Errorf("missing warning or error event, got:\n%s", out)
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    diag.Category
		wantErr bool
	}{
		{"resolution", diag.CategoryResolution, false},
		{"SCALE", diag.CategoryScale, false},
		{"Type", diag.CategoryType, false},
		{"overflow", diag.CategoryOverflow, false},
		{"absent", diag.CategoryAbsent, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCategoryFlag(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategoryFlag(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSeverityFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    diag.Severity
		wantErr bool
	}{
		{"info", diag.SeverityInfo, false},
		{"Warning", diag.SeverityWarning, false},
		{"ERROR", diag.SeverityError, false},
		{"critical", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverityFlag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSeverityFlag(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeverityFlag(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeverityFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
