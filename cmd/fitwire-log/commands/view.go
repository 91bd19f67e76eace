// Package commands implements the fitwire-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Field    string
	Category *diag.Category
	Severity *diag.Severity
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event diag.Event) {
	// Header line: timestamp [stream:id] SEVERITY CATEGORY field
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	streamID := shortenStreamID(event.StreamID)

	fmt.Fprintf(w, "%s [stream:%s] %-7s %s %s\n",
		ts, streamID, event.Severity.String(), event.Category.String(), event.Field)

	if event.Message != "" {
		fmt.Fprintf(w, "  Message: %s\n", event.Message)
	}
	if event.Detail != "" {
		fmt.Fprintf(w, "  Detail: %s\n", event.Detail)
	}
	if event.Value != nil {
		fmt.Fprintf(w, "  Value: %v\n", event.Value)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenStreamID returns the first 8 characters of the stream ID.
func shortenStreamID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (diag.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (diag.Category, error) {
	switch strings.ToLower(s) {
	case "resolution":
		return diag.CategoryResolution, nil
	case "scale":
		return diag.CategoryScale, nil
	case "type":
		return diag.CategoryType, nil
	case "overflow":
		return diag.CategoryOverflow, nil
	case "absent":
		return diag.CategoryAbsent, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be resolution, scale, type, overflow, or absent)", s)
	}
}

// ParseSeverityFlag parses a severity string from command-line flag (case-insensitive).
func ParseSeverityFlag(s string) (diag.Severity, error) {
	return parseSeverity(s)
}

// parseSeverity parses a severity string (case-insensitive).
func parseSeverity(s string) (diag.Severity, error) {
	switch strings.ToLower(s) {
	case "info":
		return diag.SeverityInfo, nil
	case "warning":
		return diag.SeverityWarning, nil
	case "error":
		return diag.SeverityError, nil
	default:
		return 0, fmt.Errorf("invalid severity: %s (must be info, warning, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := diag.NewFilteredReader(path, diag.Filter{
		Field:    filter.Field,
		Category: filter.Category,
		Severity: filter.Severity,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
