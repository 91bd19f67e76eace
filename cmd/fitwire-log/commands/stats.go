package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[diag.Category]int
	EventsBySeverity map[diag.Severity]int
	Streams          map[string]*StreamStats
	Fields           map[string]int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// StreamStats holds statistics for a single telemetry stream.
type StreamStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Warnings  int
	Errors    int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := diag.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[diag.Category]int),
		EventsBySeverity: make(map[diag.Severity]int),
		Streams:          make(map[string]*StreamStats),
		Fields:           make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsBySeverity[event.Severity]++
		if event.Field != "" {
			stats.Fields[event.Field]++
		}

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-stream stats
		stream, ok := stats.Streams[event.StreamID]
		if !ok {
			stream = &StreamStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Streams[event.StreamID] = stream
		}
		stream.Events++
		if event.Timestamp.After(stream.LastSeen) {
			stream.LastSeen = event.Timestamp
		}
		switch event.Severity {
		case diag.SeverityWarning:
			stream.Warnings++
		case diag.SeverityError:
			stream.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Decode Diagnostics Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	categories := []diag.Category{
		diag.CategoryResolution, diag.CategoryScale, diag.CategoryType,
		diag.CategoryOverflow, diag.CategoryAbsent,
	}
	for _, cat := range categories {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by severity
	fmt.Fprintln(w, "Events by Severity:")
	for _, sev := range []diag.Severity{diag.SeverityInfo, diag.SeverityWarning, diag.SeverityError} {
		if count := stats.EventsBySeverity[sev]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", sev.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Noisiest fields
	if len(stats.Fields) > 0 {
		type fieldCount struct {
			name  string
			count int
		}
		fields := make([]fieldCount, 0, len(stats.Fields))
		for name, count := range stats.Fields {
			fields = append(fields, fieldCount{name, count})
		}
		sort.Slice(fields, func(i, j int) bool {
			if fields[i].count != fields[j].count {
				return fields[i].count > fields[j].count
			}
			return fields[i].name < fields[j].name
		})
		if len(fields) > 10 {
			fields = fields[:10]
		}

		fmt.Fprintln(w, "Top Fields:")
		for _, f := range fields {
			fmt.Fprintf(w, "  %-24s %d\n", f.name+":", f.count)
		}
		fmt.Fprintln(w)
	}

	// Streams
	fmt.Fprintf(w, "Streams: %d\n", len(stats.Streams))
	if len(stats.Streams) > 0 {
		type streamInfo struct {
			id    string
			stats *StreamStats
		}
		streams := make([]streamInfo, 0, len(stats.Streams))
		for id, ss := range stats.Streams {
			streams = append(streams, streamInfo{id, ss})
		}
		sort.Slice(streams, func(i, j int) bool {
			return streams[i].stats.FirstSeen.Before(streams[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, s := range streams {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			shortID := s.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, s.stats.Events, duration)
			if s.stats.Warnings > 0 {
				fmt.Fprintf(w, "           Warnings: %d\n", s.stats.Warnings)
			}
			if s.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", s.stats.Errors)
			}
		}
	}
}
