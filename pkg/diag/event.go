package diag

import "time"

// Event represents one decode diagnostic.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// StreamID identifies the logical telemetry stream, when known.
	StreamID string `cbor:"2,keyasint,omitempty"`

	// Message is the message name the field belongs to.
	Message string `cbor:"3,keyasint,omitempty"`

	// Field is the field name the event concerns.
	Field string `cbor:"4,keyasint,omitempty"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// Severity grades the event.
	Severity Severity `cbor:"6,keyasint"`

	// Detail is a human-readable description.
	Detail string `cbor:"7,keyasint,omitempty"`

	// Value is the offending value, when one exists.
	Value any `cbor:"8,keyasint,omitempty"`
}

// Category classifies a decode diagnostic.
type Category uint8

const (
	// CategoryResolution is a dynamic field that could not be resolved.
	CategoryResolution Category = 0
	// CategoryScale is scaling applied to a non-numeric value.
	CategoryScale Category = 1
	// CategoryType is a decode-type failure, such as a short buffer.
	CategoryType Category = 2
	// CategoryOverflow is a composite bit-width overflow.
	CategoryOverflow Category = 3
	// CategoryAbsent is a buffer that decoded to no values.
	CategoryAbsent Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryResolution:
		return "RESOLUTION"
	case CategoryScale:
		return "SCALE"
	case CategoryType:
		return "TYPE"
	case CategoryOverflow:
		return "OVERFLOW"
	case CategoryAbsent:
		return "ABSENT"
	default:
		return "UNKNOWN"
	}
}

// Severity grades a decode diagnostic.
type Severity uint8

const (
	// SeverityInfo marks expected data conditions (absent values).
	SeverityInfo Severity = 0
	// SeverityWarning marks recoverable data-quality anomalies.
	SeverityWarning Severity = 1
	// SeverityError marks schema or structure anomalies.
	SeverityError Severity = 2
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// New creates an event with the current timestamp.
func New(category Category, severity Severity, field, detail string) Event {
	return Event{
		Timestamp: time.Now(),
		Field:     field,
		Category:  category,
		Severity:  severity,
		Detail:    detail,
	}
}
