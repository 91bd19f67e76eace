package diag

import (
	"errors"
	"io"
)

// MultiLogger fans one event stream out to several loggers, typically a
// FileLogger for the .flog record plus a SlogAdapter for live console
// output during a decode session.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger wraps the given loggers. Events are delivered in the
// order the loggers were passed.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log delivers the event to every wrapped logger.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Close closes every wrapped logger that holds resources, so a session
// can tear down its whole diagnostic sink in one call. Errors from the
// individual closes are joined.
func (m *MultiLogger) Close() error {
	var errs []error
	for _, l := range m.loggers {
		if c, ok := l.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
