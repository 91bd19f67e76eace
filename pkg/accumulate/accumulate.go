// Package accumulate corrects monotonic counters for fixed-width rollover.
//
// Telemetry counters (steps, distance ticks, pedal revolutions) are
// declared with an accumulate flag in the profile: the wire carries a
// fixed-width value that wraps to zero at its type's capacity, and the
// decoder must report an ever-increasing total instead. A Counter tracks
// rollover state per field across consecutive messages of one logical
// stream; callers decoding independent streams in parallel give each
// stream its own Counter.
package accumulate

import (
	"math"
	"sync"

	"github.com/fitwire-protocol/fitwire-go/pkg/fields"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
	"github.com/google/uuid"
)

// counterState is the per-field rollover state.
type counterState struct {
	base float64
	last float64
	seen bool
}

// Counter implements the decode core's Accumulator port. It is safe for
// sequential reuse across consecutive messages of one stream; concurrent
// decodes of the same stream are not supported, though the internal lock
// keeps state consistent if it happens.
type Counter struct {
	streamID string

	mu    sync.Mutex
	state map[string]*counterState
}

// New creates a Counter for a fresh logical stream with a generated
// stream ID.
func New() *Counter {
	return NewWithStream(uuid.NewString())
}

// NewWithStream creates a Counter carrying a caller-assigned stream ID.
// The ID appears in diagnostics emitted for the stream.
func NewWithStream(streamID string) *Counter {
	return &Counter{
		streamID: streamID,
		state:    make(map[string]*counterState),
	}
}

// StreamID returns the logical stream identifier.
func (c *Counter) StreamID() string { return c.streamID }

// Accumulate adjusts freshly decoded counter values for rollover. State is
// keyed by field name; bits is the counter's wire width. A value below its
// predecessor adds one counter span to the running base, so adjusted
// values are strictly increasing across a wrap. Numeric values widen to
// float64; non-numeric values pass through untouched.
func (c *Counter) Accumulate(field string, bits int, values []types.Value) []types.Value {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state[field]
	if !ok {
		st = &counterState{}
		c.state[field] = st
	}
	span := math.Pow(2, float64(bits))

	adjusted := make([]types.Value, len(values))
	for i, v := range values {
		n, ok := numeric(v)
		if !ok {
			adjusted[i] = v
			continue
		}
		if st.seen && n < st.last {
			st.base += span
		}
		st.last = n
		st.seen = true
		adjusted[i] = st.base + n
	}
	return adjusted
}

// Reset clears all rollover state, marking a stream boundary.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = make(map[string]*counterState)
}

// numeric widens a decoded value to float64.
func numeric(v types.Value) (float64, bool) {
	switch n := v.(type) {
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Compile-time interface satisfaction check.
var _ fields.Accumulator = (*Counter)(nil)
