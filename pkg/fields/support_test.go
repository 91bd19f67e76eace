package fields

import (
	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// fakeContext is a by-name field map standing in for a message schema.
type fakeContext map[string]Field

func (c fakeContext) FieldByName(name string) (Field, bool) {
	f, ok := c[name]
	return f, ok
}

// fakeAccumulator records calls and applies a fixed additive adjustment.
type fakeAccumulator struct {
	calls []accCall
	add   float64
}

type accCall struct {
	field  string
	bits   int
	values []types.Value
}

func (a *fakeAccumulator) Accumulate(field string, bits int, values []types.Value) []types.Value {
	a.calls = append(a.calls, accCall{field: field, bits: bits, values: values})
	adjusted := make([]types.Value, len(values))
	for i, v := range values {
		switch n := v.(type) {
		case uint64:
			adjusted[i] = float64(n) + a.add
		case int64:
			adjusted[i] = float64(n) + a.add
		case float64:
			adjusted[i] = n + a.add
		default:
			adjusted[i] = v
		}
	}
	return adjusted
}

// eventRecorder captures diagnostics for assertions.
type eventRecorder struct {
	events []diag.Event
}

func (r *eventRecorder) Log(event diag.Event) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) byCategory(cat diag.Category) []diag.Event {
	var matched []diag.Event
	for _, e := range r.events {
		if e.Category == cat {
			matched = append(matched, e)
		}
	}
	return matched
}

// cannedField is a non-simple field variant returning fixed outputs, used
// to exercise full delegation paths.
type cannedField struct {
	name    string
	kind    Kind
	outputs []Output
	err     error
}

func (f *cannedField) Name() string { return f.name }
func (f *cannedField) Kind() Kind   { return f.kind }

func (f *cannedField) Decode(data []byte, opts Options) ([]Output, error) {
	return f.outputs, f.err
}
