// Package fields implements the decode core for profile-defined binary
// record fields.
//
// A Field is constructed once from a profile Row (see NewMessageField) and
// is immutable afterwards; it turns a raw byte buffer into zero or more
// named, typed, unit-tagged values. Four variants cover the profile's
// declaration shapes: plain row fields, delegate fields used inside
// bit-packed composites, composite fields, and dynamic fields whose
// effective definition depends on a sibling value decoded earlier in the
// same message.
//
// Decoding is synchronous and free of shared mutable state; the only
// stateful collaborator is the Accumulator, owned by the caller per
// logical stream. Data-quality anomalies are reported through the
// diagnostics channel and recovered locally; schema anomalies fail hard.
package fields

import (
	"errors"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// Schema and structure errors.
var (
	// ErrScaledDelegate is returned when a scaled component delegates to a
	// non-simple field. Scaling assumes a single concrete numeric type;
	// combining it with a recursive hand-off has no defined semantics.
	ErrScaledDelegate = errors.New("cannot scale a delegated non-simple field")

	// ErrBitsOverflow is returned when a composite's declared bit widths
	// exceed the buffer's bit length.
	ErrBitsOverflow = errors.New("component bit widths exceed buffer length")

	// ErrUnknownField is returned when a by-name lookup through the
	// message context finds nothing.
	ErrUnknownField = errors.New("field not found in message")

	// ErrNoContext is returned when a decode that must resolve siblings
	// runs without a message context.
	ErrNoContext = errors.New("decode requires a message context")
)

// Kind tags the field variants. Variant checks are tag matches, never
// reflection.
type Kind uint8

const (
	// KindRow is a plain field with a type resolved at construction.
	KindRow Kind = 0
	// KindDelegate is a composite sub-field resolved at decode time.
	KindDelegate Kind = 1
	// KindComposite is a bit-packed sequence of delegate fields.
	KindComposite Kind = 2
	// KindDynamic is a field resolved against sibling values at decode time.
	KindDynamic Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRow:
		return "ROW"
	case KindDelegate:
		return "DELEGATE"
	case KindComposite:
		return "COMPOSITE"
	case KindDynamic:
		return "DYNAMIC"
	default:
		return "UNKNOWN"
	}
}

// Output is one named result of a decode: the value tuple and its units
// ("" when the profile declares none).
type Output struct {
	Name   string
	Values []types.Value
	Units  string
}

// Ref holds the just-decoded values of a field, keyed by name in the
// per-message References map for later dynamic resolution.
type Ref struct {
	Values []types.Value
	Units  string
}

// References maps already-decoded field names to their values within one
// message instance. It lives for a single message decode pass.
type References map[string]Ref

// Add folds decode outputs into the map in order.
func (r References) Add(outputs []Output) {
	for _, out := range outputs {
		r[out.Name] = Ref{Values: out.Values, Units: out.Units}
	}
}

// MessageContext exposes the sibling fields of the enclosing message.
// Delegate and dynamic fields resolve through it by name; the schema
// graph can contain mutual references, so fields never embed each other
// structurally.
type MessageContext interface {
	// FieldByName returns the message's field with the given name.
	FieldByName(name string) (Field, bool)
}

// Accumulator corrects monotonic counters for fixed-width rollover. It is
// stateful per logical stream and owned by the caller; bits is the
// counter's width on the wire: the packed bit width for a composite
// component, the decode type's width otherwise.
type Accumulator interface {
	Accumulate(field string, bits int, values []types.Value) []types.Value
}

// Options carries the per-decode parameters shared by all field variants.
type Options struct {
	// Count is the number of values in the buffer. Zero means derive it
	// from the buffer length and the type size.
	Count int

	// Endian is the record's declared byte order.
	Endian types.Endian

	// Refs is the enclosing message's references map. Dynamic fields read
	// it; the message decoder writes it between field decodes.
	Refs References

	// Acc handles counter accumulation for fields that request it.
	// Nil disables accumulation.
	Acc Accumulator

	// Message resolves sibling fields for delegate and dynamic decoding.
	Message MessageContext

	// Diags receives data-quality diagnostics. Nil discards them.
	Diags diag.Logger
}

// log emits a diagnostic if a logger is configured.
func (o Options) log(event diag.Event) {
	if o.Diags != nil {
		o.Diags.Log(event)
	}
}

// Field decodes raw bytes into named outputs.
type Field interface {
	// Name returns the declared field name.
	Name() string

	// Kind returns the variant tag.
	Kind() Kind

	// Decode produces the field's outputs for one buffer. No outputs with
	// a nil error means the buffer held no valid values.
	Decode(data []byte, opts Options) ([]Output, error)
}

// TypeCarrier is implemented by fields with a fixed decode type resolved
// at construction (row and dynamic fields). Composites size their
// sub-fields through it.
type TypeCarrier interface {
	Type() types.DecodeType
}
