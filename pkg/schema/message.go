// Package schema assembles profile rows into message schemas.
//
// A Message holds the constructed fields of one message type in
// declaration order and by name, and implements the decode core's
// MessageContext so delegate and dynamic fields can resolve their
// siblings. Messages are built once from the profile table and are
// immutable and safe to share across concurrent decodes afterwards; the
// per-instance decode state (the references map) lives in a Decoder.
package schema

import (
	"errors"
	"fmt"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/fields"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// Schema errors.
var (
	ErrDuplicateField = errors.New("duplicate field name")
	ErrStrayOverride  = errors.New("override row without a preceding field")
)

// Message is the constructed schema of one message type.
type Message struct {
	name     string
	fields   []fields.Field
	byName   map[string]fields.Field
	byNumber map[int]fields.Field
}

// NewMessage builds a message schema from its ordered profile rows.
// Override rows are consumed by the dynamic field they follow; one
// appearing anywhere else is a malformed table. Construction fails on the
// first schema anomaly so a bad profile is rejected before any data is
// decoded.
func NewMessage(name string, rows []profile.Row, registry *types.Registry) (*Message, error) {
	m := &Message{
		name:     name,
		byName:   make(map[string]fields.Field),
		byNumber: make(map[int]fields.Field),
	}

	cursor := profile.NewCursor(rows)
	for {
		row, ok := cursor.Next()
		if !ok {
			break
		}
		if row.IsBlank() {
			continue
		}
		if row.IsOverride() {
			return nil, fmt.Errorf("message %s: %w: %s", name, ErrStrayOverride, row.FieldName)
		}

		field, err := fields.NewMessageField(row, cursor, registry)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", name, err)
		}
		if _, exists := m.byName[field.Name()]; exists {
			return nil, fmt.Errorf("message %s: %w: %s", name, ErrDuplicateField, field.Name())
		}

		m.fields = append(m.fields, field)
		m.byName[field.Name()] = field
		if numbered, ok := field.(interface{ Number() int }); ok {
			m.byNumber[numbered.Number()] = field
		}

		// A dynamic field's override rows declare fields of their own;
		// register them by name so resolution can reach them. They carry
		// no field number and are not part of the declaration order.
		if dyn, ok := field.(*fields.DynamicField); ok {
			for _, override := range dyn.Overrides() {
				if _, exists := m.byName[override.Name()]; exists {
					return nil, fmt.Errorf("message %s: %w: %s", name, ErrDuplicateField, override.Name())
				}
				m.byName[override.Name()] = override
			}
		}
	}
	return m, nil
}

// BuildMessages groups rows by message name and builds every message in
// the slice. Row order within each message is preserved.
func BuildMessages(rows []profile.Row, registry *types.Registry) (map[string]*Message, error) {
	grouped := make(map[string][]profile.Row)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.MessageName]; !ok {
			order = append(order, row.MessageName)
		}
		grouped[row.MessageName] = append(grouped[row.MessageName], row)
	}

	messages := make(map[string]*Message, len(order))
	for _, name := range order {
		if name == "" {
			return nil, fmt.Errorf("profile rows without a message name")
		}
		msg, err := NewMessage(name, grouped[name], registry)
		if err != nil {
			return nil, err
		}
		messages[name] = msg
	}
	return messages, nil
}

// Name returns the message name.
func (m *Message) Name() string { return m.name }

// Fields returns the fields in declaration order. The slice is shared;
// callers must not mutate it.
func (m *Message) Fields() []fields.Field { return m.fields }

// FieldByName returns the field with the given name.
func (m *Message) FieldByName(name string) (fields.Field, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// FieldByNumber returns the field declared with the given field number.
func (m *Message) FieldByNumber(number int) (fields.Field, bool) {
	f, ok := m.byNumber[number]
	return f, ok
}

// Decoder decodes the fields of one message instance. It owns the
// references map written by every decoded field and read by dynamic
// fields, so fields must be decoded in declaration order for dynamic
// resolution to see its inputs. A Decoder is single-use per message
// instance and not safe for concurrent use.
type Decoder struct {
	message *Message
	endian  types.Endian
	acc     fields.Accumulator
	diags   diag.Logger
	refs    fields.References
}

// NewDecoder creates a decoder for one incoming message instance.
// acc carries the stream's accumulation state and may be nil; diags may be
// nil to discard diagnostics.
func (m *Message) NewDecoder(endian types.Endian, acc fields.Accumulator, diags diag.Logger) *Decoder {
	return &Decoder{
		message: m,
		endian:  endian,
		acc:     acc,
		diags:   diags,
		refs:    make(fields.References),
	}
}

// DecodeField decodes one field's buffer and folds the outputs into the
// references map. count is the declared value count; zero derives it from
// the buffer length.
func (d *Decoder) DecodeField(name string, data []byte, count int) ([]fields.Output, error) {
	field, ok := d.message.FieldByName(name)
	if !ok {
		return nil, fmt.Errorf("message %s: %w: %s", d.message.name, fields.ErrUnknownField, name)
	}

	outputs, err := field.Decode(data, fields.Options{
		Count:   count,
		Endian:  d.endian,
		Refs:    d.refs,
		Acc:     d.acc,
		Message: d.message,
		Diags:   d.diags,
	})
	if err != nil {
		return nil, err
	}
	d.refs.Add(outputs)
	return outputs, nil
}

// References returns the references map accumulated so far.
func (d *Decoder) References() fields.References { return d.refs }

// Compile-time interface satisfaction check.
var _ fields.MessageContext = (*Message)(nil)
