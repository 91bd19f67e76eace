package fields

import (
	"fmt"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// refKey keys the resolution table by reference field name and the string
// form of the reference value.
type refKey struct {
	name  string
	value string
}

// DynamicField is a row field whose true definition is chosen at decode
// time: the contiguous override rows following its declaration map
// (reference name, reference value) pairs to sibling field names. When no
// pair matches the references seen so far in the message, the field falls
// back to its own static type.
type DynamicField struct {
	RowField

	// refNames tracks the distinct reference names in first-seen order.
	// Resolution checks them in this order and the first match wins.
	refNames  []string
	lookup    map[refKey]string
	overrides []Field
}

// NewDynamicField builds a dynamic field from its row plus the contiguous
// override rows that follow on the cursor. The scan stops at the first row
// with a field number or a blank row, leaving it unconsumed. An override
// row without a reference name is a malformed lookahead and fails
// construction.
func NewDynamicField(row profile.Row, cursor *profile.Cursor, registry *types.Registry) (*DynamicField, error) {
	base, err := NewRowField(row, registry)
	if err != nil {
		return nil, err
	}

	f := &DynamicField{
		RowField: *base,
		lookup:   make(map[refKey]string),
	}
	seen := make(map[string]bool)

	for {
		next, ok := cursor.Peek()
		if !ok || !next.IsOverride() {
			break
		}
		cursor.Next()

		// The override row declares a field of its own; the enclosing
		// message must register it so resolution can reach it by name.
		override, err := NewRowField(next, registry)
		if err != nil {
			return nil, fmt.Errorf("field %s: override: %w", row.FieldName, err)
		}
		f.overrides = append(f.overrides, override)

		for _, tuple := range profile.SplitLockstep(next.RefName, next.RefValue) {
			name, value := tuple[0], tuple[1]
			if name == "" {
				return nil, fmt.Errorf("field %s: override row %s has no reference name",
					row.FieldName, next.FieldName)
			}
			if !seen[name] {
				seen[name] = true
				f.refNames = append(f.refNames, name)
			}
			f.lookup[refKey{name: name, value: value}] = next.FieldName
		}
	}
	return f, nil
}

// Kind returns KindDynamic.
func (f *DynamicField) Kind() Kind { return KindDynamic }

// References returns the tracked reference names in resolution order.
func (f *DynamicField) References() []string {
	return f.refNames
}

// Overrides returns the fields declared by the consumed override rows.
// The enclosing message registers them under their own names.
func (f *DynamicField) Overrides() []Field {
	return f.overrides
}

// Decode resolves against the references map: for each tracked name in
// order, the first of its decoded values (units discarded) is looked up in
// the resolution table, and the first name with a match delegates the
// whole decode to the override field. No match anywhere degrades to the
// field's own static type with a diagnostic; resolution failure is a data
// condition, never fatal.
func (f *DynamicField) Decode(data []byte, opts Options) ([]Output, error) {
	for _, name := range f.refNames {
		ref, ok := opts.Refs[name]
		if !ok || len(ref.Values) == 0 {
			continue
		}
		override, ok := f.lookup[refKey{name: name, value: valueKey(ref.Values[0])}]
		if !ok {
			continue
		}
		if opts.Message == nil {
			return nil, fmt.Errorf("field %s: %w", f.name, ErrNoContext)
		}
		target, ok := opts.Message.FieldByName(override)
		if !ok {
			return nil, fmt.Errorf("field %s override: %w: %s", f.name, ErrUnknownField, override)
		}
		return target.Decode(data, opts)
	}

	event := diag.New(diag.CategoryResolution, diag.SeverityWarning, f.name,
		"no reference matched, decoding statically")
	opts.log(event)
	return f.RowField.Decode(data, opts)
}

// valueKey canonicalizes a decoded value for table lookup, so a decoded
// uint64(1) matches the profile cell "1" and an enum decoded to a name
// matches the name.
func valueKey(v types.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Compile-time interface satisfaction checks.
var (
	_ Field       = (*DynamicField)(nil)
	_ TypeCarrier = (*DynamicField)(nil)
)
