package fields

import (
	"fmt"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// ScaledField is the shared numeric-decode base: name, units, scale and
// offset, and the accumulate flag. A field is scaled iff scale != 1 or
// offset != 0.
type ScaledField struct {
	name       string
	units      string
	scale      float64
	offset     float64
	scaled     bool
	accumulate bool

	// wireBits, when nonzero, overrides the accumulator width. A composite
	// component wraps at its packed bit width on the wire, not at the width
	// of the sibling type it borrows for decoding.
	wireBits int
}

// newScaledField applies the scale and offset defaults (1 and 0).
func newScaledField(name, units string, scale, offset float64, hasScale, hasOffset, accumulate bool) ScaledField {
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}
	return ScaledField{
		name:       name,
		units:      units,
		scale:      scale,
		offset:     offset,
		scaled:     scale != 1 || offset != 0,
		accumulate: accumulate,
	}
}

// Name returns the field name.
func (f *ScaledField) Name() string { return f.name }

// Units returns the field's unit string, or "".
func (f *ScaledField) Units() string { return f.units }

// IsScaled reports whether a scale or offset applies.
func (f *ScaledField) IsScaled() bool { return f.scaled }

// decodeAndScale is the base decode path: resolve raw values through the
// decode type, apply scale/offset, run the accumulator. A nil value slice
// from the type means the buffer was all invalid sentinels; the field then
// contributes no output.
func (f *ScaledField) decodeAndScale(t types.DecodeType, data []byte, opts Options) ([]Output, error) {
	count := opts.Count
	if count <= 0 {
		count = len(data) / t.Size()
	}

	values, err := t.Decode(data, count, opts.Endian)
	if err != nil {
		opts.log(diag.New(diag.CategoryType, diag.SeverityError, f.name, err.Error()))
		return nil, fmt.Errorf("field %s: %w", f.name, err)
	}
	if values == nil {
		event := diag.New(diag.CategoryAbsent, diag.SeverityInfo, f.name, "buffer held no valid values")
		opts.log(event)
		return nil, nil
	}

	if f.scaled {
		values = f.scaleValues(values, opts)
	}
	if f.accumulate && opts.Acc != nil {
		bits := f.wireBits
		if bits == 0 {
			bits = t.Size() * 8
		}
		values = opts.Acc.Accumulate(f.name, bits, values)
	}
	return []Output{{Name: f.name, Values: values, Units: f.units}}, nil
}

// scaleValues maps each numeric value v to v/scale - offset. A non-numeric
// value under scaling is a profile misconfiguration: it is reported and
// passed through unscaled rather than corrupting or aborting the decode.
func (f *ScaledField) scaleValues(values []types.Value, opts Options) []types.Value {
	scaled := make([]types.Value, len(values))
	for i, v := range values {
		n, ok := numeric(v)
		if !ok {
			event := diag.New(diag.CategoryScale, diag.SeverityWarning, f.name,
				fmt.Sprintf("scale %g applied to non-numeric value", f.scale))
			event.Value = v
			opts.log(event)
			scaled[i] = v
			continue
		}
		scaled[i] = n/f.scale - f.offset
	}
	return scaled
}

// numeric widens a decoded value to float64 for scaling.
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

// TypedField is a ScaledField with a field number and a decode type fixed
// at construction.
type TypedField struct {
	ScaledField
	number int
	typ    types.DecodeType
}

// Number returns the declared field number.
func (f *TypedField) Number() int { return f.number }

// Type returns the resolved decode type.
func (f *TypedField) Type() types.DecodeType { return f.typ }

// Kind returns KindRow.
func (f *TypedField) Kind() Kind { return KindRow }

// Decode decodes the buffer with the field's own type.
func (f *TypedField) Decode(data []byte, opts Options) ([]Output, error) {
	return f.decodeAndScale(f.typ, data, opts)
}

// RowField is a TypedField built from a profile row, resolving the row's
// type tag against the registry once, at construction.
type RowField struct {
	TypedField
}

// NewRowField builds a plain field from a row. An unknown type tag is a
// schema authoring bug and fails construction.
func NewRowField(row profile.Row, registry *types.Registry) (*RowField, error) {
	t, err := registry.Resolve(row.FieldType)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", row.FieldName, err)
	}

	number, _ := row.Number()
	scale, hasScale := profile.SingleFloat(row.Scale)
	offset, hasOffset := profile.SingleFloat(row.Offset)
	accumulate, _ := profile.SingleInt(row.Accumulate)

	return &RowField{TypedField{
		ScaledField: newScaledField(row.FieldName, row.Units, scale, offset, hasScale, hasOffset, accumulate != 0),
		number:      number,
		typ:         t,
	}}, nil
}

// Compile-time interface satisfaction checks.
var (
	_ Field       = (*RowField)(nil)
	_ TypeCarrier = (*RowField)(nil)
)
