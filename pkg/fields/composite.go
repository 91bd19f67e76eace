package fields

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// component pairs a declared bit width with the delegate that decodes the
// extracted bits.
type component struct {
	bits  int
	field *DelegateField
}

// CompositeField decodes a single byte buffer as a bit-packed sequence of
// delegate fields with declared bit widths, consumed in row order from the
// least-significant end. Unlike simple fields it emits one output per
// component, in declaration order.
type CompositeField struct {
	name       string
	number     int
	components []component
}

// NewCompositeField builds a composite from a row with a components cell.
// The components, bits, units, scale, offset and accumulate cells are
// split in lockstep; a missing or unparsable bit width fails construction.
func NewCompositeField(row profile.Row) (*CompositeField, error) {
	number, _ := row.Number()
	f := &CompositeField{name: row.FieldName, number: number}

	for _, tuple := range profile.SplitLockstep(
		row.Components, row.Bits, row.Units, row.Scale, row.Offset, row.Accumulate) {
		name, bitsCell, units, scaleCell, offsetCell, accCell := tuple[0], tuple[1], tuple[2], tuple[3], tuple[4], tuple[5]

		bits, err := strconv.Atoi(bitsCell)
		if err != nil || bits <= 0 {
			return nil, fmt.Errorf("composite %s component %s: bad bit width %q", row.FieldName, name, bitsCell)
		}
		scale, hasScale := profile.SingleFloat(scaleCell)
		offset, hasOffset := profile.SingleFloat(offsetCell)
		accumulate, _ := profile.SingleInt(accCell)

		delegate := NewDelegateField(name, units, scale, offset, hasScale, hasOffset, accumulate != 0)
		delegate.wireBits = bits
		f.components = append(f.components, component{bits: bits, field: delegate})
	}
	return f, nil
}

// Name returns the composite's declared name.
func (f *CompositeField) Name() string { return f.name }

// Number returns the declared field number.
func (f *CompositeField) Number() int { return f.number }

// Kind returns KindComposite.
func (f *CompositeField) Kind() Kind { return KindComposite }

// Decode interprets the buffer as one unsigned integer per the declared
// endianness, then hands each component its low-order bits: extract the
// declared width, pad up to the delegate's minimum byte size, re-encode in
// the same endianness and decode with count 1. Outputs concatenate in
// declaration order. Widths exceeding the buffer's bit length are a
// schema/data inconsistency and fail before any output.
func (f *CompositeField) Decode(data []byte, opts Options) ([]Output, error) {
	if opts.Message == nil {
		return nil, fmt.Errorf("composite %s: %w", f.name, ErrNoContext)
	}

	total := 0
	for _, c := range f.components {
		total += c.bits
	}
	if total > len(data)*8 {
		opts.log(diag.New(diag.CategoryOverflow, diag.SeverityError, f.name,
			fmt.Sprintf("%d bits declared, %d available", total, len(data)*8)))
		return nil, fmt.Errorf("composite %s: %w: %d bits declared, %d available",
			f.name, ErrBitsOverflow, total, len(data)*8)
	}

	bits := new(big.Int).SetBytes(toBigEndian(data, opts.Endian))

	var outputs []Output
	for _, c := range f.components {
		minSize, err := c.field.ByteSize(opts.Message)
		if err != nil {
			return nil, fmt.Errorf("composite %s: %w", f.name, err)
		}
		size := (c.bits + 7) / 8
		if minSize > size {
			size = minSize
		}

		mask := new(big.Int).Lsh(big.NewInt(1), uint(c.bits))
		mask.Sub(mask, big.NewInt(1))
		chunk := new(big.Int).And(bits, mask)
		bits.Rsh(bits, uint(c.bits))

		buf := make([]byte, size)
		chunk.FillBytes(buf)

		sub := opts
		sub.Count = 1
		out, err := c.field.Decode(toBigEndian(buf, opts.Endian), sub)
		if err != nil {
			return nil, fmt.Errorf("composite %s: %w", f.name, err)
		}
		outputs = append(outputs, out...)
	}
	return outputs, nil
}

// toBigEndian returns data in big-endian order: unchanged for Big, byte
// reversed for Little. The same transform converts in both directions.
func toBigEndian(data []byte, endian types.Endian) []byte {
	if endian == types.Big {
		return data
	}
	reversed := make([]byte, len(data))
	for i, b := range data {
		reversed[len(data)-1-i] = b
	}
	return reversed
}

// Compile-time interface satisfaction check.
var _ Field = (*CompositeField)(nil)
