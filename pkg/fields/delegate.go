package fields

import "fmt"

// DelegateField is a composite sub-field whose concrete decode type is not
// known until resolved against the enclosing message at decode time. Its
// name refers to a sibling field; a simple sibling lends its decode type
// while this field's own scaling applies, anything else is delegated to
// wholesale.
type DelegateField struct {
	ScaledField
}

// NewDelegateField builds a delegate from one composite component tuple.
func NewDelegateField(name, units string, scale, offset float64, hasScale, hasOffset, accumulate bool) *DelegateField {
	return &DelegateField{newScaledField(name, units, scale, offset, hasScale, hasOffset, accumulate)}
}

// Kind returns KindDelegate.
func (f *DelegateField) Kind() Kind { return KindDelegate }

// Decode resolves the target field by name. A plain row target lends its
// type (this field's scale and offset still apply). A non-simple target is
// delegated to verbatim, which is only well-defined for an unscaled
// delegate; a scaled one fails with ErrScaledDelegate.
func (f *DelegateField) Decode(data []byte, opts Options) ([]Output, error) {
	if opts.Message == nil {
		return nil, fmt.Errorf("field %s: %w", f.name, ErrNoContext)
	}
	target, ok := opts.Message.FieldByName(f.name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, f.name)
	}

	if target.Kind() == KindRow {
		return f.decodeAndScale(target.(TypeCarrier).Type(), data, opts)
	}
	if f.scaled {
		return nil, fmt.Errorf("field %s: %w", f.name, ErrScaledDelegate)
	}
	return target.Decode(data, opts)
}

// ByteSize returns the resolved target's declared decode-type size. The
// enclosing composite uses it as the minimum consumption width for this
// sub-field.
func (f *DelegateField) ByteSize(message MessageContext) (int, error) {
	target, ok := message.FieldByName(f.name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, f.name)
	}
	carrier, ok := target.(TypeCarrier)
	if !ok {
		return 0, fmt.Errorf("field %s has no fixed decode type", f.name)
	}
	return carrier.Type().Size(), nil
}

// Compile-time interface satisfaction check.
var _ Field = (*DelegateField)(nil)
