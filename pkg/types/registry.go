package types

import "fmt"

// Registry resolves profile type tags to decode types. A new registry
// holds the protocol's base types; profile-defined named types (sport,
// manufacturer, date_time, ...) are layered on top as aliases of a base
// type. Registries are built once during schema construction and are safe
// for concurrent read-only use afterwards.
type Registry struct {
	types map[string]DecodeType
}

// NewRegistry creates a registry holding all base types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]DecodeType)}
	for _, t := range baseTypes() {
		r.types[t.Name()] = t
	}
	return r
}

// baseTypes lists the protocol's fixed-width base types. "z" variants use
// zero as the invalid sentinel instead of all-ones.
func baseTypes() []DecodeType {
	return []DecodeType{
		&uintType{name: "enum", size: 1, invalid: 0xFF},
		&uintType{name: "byte", size: 1, invalid: 0xFF},
		&uintType{name: "uint8", size: 1, invalid: 0xFF},
		&uintType{name: "uint8z", size: 1, invalid: 0},
		&uintType{name: "uint16", size: 2, invalid: 0xFFFF},
		&uintType{name: "uint16z", size: 2, invalid: 0},
		&uintType{name: "uint32", size: 4, invalid: 0xFFFFFFFF},
		&uintType{name: "uint32z", size: 4, invalid: 0},
		&uintType{name: "uint64", size: 8, invalid: 0xFFFFFFFFFFFFFFFF},
		&uintType{name: "uint64z", size: 8, invalid: 0},
		&sintType{name: "sint8", size: 1},
		&sintType{name: "sint16", size: 2},
		&sintType{name: "sint32", size: 4},
		&sintType{name: "sint64", size: 8},
		&floatType{name: "float32", size: 4},
		&floatType{name: "float64", size: 8},
		stringType{},
	}
}

// Register adds a decode type under its own name, replacing any existing
// registration.
func (r *Registry) Register(t DecodeType) {
	r.types[t.Name()] = t
}

// Alias registers tag as a profile-defined name for an existing type, so
// declarations like field_type "sport" resolve to the enum base type.
func (r *Registry) Alias(tag, base string) error {
	t, ok := r.types[base]
	if !ok {
		return fmt.Errorf("alias %s: %w: %s", tag, ErrUnknownType, base)
	}
	r.types[tag] = &aliasType{name: tag, DecodeType: t}
	return nil
}

// Resolve returns the decode type for a profile type tag. An unknown tag
// is a schema authoring bug and fails hard.
func (r *Registry) Resolve(tag string) (DecodeType, error) {
	t, ok := r.types[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, tag)
	}
	return t, nil
}

// aliasType renames an underlying decode type.
type aliasType struct {
	name string
	DecodeType
}

func (t *aliasType) Name() string { return t.name }
