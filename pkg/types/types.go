// Package types resolves profile type tags to decodable base types.
//
// Every field declaration names a type tag; the registry maps the tag to a
// DecodeType that turns raw bytes into primitive values. The base types
// mirror the telemetry protocol's fixed-width families (unsigned, signed,
// float, string, enum), each with an invalid sentinel: a buffer holding
// only sentinels decodes to no values at all, which callers treat as a
// legitimate empty result rather than an error.
package types

import (
	"encoding/binary"
	"errors"
)

// Decode errors.
var (
	ErrUnknownType = errors.New("unknown type tag")
	ErrShortBuffer = errors.New("buffer too short for declared count")
)

// Value is a decoded primitive: uint64 for unsigned families, int64 for
// signed, float64 for floats, string for text.
type Value = any

// Endian selects the byte order of multi-byte values.
type Endian uint8

const (
	// Little is least-significant byte first.
	Little Endian = 0
	// Big is most-significant byte first.
	Big Endian = 1
)

// ByteOrder returns the encoding/binary order for the endianness.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// String returns the endianness name.
func (e Endian) String() string {
	switch e {
	case Little:
		return "LITTLE"
	case Big:
		return "BIG"
	default:
		return "UNKNOWN"
	}
}

// DecodeType decodes raw bytes into primitive values.
type DecodeType interface {
	// Name returns the type tag.
	Name() string

	// Size returns the width in bytes of one value.
	Size() int

	// Decode reads count values from data in the given byte order.
	// A nil, error-free result means the buffer held only invalid
	// sentinels. A buffer shorter than count*Size is an error.
	Decode(data []byte, count int, endian Endian) ([]Value, error)
}
