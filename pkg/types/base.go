package types

import (
	"bytes"
	"fmt"
	"math"
)

// uintType is an unsigned fixed-width family member (enum, byte and the
// uintN/uintNz tags). The invalid sentinel is all-ones for plain tags and
// zero for "z" tags.
type uintType struct {
	name    string
	size    int
	invalid uint64
}

func (t *uintType) Name() string { return t.name }
func (t *uintType) Size() int    { return t.size }

func (t *uintType) Decode(data []byte, count int, endian Endian) ([]Value, error) {
	if len(data) < count*t.size {
		return nil, fmt.Errorf("%s: %w: have %d bytes, need %d", t.name, ErrShortBuffer, len(data), count*t.size)
	}
	values := make([]Value, 0, count)
	valid := false
	for i := 0; i < count; i++ {
		v := readUint(data[i*t.size:], t.size, endian)
		if v != t.invalid {
			valid = true
		}
		values = append(values, v)
	}
	if !valid {
		return nil, nil
	}
	return values, nil
}

// sintType is a signed fixed-width family member. The invalid sentinel is
// the maximum positive value of the width.
type sintType struct {
	name string
	size int
}

func (t *sintType) Name() string { return t.name }
func (t *sintType) Size() int    { return t.size }

func (t *sintType) Decode(data []byte, count int, endian Endian) ([]Value, error) {
	if len(data) < count*t.size {
		return nil, fmt.Errorf("%s: %w: have %d bytes, need %d", t.name, ErrShortBuffer, len(data), count*t.size)
	}
	invalid := int64(1)<<(t.size*8-1) - 1
	values := make([]Value, 0, count)
	valid := false
	for i := 0; i < count; i++ {
		v := readSint(data[i*t.size:], t.size, endian)
		if v != invalid {
			valid = true
		}
		values = append(values, v)
	}
	if !valid {
		return nil, nil
	}
	return values, nil
}

// floatType covers float32 and float64. The invalid sentinel is the
// all-ones bit pattern.
type floatType struct {
	name string
	size int
}

func (t *floatType) Name() string { return t.name }
func (t *floatType) Size() int    { return t.size }

func (t *floatType) Decode(data []byte, count int, endian Endian) ([]Value, error) {
	if len(data) < count*t.size {
		return nil, fmt.Errorf("%s: %w: have %d bytes, need %d", t.name, ErrShortBuffer, len(data), count*t.size)
	}
	values := make([]Value, 0, count)
	valid := false
	for i := 0; i < count; i++ {
		bits := readUint(data[i*t.size:], t.size, endian)
		if t.size == 4 {
			if bits != 0xFFFFFFFF {
				valid = true
			}
			values = append(values, float64(math.Float32frombits(uint32(bits))))
		} else {
			if bits != 0xFFFFFFFFFFFFFFFF {
				valid = true
			}
			values = append(values, math.Float64frombits(bits))
		}
	}
	if !valid {
		return nil, nil
	}
	return values, nil
}

// stringType decodes a NUL-terminated text buffer to a single value. The
// declared count is the buffer length in bytes, not a value count.
type stringType struct{}

func (stringType) Name() string { return "string" }
func (stringType) Size() int    { return 1 }

func (stringType) Decode(data []byte, count int, endian Endian) ([]Value, error) {
	if count > len(data) {
		return nil, fmt.Errorf("string: %w: have %d bytes, need %d", ErrShortBuffer, len(data), count)
	}
	s := data[:count]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) == 0 {
		return nil, nil
	}
	return []Value{string(s)}, nil
}

// readUint reads one unsigned value of the given width.
func readUint(data []byte, size int, endian Endian) uint64 {
	switch size {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(endian.ByteOrder().Uint16(data))
	case 4:
		return uint64(endian.ByteOrder().Uint32(data))
	default:
		return endian.ByteOrder().Uint64(data)
	}
}

// readSint reads one two's-complement signed value of the given width.
func readSint(data []byte, size int, endian Endian) int64 {
	switch size {
	case 1:
		return int64(int8(data[0]))
	case 2:
		return int64(int16(endian.ByteOrder().Uint16(data)))
	case 4:
		return int64(int32(endian.ByteOrder().Uint32(data)))
	default:
		return int64(endian.ByteOrder().Uint64(data))
	}
}
