// Package profile models the external profile table that declares the
// binary field layout of telemetry messages.
//
// A profile table is an ordered sequence of rows per message. Rows with a
// field number declare fields; rows with a field name but no field number
// are override rows, supplying a dynamic-resolution alternative for the
// field declared immediately before them. Loading the vendor source
// representation of the table is out of scope; rows arrive either from a
// caller-built slice or from the YAML interchange format (see LoadRows).
package profile

import (
	"strconv"
	"strings"
)

// Row is one profile table entry. Cells are kept as raw strings exactly as
// they appear in the table; an absent cell is the empty string. Rows are
// immutable once built.
type Row struct {
	// MessageName is the message this row belongs to.
	MessageName string

	// FieldNo is the declared field number, or empty for override rows.
	FieldNo string

	// FieldName is the field (or override target) name.
	FieldName string

	// FieldType is the profile type tag resolved against the type registry.
	FieldType string

	// Array marks array-valued fields ("" for scalar).
	Array string

	// Components is the comma list of sub-field names for bit-packed
	// composite fields, empty otherwise.
	Components string

	// Scale is a number, a comma list of numbers (composites), or empty.
	Scale string

	// Offset is a number, a comma list of numbers (composites), or empty.
	Offset string

	// Units is a unit string or comma list of unit strings.
	Units string

	// Bits is the comma list of component bit widths for composites.
	Bits string

	// Accumulate flags monotonic-counter accumulation ("1" per component).
	Accumulate string

	// RefName lists the reference field names of an override row.
	RefName string

	// RefValue lists the reference values of an override row, in lockstep
	// with RefName.
	RefValue string

	// Comment is free text carried from the table.
	Comment string

	// Products lists the applicable products.
	Products string

	// Example is the example value column.
	Example string
}

// IsBlank reports whether the row carries no declaration at all.
// Blank rows terminate an override lookahead.
func (r Row) IsBlank() bool {
	return r.FieldNo == "" && r.FieldName == ""
}

// IsOverride reports whether the row is an override row: a field name
// without a field number, supplying a dynamic alternative for the
// immediately preceding field.
func (r Row) IsOverride() bool {
	return r.FieldNo == "" && r.FieldName != ""
}

// HasComponents reports whether the row declares a bit-packed composite.
func (r Row) HasComponents() bool {
	return r.Components != ""
}

// Number returns the field number, if the cell holds a single integer.
func (r Row) Number() (int, bool) {
	return SingleInt(r.FieldNo)
}

// SingleInt parses a cell holding a single integer. Cells holding comma
// lists, non-numeric text, or nothing report absent; the table's loose
// cell typing makes that an expected outcome, not an error.
func SingleInt(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SingleFloat parses a cell holding a single number. Like SingleInt,
// anything that is not a single scalar reports absent.
func SingleFloat(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
