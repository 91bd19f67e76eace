package profile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlProfile is the YAML structure of a row interchange file.
type yamlProfile struct {
	Messages []yamlMessage `yaml:"messages"`
}

// yamlMessage groups the ordered rows of one message.
type yamlMessage struct {
	Name string           `yaml:"name"`
	Rows []map[string]any `yaml:"rows"`
}

// rowCells maps YAML keys to Row cell setters. Cell values may be written
// as YAML numbers or strings; both are normalized to the raw string form
// the table uses.
var rowCells = map[string]func(*Row, string){
	"field_no":   func(r *Row, v string) { r.FieldNo = v },
	"field_name": func(r *Row, v string) { r.FieldName = v },
	"field_type": func(r *Row, v string) { r.FieldType = v },
	"array":      func(r *Row, v string) { r.Array = v },
	"components": func(r *Row, v string) { r.Components = v },
	"scale":      func(r *Row, v string) { r.Scale = v },
	"offset":     func(r *Row, v string) { r.Offset = v },
	"units":      func(r *Row, v string) { r.Units = v },
	"bits":       func(r *Row, v string) { r.Bits = v },
	"accumulate": func(r *Row, v string) { r.Accumulate = v },
	"ref_name":   func(r *Row, v string) { r.RefName = v },
	"ref_value":  func(r *Row, v string) { r.RefValue = v },
	"comment":    func(r *Row, v string) { r.Comment = v },
	"products":   func(r *Row, v string) { r.Products = v },
	"example":    func(r *Row, v string) { r.Example = v },
}

// LoadRows reads profile rows from the YAML interchange format:
//
//	messages:
//	  - name: record
//	    rows:
//	      - {field_no: 3, field_name: heart_rate, field_type: uint8, units: bpm}
//	      - {field_no: 4, field_name: cadence, field_type: uint8, units: rpm}
//
// Row order within a message is preserved; it is significant for override
// lookahead. Unknown cell keys are rejected so typos in fixtures fail
// loudly instead of silently dropping a declaration.
func LoadRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p yamlProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	var rows []Row
	for _, msg := range p.Messages {
		if msg.Name == "" {
			return nil, fmt.Errorf("profile message without a name")
		}
		for i, cells := range msg.Rows {
			row := Row{MessageName: msg.Name}
			for key, value := range cells {
				set, ok := rowCells[key]
				if !ok {
					return nil, fmt.Errorf("message %s row %d: unknown cell %q", msg.Name, i, key)
				}
				set(&row, cellString(value))
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// cellString normalizes a YAML scalar to the raw string cell form.
func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
