package fields

import (
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// NewMessageField constructs the field variant a row declares. A row with
// components is a composite; otherwise a peek at the next row decides
// between dynamic (override rows follow, consumed by the dynamic scan) and
// plain. Composite is checked first: composite declarations never carry
// override rows of the relevant shape.
func NewMessageField(row profile.Row, cursor *profile.Cursor, registry *types.Registry) (Field, error) {
	if row.HasComponents() {
		return NewCompositeField(row)
	}
	if next, ok := cursor.Peek(); ok && next.IsOverride() {
		return NewDynamicField(row, cursor, registry)
	}
	return NewRowField(row, registry)
}
