package profile

// Cursor walks an owned slice of rows during schema construction. The
// field factory advances it row by row; dynamic fields peek past their own
// row to collect the contiguous override rows that follow. Cursors exist
// only while a schema is built and are discarded afterwards.
type Cursor struct {
	rows []Row
	pos  int
}

// NewCursor creates a cursor over rows. The slice is not copied; callers
// must not mutate it while the cursor is in use.
func NewCursor(rows []Row) *Cursor {
	return &Cursor{rows: rows}
}

// Next returns the next row and advances, or reports exhaustion.
func (c *Cursor) Next() (Row, bool) {
	if c.pos >= len(c.rows) {
		return Row{}, false
	}
	row := c.rows[c.pos]
	c.pos++
	return row, true
}

// Peek returns the next row without advancing.
func (c *Cursor) Peek() (Row, bool) {
	if c.pos >= len(c.rows) {
		return Row{}, false
	}
	return c.rows[c.pos], true
}

// Remaining reports how many rows are left.
func (c *Cursor) Remaining() int {
	return len(c.rows) - c.pos
}
