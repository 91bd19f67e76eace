package profile

import "strings"

// SplitLockstep splits several comma-joined attribute cells of one row
// into per-component tuples in lockstep. The first cell is the driver: it
// determines the number of tuples. Shorter optional cells are padded with
// empty strings, longer ones are truncated. Items are trimmed of
// surrounding whitespace; an empty cell contributes a single empty item.
//
// For a composite row with components "a,b", bits "3,5" and units "m",
// SplitLockstep(components, bits, units) yields ["a","3","m"] and
// ["b","5",""].
func SplitLockstep(cells ...string) [][]string {
	if len(cells) == 0 {
		return nil
	}

	split := make([][]string, len(cells))
	for i, cell := range cells {
		split[i] = splitCell(cell)
	}

	tuples := make([][]string, len(split[0]))
	for i := range tuples {
		tuple := make([]string, len(cells))
		for j := range split {
			if i < len(split[j]) {
				tuple[j] = split[j][i]
			}
		}
		tuples[i] = tuple
	}
	return tuples
}

// splitCell splits one comma-joined cell into trimmed items.
func splitCell(cell string) []string {
	if cell == "" {
		return []string{""}
	}
	parts := strings.Split(cell, ",")
	items := make([]string, len(parts))
	for i, p := range parts {
		items[i] = strings.TrimSpace(p)
	}
	return items
}
