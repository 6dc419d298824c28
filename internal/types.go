package internal

import "strings"

// Pair is one source/target segment pair extracted from a translation memory.
type Pair struct {
	Source string
	Target string
}

// Blank reports whether either side of the pair is empty after trimming.
func (p Pair) Blank() bool {
	return strings.TrimSpace(p.Source) == "" || strings.TrimSpace(p.Target) == ""
}
