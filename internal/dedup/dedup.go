// Package dedup removes blank and repeated translation pairs.
package dedup

import "github.com/valpere/tmtune/internal"

// Pairs returns the pairs with blanks dropped and exact (Source, Target)
// repeats removed. The first occurrence of each pair is kept and the input
// order is preserved. The input slice is not modified.
func Pairs(pairs []internal.Pair) []internal.Pair {
	seen := make(map[internal.Pair]struct{}, len(pairs))
	out := make([]internal.Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Blank() {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
