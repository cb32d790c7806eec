package movegen

import (
	"sort"

	"github.com/castlebuilder/kingmaker/board"
)

// Anchors are the empty cells orthogonally next to something already on the
// board. Every legal placement has at least one face on an anchor. They are
// returned in row-major order.
func Anchors(b *board.Board) []board.Coord {
	var seen [board.GridDim + 2][board.GridDim + 2]bool
	var out []board.Coord
	for _, c := range b.OccupiedCoords() {
		for _, n := range c.Neighbors() {
			// Off-grid neighbors are kept; legality rejects them later.
			si, sj := n.I+1, n.J+1
			if b.Occupied(n) || seen[si][sj] {
				continue
			}
			seen[si][sj] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(x, y int) bool {
		if out[x].I != out[y].I {
			return out[x].I < out[y].I
		}
		return out[x].J < out[y].J
	})
	return out
}
