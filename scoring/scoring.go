// Package scoring finds the same-terrain regions of a kingdom and scores
// them: each region is worth its crowns times its size.
package scoring

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/tiles"
)

const gridCells = board.GridDim * board.GridDim

// A Component is a maximal connected same-terrain region.
type Component struct {
	Terrain tiles.Terrain
	// Nodes are coordinate IDs, in the order the traversal reached them.
	Nodes  []int
	Crowns int
}

func (c Component) Size() int {
	return len(c.Nodes)
}

func (c Component) Score() int {
	return c.Crowns * len(c.Nodes)
}

func (c Component) String() string {
	return fmt.Sprintf("<%v x%d k=%d score=%d>", c.Terrain, len(c.Nodes), c.Crowns, c.Score())
}

// Components discovers every component, starting traversals from nodes in
// ascending ID order.
func Components(b *board.Board) []Component {
	return ComponentsInOrder(b, b.Nodes())
}

// ComponentsInOrder discovers components, starting a new traversal from
// each node of order that isn't already in a component. Nodes missing from
// order are still visited, after order is exhausted.
//
// An edge that points at an empty cell means the graph has diverged from the
// board. That is a bug, and this panics.
func ComponentsInOrder(b *board.Board, order []int) []Component {
	var visited [gridCells]bool
	var comps []Component
	stack := make([]int, 0, gridCells)

	starts := append(append([]int(nil), order...), b.Nodes()...)
	for _, start := range starts {
		if start < 0 || start >= gridCells || visited[start] || !b.HasNode(start) {
			continue
		}
		comp := Component{Terrain: mustSide(b, start).Terrain()}
		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp.Nodes = append(comp.Nodes, id)
			for _, n := range b.Neighbors(id) {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		comp.Crowns = lo.SumBy(comp.Nodes, func(id int) int {
			return mustSide(b, id).Crowns()
		})
		comps = append(comps, comp)
	}
	return comps
}

// Score is the sum of component scores. It does not depend on traversal
// order.
func Score(b *board.Board) int {
	return lo.SumBy(Components(b), func(c Component) int {
		return c.Score()
	})
}

func mustSide(b *board.Board, id int) tiles.Side {
	c := board.CoordFromID(id)
	s, ok := b.At(c)
	if !ok || c == board.Castle {
		panic(fmt.Sprintf("adjacency graph references unplaced cell %v", c))
	}
	return s
}
