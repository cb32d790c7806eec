// Package board holds the grid a kingdom is built on: which cells are taken,
// how big the kingdom has grown, and which neighboring cells share a terrain.
package board

import (
	"fmt"
	"sort"

	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/tiles"
)

// Board is a sparse grid of placed sides plus the same-terrain adjacency
// graph over them. The castle is placed when the board is made and is never
// part of the graph.
//
// A Board only ever grows. There is no undo; copy the board instead.
type Board struct {
	cells  map[Coord]tiles.Side
	bounds Bounds
	// graph maps a coordinate ID to the IDs of its same-terrain neighbors.
	// Every placed (non-castle) cell is a key, even with no neighbors.
	graph map[int]map[int]struct{}
}

// placement is a move that passed the legality check, along with the
// external edges it will create.
type placement struct {
	cells  [2]Coord
	sides  [2]tiles.Side
	edges  [][2]int
	bounds Bounds
}

// NewBoard returns a board with only the castle on it.
func NewBoard() *Board {
	return &Board{
		cells:  map[Coord]tiles.Side{Castle: tiles.CastleSide},
		bounds: Bounds{IMin: CastleI, IMax: CastleI, JMin: CastleJ, JMax: CastleJ},
		graph:  make(map[int]map[int]struct{}),
	}
}

// Copy makes a deep copy of the board.
func (b *Board) Copy() *Board {
	c := &Board{
		cells:  make(map[Coord]tiles.Side, len(b.cells)),
		bounds: b.bounds,
		graph:  make(map[int]map[int]struct{}, len(b.graph)),
	}
	for k, v := range b.cells {
		c.cells[k] = v
	}
	for id, adj := range b.graph {
		nadj := make(map[int]struct{}, len(adj))
		for n := range adj {
			nadj[n] = struct{}{}
		}
		c.graph[id] = nadj
	}
	return c
}

// plan checks every legality rule and collects the edges the move would
// form, in a single pass over the neighbors of both new cells.
func (b *Board) plan(m move.Move) (placement, bool) {
	if !m.ValidOffset() {
		return placement{}, false
	}
	i2, j2 := m.Second()
	p := placement{
		cells: [2]Coord{{I: m.I(), J: m.J()}, {I: i2, J: j2}},
		sides: [2]tiles.Side{m.Anchor(), m.Tail()},
	}
	for _, c := range p.cells {
		// The castle is in cells, so this also keeps the castle uncovered.
		if _, taken := b.cells[c]; taken {
			return placement{}, false
		}
	}
	p.bounds = b.bounds.Extend(p.cells[0]).Extend(p.cells[1])
	if !p.bounds.Fits() {
		return placement{}, false
	}

	touchesCastle := false
	for k, c := range p.cells {
		for _, n := range c.Neighbors() {
			if n == p.cells[1-k] {
				continue
			}
			side, ok := b.cells[n]
			if !ok {
				continue
			}
			if n == Castle {
				touchesCastle = true
				continue
			}
			if side.Terrain() == p.sides[k].Terrain() {
				p.edges = append(p.edges, [2]int{c.ID(), n.ID()})
			}
		}
	}
	if !touchesCastle && len(p.edges) == 0 {
		return placement{}, false
	}
	return p, true
}

// CanPlace reports whether m is legal on this board. The board is not
// modified.
func (b *Board) CanPlace(m move.Move) bool {
	_, ok := b.plan(m)
	return ok
}

// TryPlace applies m if it is legal and reports whether it did. An illegal
// move leaves the board untouched.
func (b *Board) TryPlace(m move.Move) bool {
	p, ok := b.plan(m)
	if !ok {
		return false
	}
	b.apply(p)
	return true
}

// PlaceMove is TryPlace for callers that want an error.
func (b *Board) PlaceMove(m move.Move) error {
	if !b.TryPlace(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m.ShortDescription())
	}
	return nil
}

func (b *Board) apply(p placement) {
	for k, c := range p.cells {
		b.cells[c] = p.sides[k]
		b.addNode(c.ID())
	}
	for _, e := range p.edges {
		b.addEdge(e[0], e[1])
	}
	if p.sides[0].Terrain() == p.sides[1].Terrain() {
		b.addEdge(p.cells[0].ID(), p.cells[1].ID())
	}
	b.bounds = p.bounds
}

func (b *Board) addNode(id int) {
	if _, ok := b.graph[id]; !ok {
		b.graph[id] = make(map[int]struct{})
	}
}

func (b *Board) addEdge(x, y int) {
	b.addNode(x)
	b.addNode(y)
	b.graph[x][y] = struct{}{}
	b.graph[y][x] = struct{}{}
}

// At returns the side on c, if any. The castle cell returns CastleSide.
func (b *Board) At(c Coord) (tiles.Side, bool) {
	s, ok := b.cells[c]
	return s, ok
}

// Occupied is true if something (castle included) is on c.
func (b *Board) Occupied(c Coord) bool {
	_, ok := b.cells[c]
	return ok
}

// Cells returns a snapshot of every occupied cell, castle included.
func (b *Board) Cells() map[Coord]tiles.Side {
	out := make(map[Coord]tiles.Side, len(b.cells))
	for k, v := range b.cells {
		out[k] = v
	}
	return out
}

// OccupiedCoords returns every occupied coordinate in row-major order.
func (b *Board) OccupiedCoords() []Coord {
	out := make([]Coord, 0, len(b.cells))
	for c := range b.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(x, y int) bool {
		if out[x].I != out[y].I {
			return out[x].I < out[y].I
		}
		return out[x].J < out[y].J
	})
	return out
}

func (b *Board) Bounds() Bounds {
	return b.bounds
}

// NumCells counts occupied cells, castle included.
func (b *Board) NumCells() int {
	return len(b.cells)
}

// IsEmpty is true if only the castle has been placed.
func (b *Board) IsEmpty() bool {
	return len(b.cells) == 1
}

// Nodes returns the IDs of all graph nodes in ascending order.
func (b *Board) Nodes() []int {
	out := make([]int, 0, len(b.graph))
	for id := range b.graph {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// HasNode is true if id is a node of the adjacency graph.
func (b *Board) HasNode(id int) bool {
	_, ok := b.graph[id]
	return ok
}

// Neighbors returns the same-terrain neighbors of id in ascending order.
func (b *Board) Neighbors(id int) []int {
	adj := b.graph[id]
	out := make([]int, 0, len(adj))
	for n := range adj {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// NumEdges counts undirected edges.
func (b *Board) NumEdges() int {
	n := 0
	for _, adj := range b.graph {
		n += len(adj)
	}
	return n / 2
}

func (b *Board) String() string {
	s := fmt.Sprintf("<board %dx%d:", b.bounds.Height(), b.bounds.Width())
	for _, c := range b.OccupiedCoords() {
		s += fmt.Sprintf(" %v=%v;", c, b.cells[c])
	}
	return s + ">"
}
