// Package movegen enumerates the legal placements of a domino on a board
// by trying both faces on every anchor cell in every direction and asking
// the board whether each one fits.
package movegen

import (
	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/tiles"
)

// MoveGenerator produces every legal move of a domino on a board. The
// returned slice is owned by the caller.
type MoveGenerator interface {
	GenAll(b *board.Board, d tiles.Domino) []move.Move
}

// BruteForceGenerator tries both faces of the domino on every anchor in
// every direction.
type BruteForceGenerator struct{}

// placementKey identifies a physical placement regardless of which end was
// used as the anchor.
type placementKey struct {
	i, j, di, dj int
	anchor, tail tiles.Side
}

func keyOf(m move.Move) placementKey {
	c := m.Canonical()
	return placementKey{c.I(), c.J(), c.DI(), c.DJ(), c.Anchor(), c.Tail()}
}

func (BruteForceGenerator) GenAll(b *board.Board, d tiles.Domino) []move.Move {
	return FeasibleMoves(b, d)
}

// FeasibleMoves returns the legal moves of d on b, one per physical
// placement, in a fixed order: by anchor (row-major), then direction, then
// side A before side B on the anchor.
func FeasibleMoves(b *board.Board, d tiles.Domino) []move.Move {
	var out []move.Move
	seen := make(map[placementKey]struct{})
	for _, a := range Anchors(b) {
		for _, o := range move.Offsets {
			for _, flipped := range [2]bool{false, true} {
				m := move.New(d, flipped, a.I, a.J, o[0], o[1])
				if !b.CanPlace(m) {
					continue
				}
				k := keyOf(m)
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				out = append(out, m)
			}
		}
	}
	return out
}

// HasFeasibleMove is true if d fits anywhere on b.
func HasFeasibleMove(b *board.Board, d tiles.Domino) bool {
	for _, a := range Anchors(b) {
		for _, o := range move.Offsets {
			if b.CanPlace(move.New(d, false, a.I, a.J, o[0], o[1])) ||
				b.CanPlace(move.New(d, true, a.I, a.J, o[0], o[1])) {
				return true
			}
		}
	}
	return false
}

// AllFeasibleMoves is the union of the feasible moves of every domino, in
// domino order.
func AllFeasibleMoves(gen MoveGenerator, b *board.Board, ds []tiles.Domino) []move.Move {
	var out []move.Move
	for _, d := range ds {
		out = append(out, gen.GenAll(b, d)...)
	}
	return out
}
