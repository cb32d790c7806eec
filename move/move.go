// Package move describes a single domino placement. A Move is a plain value:
// nothing happens to a board until the move is handed to it.
package move

import (
	"fmt"

	"github.com/castlebuilder/kingmaker/tiles"
)

// Move puts one face of a domino on (i, j) and the other on (i+di, j+dj).
// If flipped is false, side A of the domino is the anchor face.
//
// Moves are comparable and can be used as map keys.
type Move struct {
	domino  tiles.Domino
	flipped bool
	i, j    int
	di, dj  int
}

// New creates a move. It does not check that (di, dj) is a unit step; see
// ValidOffset.
func New(d tiles.Domino, flipped bool, i, j, di, dj int) Move {
	return Move{domino: d, flipped: flipped, i: i, j: j, di: di, dj: dj}
}

// Offsets are the four unit compass steps, in the order move generation
// tries them.
var Offsets = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

func (m Move) Domino() tiles.Domino { return m.domino }
func (m Move) Flipped() bool        { return m.flipped }

// Anchor is the side that lands on (I, J).
func (m Move) Anchor() tiles.Side {
	if m.flipped {
		return m.domino.SideB()
	}
	return m.domino.SideA()
}

// Tail is the side that lands on Second().
func (m Move) Tail() tiles.Side {
	if m.flipped {
		return m.domino.SideA()
	}
	return m.domino.SideB()
}

func (m Move) I() int  { return m.i }
func (m Move) J() int  { return m.j }
func (m Move) DI() int { return m.di }
func (m Move) DJ() int { return m.dj }

// Second returns the coordinate of the tail face.
func (m Move) Second() (int, int) {
	return m.i + m.di, m.j + m.dj
}

// ValidOffset is true if (DI, DJ) is exactly one step north, south, east
// or west.
func (m Move) ValidOffset() bool {
	switch {
	case m.di == 0 && (m.dj == 1 || m.dj == -1):
		return true
	case m.dj == 0 && (m.di == 1 || m.di == -1):
		return true
	}
	return false
}

// Canonical returns the same physical placement with the anchor on whichever
// cell comes first in row-major order.
func (m Move) Canonical() Move {
	if m.di < 0 || m.dj < 0 {
		i2, j2 := m.Second()
		return Move{domino: m.domino, flipped: !m.flipped, i: i2, j: j2, di: -m.di, dj: -m.dj}
	}
	return m
}

// Equals compares physical placements: same cells, same faces on them, and
// dominoes with matching sides. Catalog numbers are ignored.
func (m Move) Equals(o Move) bool {
	a, b := m.Canonical(), o.Canonical()
	return a.i == b.i && a.j == b.j && a.di == b.di && a.dj == b.dj &&
		a.Anchor() == b.Anchor() && a.Tail() == b.Tail()
}

// ShortDescription is a compact form, useful for logging.
func (m Move) ShortDescription() string {
	i2, j2 := m.Second()
	return fmt.Sprintf("#%d %s@(%d,%d) %s@(%d,%d)", m.domino.Number(),
		sideAbbrev(m.Anchor()), m.i, m.j, sideAbbrev(m.Tail()), i2, j2)
}

func (m Move) String() string {
	return fmt.Sprintf("<move domino: %v flipped: %v at: (%d,%d) step: (%d,%d)>",
		m.domino, m.flipped, m.i, m.j, m.di, m.dj)
}

func sideAbbrev(s tiles.Side) string {
	return fmt.Sprintf("%s%d", s.Terrain().Abbrev(), s.Crowns())
}
