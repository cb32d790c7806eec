package board

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/tiles"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

var (
	wheat0  = tiles.MustNewSide(0, tiles.Wheat)
	water0  = tiles.MustNewSide(0, tiles.Water)
	water1  = tiles.MustNewSide(1, tiles.Water)
	forest0 = tiles.MustNewSide(0, tiles.Forest)
	cave2   = tiles.MustNewSide(2, tiles.Cave)
)

func TestNewBoard(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.True(b.IsEmpty())
	is.Equal(b.NumCells(), 1)
	s, ok := b.At(Castle)
	is.True(ok)
	is.Equal(s, tiles.CastleSide)
	is.Equal(b.Bounds(), Bounds{IMin: 4, IMax: 4, JMin: 4, JMax: 4})
	is.Equal(len(b.Nodes()), 0)
	is.NoErr(b.CheckInvariants())
}

func TestCastleAdjacentAlwaysLegal(t *testing.T) {
	is := is.New(t)
	for _, t1 := range tiles.ScoringTerrains() {
		for _, t2 := range tiles.ScoringTerrains() {
			d := tiles.NewDomino(tiles.MustNewSide(0, t1), tiles.MustNewSide(1, t2), 1)
			for _, anchor := range Castle.Neighbors() {
				for _, o := range move.Offsets {
					m := move.New(d, false, anchor.I, anchor.J, o[0], o[1])
					i2, j2 := m.Second()
					if (Coord{I: i2, J: j2}) == Castle {
						continue
					}
					b := NewBoard()
					is.True(b.TryPlace(m))
					is.NoErr(b.CheckInvariants())
				}
			}
		}
	}
}

func TestIllegalMovesLeaveBoardUntouched(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	d := tiles.NewDomino(wheat0, water1, 14)
	is.True(b.TryPlace(move.New(d, false, 4, 3, 0, -1)))
	before := b.Fingerprint()
	edges := b.NumEdges()

	cases := []move.Move{
		// covers the castle
		move.New(d, false, 4, 4, 1, 0),
		move.New(d, false, 5, 4, -1, 0),
		// overlaps an existing domino
		move.New(d, false, 4, 2, -1, 0),
		// diagonal and zero offsets
		move.New(d, false, 5, 5, 1, 1),
		move.New(d, false, 5, 5, 0, 0),
		move.New(d, false, 3, 5, 0, 2),
		// floating, not next to castle or matching terrain
		move.New(d, false, 1, 1, 0, 1),
		// next to the wheat with a water face, and the water with a wheat face
		move.New(d, true, 3, 3, -1, 0),
	}
	for _, m := range cases {
		is.True(!b.CanPlace(m))
		is.True(!b.TryPlace(m))
		err := b.PlaceMove(m)
		is.True(errors.Is(err, ErrIllegalMove))
	}
	is.Equal(b.Fingerprint(), before)
	is.Equal(b.NumEdges(), edges)
	is.Equal(b.NumCells(), 3)
}

func TestMatchingTerrainExtends(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	d := tiles.NewDomino(wheat0, water1, 14)
	is.True(b.TryPlace(move.New(d, false, 4, 3, 0, -1)))
	// (4,2) is water. (3,2) water is next to it but not the castle.
	d2 := tiles.NewDomino(water1, forest0, 17)
	is.True(b.TryPlace(move.New(d2, false, 3, 2, -1, 0)))

	water := Coord{I: 4, J: 2}.ID()
	upper := Coord{I: 3, J: 2}.ID()
	is.Equal(b.Neighbors(water), []int{upper})
	is.Equal(b.Neighbors(upper), []int{water})
	// forest and wheat are alone, but still nodes.
	is.True(b.HasNode(Coord{I: 2, J: 2}.ID()))
	is.Equal(len(b.Neighbors(Coord{I: 2, J: 2}.ID())), 0)
	is.Equal(len(b.Neighbors(Coord{I: 4, J: 3}.ID())), 0)
	is.Equal(len(b.Nodes()), 4)
	is.NoErr(b.CheckInvariants())
}

func TestInternalEdge(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	d := tiles.NewDomino(water0, water1, 8)
	is.True(b.TryPlace(move.New(d, false, 5, 4, 1, 0)))
	is.Equal(b.Neighbors(Coord{I: 5, J: 4}.ID()), []int{Coord{I: 6, J: 4}.ID()})
	is.Equal(b.NumEdges(), 1)

	mixed := tiles.NewDomino(wheat0, cave2, 40)
	is.True(b.TryPlace(move.New(mixed, false, 3, 4, -1, 0)))
	is.Equal(b.NumEdges(), 1)
	is.Equal(len(b.Nodes()), 4)
	is.NoErr(b.CheckInvariants())
}

func TestCastleNeverInGraph(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	d := tiles.NewDomino(wheat0, wheat0, 1)
	is.True(b.TryPlace(move.New(d, false, 4, 5, 0, 1)))
	is.True(!b.HasNode(Castle.ID()))
	for _, id := range b.Nodes() {
		for _, n := range b.Neighbors(id) {
			is.True(n != Castle.ID())
		}
	}
}

func TestWidthLimit(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	d := tiles.NewDomino(forest0, forest0, 3)
	// castle at column 4; columns 5..8 fill out the row.
	is.True(b.TryPlace(move.New(d, false, 4, 5, 0, 1)))
	is.True(b.TryPlace(move.New(d, false, 4, 7, 0, 1)))
	is.Equal(b.Bounds(), Bounds{IMin: 4, IMax: 4, JMin: 4, JMax: 8})
	// Going further right would make the row six wide.
	is.True(!b.CanPlace(move.New(d, false, 3, 8, 0, 1)))
	// Left of the castle is also out of bounds now.
	is.True(!b.CanPlace(move.New(d, false, 4, 3, 0, -1)))
	is.True(!b.CanPlace(move.New(d, false, 4, 3, 1, 0)))
	// Going up is fine.
	is.True(b.CanPlace(move.New(d, false, 3, 8, -1, 0)))
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	d := tiles.NewDomino(water0, water1, 8)
	is.True(b.TryPlace(move.New(d, false, 5, 4, 1, 0)))
	c := b.Copy()
	is.Equal(c.Fingerprint(), b.Fingerprint())

	is.True(c.TryPlace(move.New(d, false, 5, 5, 1, 0)))
	is.Equal(b.NumCells(), 3)
	is.Equal(c.NumCells(), 5)
	is.Equal(b.NumEdges(), 1)
	is.True(c.NumEdges() > 1)
	is.True(c.Fingerprint() != b.Fingerprint())
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	is := is.New(t)
	d1 := tiles.NewDomino(water0, water1, 8)
	d2 := tiles.NewDomino(wheat0, cave2, 40)
	m1 := move.New(d1, false, 5, 4, 1, 0)
	m2 := move.New(d2, false, 3, 4, -1, 0)

	a := NewBoard()
	is.True(a.TryPlace(m1))
	is.True(a.TryPlace(m2))
	b := NewBoard()
	is.True(b.TryPlace(m2))
	is.True(b.TryPlace(m1))
	is.Equal(a.Fingerprint(), b.Fingerprint())
}

// candidates brute-forces every move of d around the board.
func candidates(b *Board, d tiles.Domino) []move.Move {
	var out []move.Move
	for i := -1; i <= GridDim; i++ {
		for j := -1; j <= GridDim; j++ {
			for _, o := range move.Offsets {
				m := move.New(d, false, i, j, o[0], o[1])
				if b.CanPlace(m) {
					out = append(out, m)
				}
			}
		}
	}
	return out
}

// checkCastleAdjacentLegal asserts that every placement touching the castle
// that lands on free cells and keeps the kingdom in bounds is accepted,
// whatever its terrain.
func checkCastleAdjacentLegal(t *testing.T, b *Board) {
	t.Helper()
	for _, d := range []tiles.Domino{
		tiles.NewDomino(cave2, forest0, 46),
		tiles.NewDomino(water1, wheat0, 19),
	} {
		for _, anchor := range Castle.Neighbors() {
			if b.Occupied(anchor) {
				continue
			}
			for _, o := range move.Offsets {
				for _, flipped := range []bool{false, true} {
					m := move.New(d, flipped, anchor.I, anchor.J, o[0], o[1])
					i2, j2 := m.Second()
					second := Coord{I: i2, J: j2}
					if !second.InGrid() || b.Occupied(second) {
						continue
					}
					if !b.Bounds().Extend(anchor).Extend(second).Fits() {
						continue
					}
					if !b.CanPlace(m) {
						t.Fatalf("castle-adjacent move %v rejected on\n%v", m, b)
					}
				}
			}
		}
	}
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	is := is.New(t)
	dist := tiles.StandardDistribution()
	for game := 0; game < 25; game++ {
		b := NewBoard()
		for _, idx := range frand.Perm(len(dist.Dominoes)) {
			ms := candidates(b, dist.Dominoes[idx])
			if len(ms) == 0 {
				continue
			}
			before := b.NumCells()
			is.True(b.TryPlace(ms[frand.Intn(len(ms))]))
			is.Equal(b.NumCells(), before+2)
			bd := b.Bounds()
			is.True(bd.IMax-bd.IMin < MaxWidth)
			is.True(bd.JMax-bd.JMin < MaxWidth)
			is.NoErr(b.CheckInvariants())
			checkCastleAdjacentLegal(t, b)
		}
		is.True(b.NumCells() <= MaxWidth*MaxWidth)
	}
}
