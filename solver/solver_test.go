package solver

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/movegen"
	"github.com/castlebuilder/kingmaker/scoring"
	"github.com/castlebuilder/kingmaker/testhelpers"
	"github.com/castlebuilder/kingmaker/tiles"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// placements lists every legal move of d on b by trying every cell of the
// grid with both faces, independently of movegen.
func placements(b *board.Board, d tiles.Domino) []move.Move {
	var out []move.Move
	for i := 0; i < board.GridDim; i++ {
		for j := 0; j < board.GridDim; j++ {
			for _, o := range move.Offsets {
				for _, f := range []bool{false, true} {
					m := move.New(d, f, i, j, o[0], o[1])
					if b.CanPlace(m) {
						out = append(out, m)
					}
				}
			}
		}
	}
	return out
}

// manualBest enumerates both orders of a two-domino set by hand.
func manualBest(b *board.Board, ds []tiles.Domino) int {
	best := scoring.Score(b)
	orders := [][2]int{{0, 1}, {1, 0}}
	for _, o := range orders {
		first, second := ds[o[0]], ds[o[1]]
		for _, m1 := range placements(b, first) {
			b1 := b.Copy()
			b1.TryPlace(m1)
			next := placements(b1, second)
			if len(next) == 0 {
				best = max(best, scoring.Score(b1))
				continue
			}
			for _, m2 := range next {
				b2 := b1.Copy()
				b2.TryPlace(m2)
				best = max(best, scoring.Score(b2))
			}
		}
	}
	return best
}

func replay(t *testing.T, b *board.Board, line []move.Move) *board.Board {
	c := b.Copy()
	for _, m := range line {
		if !c.TryPlace(m) {
			t.Fatalf("line move %v is illegal", m)
		}
	}
	return c
}

func TestSolveTwoTilesMatchesManual(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	ds := testhelpers.SmallTileSet()

	s := &Solver{}
	s.Init(nil)
	sol, err := s.Solve(context.Background(), b, ds)
	is.NoErr(err)
	is.Equal(sol.Score, manualBest(b, ds))
	is.Equal(len(sol.Moves), 2)
	is.Equal(scoring.Score(replay(t, b, sol.Moves)), sol.Score)
	is.True(sol.Nodes > 0)
	// The root board is a snapshot; the search never touches it.
	is.True(b.IsEmpty())
}

func TestSolveFromExistingKingdom(t *testing.T) {
	is := is.New(t)
	b := testhelpers.BoardFromMoves(testhelpers.WaterRunMoves()...)
	fp := b.Fingerprint()
	ds := []tiles.Domino{
		tiles.NewDomino(testhelpers.Water0, testhelpers.Cave2, 46),
		tiles.NewDomino(testhelpers.Forest1, testhelpers.Wheat0, 24),
	}
	gen, err := movegen.NewCachedGenerator(movegen.BruteForceGenerator{}, 0)
	is.NoErr(err)
	s := &Solver{}
	s.Init(gen)
	sol, err := s.Solve(context.Background(), b, ds)
	is.NoErr(err)
	is.Equal(sol.Score, manualBest(b, ds))
	is.True(sol.Score >= 9)
	is.Equal(scoring.Score(replay(t, b, sol.Moves)), sol.Score)
	is.Equal(b.Fingerprint(), fp)
}

func TestIdenticalTilesAreInterchangeable(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	same := []tiles.Domino{
		tiles.NewDomino(testhelpers.Water1, testhelpers.Wheat0, 30),
		tiles.NewDomino(testhelpers.Wheat0, testhelpers.Water1, 31),
	}
	s := &Solver{}
	s.Init(nil)
	sol, err := s.Solve(context.Background(), b, same)
	is.NoErr(err)
	is.Equal(sol.Score, manualBest(b, same))
	// Two water cells side by side, one crown each.
	is.Equal(sol.Score, 4)
}

func TestSolveNoTiles(t *testing.T) {
	is := is.New(t)
	s := &Solver{}
	_, err := s.Solve(context.Background(), board.NewBoard(), nil)
	is.True(errors.Is(err, ErrNoTiles))
}

func TestSolveCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Solver{}
	_, err := s.Solve(ctx, board.NewBoard(), testhelpers.SmallTileSet())
	is.True(errors.Is(err, context.Canceled))
}

func TestTerminalWhenNothingFits(t *testing.T) {
	is := is.New(t)
	// Fill the kingdom with sheep until nothing else fits.
	b := board.NewBoard()
	sheep := tiles.NewDomino(testhelpers.Sheep0, testhelpers.Sheep1, 10)
	for {
		ms := movegen.FeasibleMoves(b, sheep)
		if len(ms) == 0 {
			break
		}
		b.TryPlace(ms[0])
	}
	s := &Solver{}
	sol, err := s.Solve(context.Background(), b, []tiles.Domino{sheep})
	is.NoErr(err)
	is.Equal(len(sol.Moves), 0)
	is.Equal(sol.Score, scoring.Score(b))
	is.Equal(sol.Nodes, uint64(1))
}

func TestPVLineFormats(t *testing.T) {
	is := is.New(t)
	pv := PVLine{Moves: testhelpers.WaterRunMoves()[:2], Score: 5}
	s := pv.String()
	is.Equal(strings.Count(s, "\n"), 3)
	is.True(strings.HasPrefix(s, "PV; score 5\n1: "))
	is.True(!strings.Contains(pv.NLBString(), "\n"))
	is.True(strings.Contains(pv.NLBString(), "2: "+pv.Moves[1].ShortDescription()))
}
