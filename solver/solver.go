// Package solver exhaustively searches every order and placement of a set of
// dominoes for the best finished kingdom. There is no pruning: the search is
// exponential in the number of dominoes and is meant as a baseline for small
// sets, not as a playing strategy.
package solver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/movegen"
	"github.com/castlebuilder/kingmaker/scoring"
	"github.com/castlebuilder/kingmaker/tiles"
)

// Past this many dominoes a solve takes a very long time.
const LargeTileSet = 4

// how often (in nodes) to look at the context.
const ctxCheckInterval = 1024

var ErrNoTiles = errors.New("no dominoes to solve for")

// Solution is the result of a solve.
type Solution struct {
	PVLine
	Nodes   uint64
	Elapsed time.Duration
}

// Solver is not safe for concurrent use; make one per goroutine.
type Solver struct {
	movegen movegen.MoveGenerator
	nodes   uint64
}

// Init sets the move generator. A nil generator means brute force with no
// cache.
func (s *Solver) Init(gen movegen.MoveGenerator) {
	if gen == nil {
		gen = movegen.BruteForceGenerator{}
	}
	s.movegen = gen
}

// Solve finds the highest score reachable from b by placing dominoes from
// ds, in any order, until none of the rest fit. b is not modified.
func (s *Solver) Solve(ctx context.Context, b *board.Board, ds []tiles.Domino) (Solution, error) {
	logger := zerolog.Ctx(ctx)
	if len(ds) == 0 {
		return Solution{}, ErrNoTiles
	}
	if s.movegen == nil {
		s.Init(nil)
	}
	if len(ds) > LargeTileSet {
		logger.Warn().Int("tiles", len(ds)).Msg("exhaustive-solve-on-large-set")
	}
	s.nodes = 0
	start := time.Now()

	best := PVLine{Score: -1}
	visiting := make(map[int]bool, len(ds))
	best, err := s.search(ctx, b.Copy(), ds, visiting, nil, best)
	sol := Solution{PVLine: best, Nodes: s.nodes, Elapsed: time.Since(start)}
	if err != nil {
		return sol, err
	}
	logger.Info().Int("score", sol.Score).Uint64("nodes", sol.Nodes).
		Dur("elapsed", sol.Elapsed).Str("pv", sol.NLBString()).Msg("solver-done")
	return sol, nil
}

// search explores every move of every domino not already on the current
// path. visiting holds the indexes of ds on the path; entries are added
// before recursing and removed after. The best line so far goes in and the
// (possibly improved) best line comes out.
func (s *Solver) search(ctx context.Context, b *board.Board, ds []tiles.Domino,
	visiting map[int]bool, line []move.Move, best PVLine) (PVLine, error) {

	if s.nodes%ctxCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return best, err
		}
	}
	s.nodes++

	expanded := false
	// Dominoes with the same sides lead to the same subtrees.
	tried := make(map[tiles.Key]bool)
	for idx, d := range ds {
		if visiting[idx] || tried[d.Key()] {
			continue
		}
		tried[d.Key()] = true
		moves := s.movegen.GenAll(b, d)
		if len(moves) == 0 {
			continue
		}
		expanded = true
		visiting[idx] = true
		for _, m := range moves {
			child := b.Copy()
			if !child.TryPlace(m) {
				panic("generated move is illegal: " + m.ShortDescription())
			}
			var err error
			best, err = s.search(ctx, child, ds, visiting, append(line, m), best)
			if err != nil {
				delete(visiting, idx)
				return best, err
			}
		}
		delete(visiting, idx)
	}
	if expanded {
		return best, nil
	}

	score := scoring.Score(b)
	if score > best.Score {
		best.record(line, score)
		zerolog.Ctx(ctx).Debug().Int("score", score).Int("depth", len(line)).
			Uint64("nodes", s.nodes).Msg("solver-new-best")
	}
	return best, nil
}

// Nodes returns the number of positions visited by the last solve.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}
