// Package montecarlo evaluates candidate placements by random playouts.
//
// For every candidate move:
//
//	place it on a copy of the board
//	until the time slice runs out:
//		copy the board again
//		draw the remaining dominoes in random order, placing each at a
//		random feasible spot (or discarding it if none fits)
//		record the final score
//
// Candidates are evaluated in parallel and the one with the best average
// final score wins.
package montecarlo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/movegen"
	"github.com/castlebuilder/kingmaker/scoring"
	"github.com/castlebuilder/kingmaker/stats"
	"github.com/castlebuilder/kingmaker/tiles"
)

var ErrNoCandidates = errors.New("no candidate moves to evaluate")

const fullBoard = board.MaxWidth * board.MaxWidth

// LogEvaluation is a struct meant for serializing to a log stream, for
// debug and other purposes.
type LogEvaluation struct {
	Move     string  `json:"move" yaml:"move"`
	Playouts int     `json:"playouts" yaml:"playouts"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Stdev    float64 `json:"stdev" yaml:"stdev"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
}

// EvaluatedMove holds the playout results for one candidate.
type EvaluatedMove struct {
	move    move.Move
	stats   stats.Statistic
	samples []float64
	// how many playouts ended with each grid cell occupied
	occupancy [board.GridDim * board.GridDim]int
}

func (e *EvaluatedMove) Move() move.Move { return e.move }

// Mean is the average final score over all playouts.
func (e *EvaluatedMove) Mean() float64 { return e.stats.Mean() }

func (e *EvaluatedMove) Playouts() int { return e.stats.Iterations() }

func (e *EvaluatedMove) Stats() *stats.Statistic { return &e.stats }

// Samples returns the individual playout scores, if they were kept.
func (e *EvaluatedMove) Samples() []float64 { return e.samples }

// Occupancy is the number of kept playouts whose final kingdom covers c.
func (e *EvaluatedMove) Occupancy(c board.Coord) int {
	if !c.InGrid() {
		return 0
	}
	return e.occupancy[c.ID()]
}

// ConfidenceInterval returns the 95% confidence interval of the mean.
func (e *EvaluatedMove) ConfidenceInterval() (float64, float64) {
	return e.stats.ConfidenceInterval(stats.Z95)
}

func (e *EvaluatedMove) String() string {
	low, high := e.ConfidenceInterval()
	return fmt.Sprintf("<Evaluated move: %v mean %.3f [%.3f, %.3f] n=%d>",
		e.move.ShortDescription(), e.Mean(), low, high, e.Playouts())
}

func (e *EvaluatedMove) push(score int, final *board.Board, keep bool) {
	e.stats.Push(float64(score))
	if !keep {
		return
	}
	e.samples = append(e.samples, float64(score))
	for _, c := range final.OccupiedCoords() {
		e.occupancy[c.ID()]++
	}
}

func (e *EvaluatedMove) logEvaluation() LogEvaluation {
	return LogEvaluation{
		Move:     e.move.ShortDescription(),
		Playouts: e.Playouts(),
		Mean:     e.Mean(),
		Stdev:    e.stats.Stdev(),
		Min:      e.stats.Min(),
		Max:      e.stats.Max(),
	}
}

// Thinker owns a snapshot of a kingdom and the dominoes that may still
// come. Neither is modified by any method.
type Thinker struct {
	board     *board.Board
	remaining []tiles.Domino
	thinkTime time.Duration

	threads        int
	movegen        movegen.MoveGenerator
	logStream      io.Writer
	collectSamples bool

	playouts atomic.Uint64
}

func NewThinker(b *board.Board, remaining []tiles.Domino, thinkTime time.Duration) *Thinker {
	rem := make([]tiles.Domino, len(remaining))
	copy(rem, remaining)
	return &Thinker{
		board:     b.Copy(),
		remaining: rem,
		thinkTime: thinkTime,
		threads:   max(1, runtime.NumCPU()),
		movegen:   movegen.BruteForceGenerator{},
	}
}

func (t *Thinker) SetThreads(threads int) {
	t.threads = max(1, threads)
}

func (t *Thinker) Threads() int {
	return t.threads
}

func (t *Thinker) SetThinkTime(d time.Duration) {
	t.thinkTime = d
}

func (t *Thinker) ThinkTime() time.Duration {
	return t.thinkTime
}

// SetMoveGenerator sets the generator used inside playouts. It must be
// safe for concurrent use.
func (t *Thinker) SetMoveGenerator(gen movegen.MoveGenerator) {
	t.movegen = gen
}

// SetLogStream makes the thinker write one YAML document per evaluated
// candidate after every candidate set.
func (t *Thinker) SetLogStream(l io.Writer) {
	t.logStream = l
}

// SetCollectSamples keeps every playout score and final layout on the
// evaluated moves.
func (t *Thinker) SetCollectSamples(b bool) {
	t.collectSamples = b
}

// Playouts is the total number of playouts run by this thinker.
func (t *Thinker) Playouts() uint64 {
	return t.playouts.Load()
}

func (t *Thinker) Board() *board.Board {
	return t.board
}

func (t *Thinker) Remaining() []tiles.Domino {
	return t.remaining
}

// SinglePlayout plays every remaining domino onto b in random order, each
// at a uniformly random feasible spot, and returns the final score. b is
// modified.
func (t *Thinker) SinglePlayout(b *board.Board) int {
	return t.playout(b, t.remaining)
}

func (t *Thinker) playout(b *board.Board, pool []tiles.Domino) int {
	bag := make([]tiles.Domino, len(pool))
	copy(bag, pool)
	for len(bag) > 0 && b.NumCells() < fullBoard {
		idx := frand.Intn(len(bag))
		d := bag[idx]
		bag[idx] = bag[len(bag)-1]
		bag = bag[:len(bag)-1]

		moves := t.movegen.GenAll(b, d)
		if len(moves) == 0 {
			continue
		}
		b.TryPlace(moves[frand.Intn(len(moves))])
	}
	t.playouts.Add(1)
	return scoring.Score(b)
}

// EvaluateMove runs playouts after m for the full think time.
func (t *Thinker) EvaluateMove(ctx context.Context, m move.Move) (*EvaluatedMove, error) {
	return t.evaluate(ctx, m, t.thinkTime, 0)
}

// EvaluateMoveN runs exactly n playouts after m, ignoring the clock.
func (t *Thinker) EvaluateMoveN(ctx context.Context, m move.Move, n int) (*EvaluatedMove, error) {
	return t.evaluate(ctx, m, 0, max(1, n))
}

// evaluate runs at least one playout. With limit > 0 it stops after limit
// playouts, otherwise once budget has elapsed.
func (t *Thinker) evaluate(ctx context.Context, m move.Move, budget time.Duration, limit int) (*EvaluatedMove, error) {
	after := t.board.Copy()
	if !after.TryPlace(m) {
		return nil, fmt.Errorf("%w: %v", board.ErrIllegalMove, m.ShortDescription())
	}
	pool, _ := tiles.Remove(t.remaining, m.Domino())

	ev := &EvaluatedMove{move: m}
	deadline := time.Now().Add(budget)
	for {
		final := after.Copy()
		ev.push(t.playout(final, pool), final, t.collectSamples)
		if limit > 0 {
			if ev.Playouts() >= limit {
				break
			}
		} else if !time.Now().Before(deadline) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// EvaluateCandidateSet evaluates every move in parallel, splitting the think
// time evenly between them. The result is aligned with moves.
func (t *Thinker) EvaluateCandidateSet(ctx context.Context, moves []move.Move) ([]*EvaluatedMove, error) {
	if len(moves) == 0 {
		return nil, ErrNoCandidates
	}
	return t.evaluateAll(ctx, moves, t.thinkTime/time.Duration(len(moves)), 0)
}

// EvaluateCandidateSetN runs exactly n playouts for every move.
func (t *Thinker) EvaluateCandidateSetN(ctx context.Context, moves []move.Move, n int) ([]*EvaluatedMove, error) {
	if len(moves) == 0 {
		return nil, ErrNoCandidates
	}
	return t.evaluateAll(ctx, moves, 0, max(1, n))
}

func (t *Thinker) evaluateAll(ctx context.Context, moves []move.Move, budget time.Duration, limit int) ([]*EvaluatedMove, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("candidates", len(moves)).Dur("budget", budget).
		Int("limit", limit).Int("threads", t.threads).Msg("thinker-start")

	tstart := time.Now()
	startPlayouts := t.playouts.Load()

	results := make([]*EvaluatedMove, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.threads)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			ev, err := t.evaluate(gctx, m, budget, limit)
			if err != nil {
				return err
			}
			results[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if t.logStream != nil {
		if err := t.writeLog(results); err != nil {
			logger.Err(err).Msg("thinker-log-stream")
		}
	}
	best := BestMove(results)
	logger.Debug().Uint64("playouts", t.playouts.Load()-startPlayouts).
		Dur("elapsed", time.Since(tstart)).
		Str("best", best.Move().ShortDescription()).
		Float64("best-mean", best.Mean()).Msg("thinker-done")
	return results, nil
}

// writeLog emits the whole candidate set in a single Write so that
// thinkers sharing a stream do not interleave. Every document starts with
// its own separator so successive sets concatenate into a valid stream.
func (t *Thinker) writeLog(results []*EvaluatedMove) error {
	var buf bytes.Buffer
	for _, r := range results {
		out, err := yaml.Marshal(r.logEvaluation())
		if err != nil {
			return err
		}
		buf.WriteString("---\n")
		buf.Write(out)
	}
	_, err := t.logStream.Write(buf.Bytes())
	return err
}

// BestMove returns the evaluation with the highest mean. Ties go to the
// one that comes first. It returns nil for an empty slice.
func BestMove(evals []*EvaluatedMove) *EvaluatedMove {
	return lo.MaxBy(evals, func(a, b *EvaluatedMove) bool {
		return a.Mean() > b.Mean()
	})
}

// Scores maps every evaluated move to its mean final score.
func Scores(evals []*EvaluatedMove) map[move.Move]float64 {
	return lo.SliceToMap(evals, func(e *EvaluatedMove) (move.Move, float64) {
		return e.move, e.Mean()
	})
}

// Think evaluates every feasible placement of d and returns the best one.
func (t *Thinker) Think(ctx context.Context, d tiles.Domino) (*EvaluatedMove, []*EvaluatedMove, error) {
	moves := movegen.FeasibleMoves(t.board, d)
	evals, err := t.EvaluateCandidateSet(ctx, moves)
	if err != nil {
		return nil, nil, err
	}
	return BestMove(evals), evals, nil
}
