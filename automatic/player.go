package automatic

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"lukechampine.com/frand"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/config"
	"github.com/castlebuilder/kingmaker/montecarlo"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/scoring"
	"github.com/castlebuilder/kingmaker/tiles"
)

// Turn is what a player sees when asked for a move. Candidates is never
// empty. Board is the live game board and must not be modified.
type Turn struct {
	Board      *board.Board
	Remaining  []tiles.Domino
	Candidates []move.Move

	rng *frand.RNG
}

// Intn draws from the game's own generator.
func (t Turn) Intn(n int) int {
	if t.rng == nil {
		return frand.Intn(n)
	}
	return t.rng.Intn(n)
}

// Player picks one of the candidate moves. Implementations must be safe to
// share between concurrently running games.
type Player interface {
	Name() string
	ChooseMove(ctx context.Context, t Turn) (move.Move, error)
}

// RandomPlayer picks uniformly among the candidates.
type RandomPlayer struct{}

func (RandomPlayer) Name() string { return config.PlayerRandom }

func (RandomPlayer) ChooseMove(ctx context.Context, t Turn) (move.Move, error) {
	return t.Candidates[t.Intn(len(t.Candidates))], nil
}

// GreedyPlayer takes the candidate with the best immediate score, the
// first one on ties.
type GreedyPlayer struct{}

func (GreedyPlayer) Name() string { return config.PlayerGreedy }

func (GreedyPlayer) ChooseMove(ctx context.Context, t Turn) (move.Move, error) {
	best, bestScore := t.Candidates[0], -1
	for _, m := range t.Candidates {
		b := t.Board.Copy()
		if !b.TryPlace(m) {
			return move.Move{}, fmt.Errorf("%w: %v", board.ErrIllegalMove, m.ShortDescription())
		}
		if s := scoring.Score(b); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best, nil
}

// MonteCarloPlayer runs a Thinker over the candidates every turn.
type MonteCarloPlayer struct {
	ThinkTime time.Duration
	Threads   int
	// LogStream, if set, receives the thinker's evaluations.
	LogStream io.Writer
}

func (p *MonteCarloPlayer) Name() string { return config.PlayerMonteCarlo }

func (p *MonteCarloPlayer) ChooseMove(ctx context.Context, t Turn) (move.Move, error) {
	th := montecarlo.NewThinker(t.Board, t.Remaining, p.ThinkTime)
	if p.Threads > 0 {
		th.SetThreads(p.Threads)
	}
	if p.LogStream != nil {
		th.SetLogStream(p.LogStream)
	}
	evals, err := th.EvaluateCandidateSet(ctx, t.Candidates)
	if err != nil {
		return move.Move{}, err
	}
	return montecarlo.BestMove(evals).Move(), nil
}

// lockedWriter serializes writes from games running in parallel.
type lockedWriter struct {
	sync.Mutex
	w io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.w.Write(p)
}

// NewPlayer builds the player named by the autoplay-player key.
func NewPlayer(cfg *config.Config, logStream io.Writer) (Player, error) {
	switch name := cfg.GetString(config.ConfigAutoplayPlayer); name {
	case config.PlayerRandom:
		return RandomPlayer{}, nil
	case config.PlayerGreedy:
		return GreedyPlayer{}, nil
	case config.PlayerMonteCarlo:
		p := &MonteCarloPlayer{
			ThinkTime: cfg.ThinkTime(),
			Threads:   cfg.GetInt(config.ConfigThreads),
		}
		if logStream != nil {
			p.LogStream = &lockedWriter{w: logStream}
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown player %q", config.ErrInvalidConfig, name)
	}
}
