// Package automatic plays whole solitaire kingdoms without a human: the
// player draws the full library for the configured player count and keeps
// placing dominoes, chosen from every tile still in hand, until none fits.
package automatic

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/config"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/movegen"
	"github.com/castlebuilder/kingmaker/scoring"
	"github.com/castlebuilder/kingmaker/tiles"
)

// GameResult is the outcome of one game.
type GameResult struct {
	ID      uuid.UUID
	Seed    [32]byte
	Player  string
	Score   int
	Moves   []move.Move
	Prefill int
	// Unplaced counts library dominoes that never found a spot.
	Unplaced int
	Board    *board.Board
	Elapsed  time.Duration
}

// SeedString is the seed in the same encoding SaveSeeds uses.
func (r *GameResult) SeedString() string {
	return base64.RawURLEncoding.EncodeToString(r.Seed[:])
}

// GameRunner holds everything needed to play games. It keeps no per-game
// state, so one runner can play many games at once.
type GameRunner struct {
	dist    *tiles.Distribution
	players int
	prefill int
	player  Player
	movegen movegen.MoveGenerator
	logchan chan string
}

// NewGameRunner sets up a runner from the config. Turn lines are sent to
// logchan if it is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config, player Player) *GameRunner {
	return &GameRunner{
		dist:    tiles.StandardDistribution(),
		players: cfg.GetInt(config.ConfigPlayers),
		prefill: cfg.GetInt(config.ConfigPrefillMoves),
		player:  player,
		movegen: movegen.BruteForceGenerator{},
		logchan: logchan,
	}
}

func (r *GameRunner) Player() Player {
	return r.player
}

// Play plays one game. The seed fixes the library order, the prefill moves
// and any random choices of the player that go through Turn.Intn.
func (r *GameRunner) Play(ctx context.Context, seed [32]byte) (*GameResult, error) {
	logger := zerolog.Ctx(ctx)
	tstart := time.Now()
	rng := frand.NewCustom(seed[:], 1024, 12)

	box, err := tiles.NewBoxFrom(r.dist, r.players, rng)
	if err != nil {
		return nil, err
	}
	library, err := box.Draw(box.Remaining())
	if err != nil {
		return nil, err
	}

	res := &GameResult{
		ID:     uuid.New(),
		Seed:   seed,
		Player: r.player.Name(),
	}
	b := board.NewBoard()

	// Prefill with the top of the library, like a game already under way.
	for i := 0; i < r.prefill && len(library) > 0; i++ {
		d := library[0]
		library = library[1:]
		moves := r.movegen.GenAll(b, d)
		if len(moves) == 0 {
			res.Unplaced++
			continue
		}
		m := moves[rng.Intn(len(moves))]
		b.TryPlace(m)
		res.Moves = append(res.Moves, m)
		res.Prefill++
	}

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidates := movegen.AllFeasibleMoves(r.movegen, b, library)
		if len(candidates) == 0 {
			break
		}
		m, err := r.player.ChooseMove(ctx, Turn{
			Board:      b,
			Remaining:  library,
			Candidates: candidates,
			rng:        rng,
		})
		if err != nil {
			return nil, err
		}
		if err := b.PlaceMove(m); err != nil {
			return nil, fmt.Errorf("player %v: %w", r.player.Name(), err)
		}
		var ok bool
		library, ok = tiles.Remove(library, m.Domino())
		if !ok {
			return nil, fmt.Errorf("player %v played %v, which is not in the library",
				r.player.Name(), m.Domino())
		}
		res.Moves = append(res.Moves, m)

		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v\n",
				res.ID, turn, m.ShortDescription(), scoring.Score(b), len(library))
		}
	}

	res.Unplaced += len(library)
	res.Score = scoring.Score(b)
	res.Board = b
	res.Elapsed = time.Since(tstart)
	logger.Debug().Str("game", res.ID.String()).Str("player", res.Player).
		Int("score", res.Score).Int("moves", len(res.Moves)).
		Int("unplaced", res.Unplaced).Dur("elapsed", res.Elapsed).Msg("game-over")
	return res, nil
}
