package automatic

// Data collection for automatic games: many solitaire kingdoms played in
// parallel, with their results written out for later analysis.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/castlebuilder/kingmaker/stats"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("autoplayGamesPlayed")
	IsPlaying = expvar.NewInt("autoplayIsPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// AutoplayResult holds every game of a run, in seed order.
type AutoplayResult struct {
	Games   []*GameResult
	Scores  stats.Statistic
	Elapsed time.Duration
}

// Autoplay plays numGames games with fresh random seeds.
func (r *GameRunner) Autoplay(ctx context.Context, numGames, threads int) (*AutoplayResult, error) {
	seeds, err := GenerateSeeds(numGames)
	if err != nil {
		return nil, err
	}
	return r.AutoplaySeeds(ctx, seeds, threads)
}

// AutoplaySeeds plays one game per seed, at most threads at a time.
func (r *GameRunner) AutoplaySeeds(ctx context.Context, seeds [][32]byte, threads int) (*AutoplayResult, error) {
	logger := zerolog.Ctx(ctx)
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	logger.Info().Int("games", len(seeds)).Int("threads", threads).
		Str("player", r.player.Name()).Msg("autoplay-start")
	tstart := time.Now()

	res := &AutoplayResult{Games: make([]*GameResult, len(seeds))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, threads))
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			game, err := r.Play(gctx, seed)
			if err != nil {
				return err
			}
			res.Games[i] = game
			GamesPlayed.Add(1)
			if n := GamesPlayed.Value(); n%100 == 0 {
				logger.Info().Int64("games", n).Msg("autoplay-progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, game := range res.Games {
		res.Scores.Push(float64(game.Score))
	}
	res.Elapsed = time.Since(tstart)
	logger.Info().Int("games", len(seeds)).Float64("mean", res.Scores.Mean()).
		Float64("stdev", res.Scores.Stdev()).Dur("elapsed", res.Elapsed).Msg("autoplay-done")
	return res, nil
}

// ScoreSamples returns the final score of every game.
func (a *AutoplayResult) ScoreSamples() []float64 {
	out := make([]float64, len(a.Games))
	for i, g := range a.Games {
		out[i] = float64(g.Score)
	}
	return out
}

var resultsHeader = []string{"gameID", "seed", "player", "score", "moves", "prefill", "unplaced"}

// WriteResults writes one CSV line per game, after a header.
func WriteResults(w io.Writer, games []*GameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	for _, g := range games {
		err := cw.Write([]string{
			g.ID.String(),
			g.SeedString(),
			g.Player,
			strconv.Itoa(g.Score),
			strconv.Itoa(len(g.Moves)),
			strconv.Itoa(g.Prefill),
			strconv.Itoa(g.Unplaced),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
