package automatic

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/config"
	"github.com/castlebuilder/kingmaker/montecarlo"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/movegen"
	"github.com/castlebuilder/kingmaker/scoring"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testConfig(players, prefill int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigPlayers, players)
	cfg.Set(config.ConfigPrefillMoves, prefill)
	return cfg
}

func seed(b byte) [32]byte {
	var s [32]byte
	s[0] = b
	return s
}

func replay(t *testing.T, res *GameResult) *board.Board {
	b := board.NewBoard()
	for _, m := range res.Moves {
		require.NoError(t, b.PlaceMove(m))
	}
	return b
}

func TestGreedyGame(t *testing.T) {
	r := NewGameRunner(nil, testConfig(2, 0), GreedyPlayer{})
	res, err := r.Play(context.Background(), seed(1))
	require.NoError(t, err)

	assert.Equal(t, config.PlayerGreedy, res.Player)
	assert.Equal(t, 24, len(res.Moves)+res.Unplaced)
	assert.Equal(t, scoring.Score(res.Board), res.Score)
	assert.NoError(t, res.Board.CheckInvariants())
	assert.LessOrEqual(t, res.Board.Bounds().Width(), board.MaxWidth)
	assert.LessOrEqual(t, res.Board.Bounds().Height(), board.MaxWidth)

	// the recorded moves rebuild the same kingdom
	assert.Equal(t, res.Score, scoring.Score(replay(t, res)))
}

func TestSameSeedSameGame(t *testing.T) {
	for _, p := range []Player{RandomPlayer{}, GreedyPlayer{}} {
		t.Run(p.Name(), func(t *testing.T) {
			r := NewGameRunner(nil, testConfig(3, 2), p)
			a, err := r.Play(context.Background(), seed(9))
			require.NoError(t, err)
			b, err := r.Play(context.Background(), seed(9))
			require.NoError(t, err)
			assert.Equal(t, a.Moves, b.Moves)
			assert.Equal(t, a.Score, b.Score)
			assert.NotEqual(t, a.ID, b.ID)
		})
	}
}

func TestPrefill(t *testing.T) {
	r := NewGameRunner(nil, testConfig(4, 5), RandomPlayer{})
	res, err := r.Play(context.Background(), seed(3))
	require.NoError(t, err)
	// the castle neighbourhood is empty at first, so the first prefill
	// domino always fits
	assert.GreaterOrEqual(t, res.Prefill, 1)
	assert.LessOrEqual(t, res.Prefill, 5)
	assert.Equal(t, 48, len(res.Moves)+res.Unplaced)
	assert.Equal(t, res.Score, scoring.Score(replay(t, res)))
}

func TestGreedyPicksBestImmediateScore(t *testing.T) {
	b := board.NewBoard()
	dist := NewGameRunner(nil, testConfig(4, 0), GreedyPlayer{}).dist
	remaining := dist.Dominoes[:6]
	candidates := movegen.AllFeasibleMoves(movegen.BruteForceGenerator{}, b, remaining)
	m, err := GreedyPlayer{}.ChooseMove(context.Background(), Turn{
		Board: b, Remaining: remaining, Candidates: candidates,
	})
	require.NoError(t, err)

	best := -1
	var first move.Move
	for _, c := range candidates {
		cp := b.Copy()
		require.True(t, cp.TryPlace(c))
		if s := scoring.Score(cp); s > best {
			best, first = s, c
		}
	}
	assert.Equal(t, first, m)
	assert.True(t, b.IsEmpty())
}

type illegalPlayer struct{}

func (illegalPlayer) Name() string { return "illegal" }

func (illegalPlayer) ChooseMove(ctx context.Context, t Turn) (move.Move, error) {
	m := t.Candidates[0]
	return move.New(m.Domino(), false, 0, 0, 0, 1), nil
}

func TestIllegalChoiceIsAnError(t *testing.T) {
	r := NewGameRunner(nil, testConfig(2, 0), illegalPlayer{})
	_, err := r.Play(context.Background(), seed(4))
	assert.True(t, errors.Is(err, board.ErrIllegalMove))
}

func TestTurnLog(t *testing.T) {
	logchan := make(chan string, 100)
	r := NewGameRunner(logchan, testConfig(2, 0), GreedyPlayer{})
	res, err := r.Play(context.Background(), seed(5))
	require.NoError(t, err)
	close(logchan)

	var lines []string
	for l := range logchan {
		lines = append(lines, l)
	}
	require.Equal(t, len(res.Moves), len(lines))
	last := strings.Split(strings.TrimSpace(lines[len(lines)-1]), ",")
	assert.Equal(t, res.ID.String(), last[0])
}

func TestAutoplay(t *testing.T) {
	r := NewGameRunner(nil, testConfig(2, 1), RandomPlayer{})
	played := GamesPlayed.Value()
	out, err := r.Autoplay(context.Background(), 12, 4)
	require.NoError(t, err)
	assert.Equal(t, played+12, GamesPlayed.Value())
	require.Len(t, out.Games, 12)
	assert.Equal(t, 12, out.Scores.Iterations())

	sum := 0.0
	for i, g := range out.Games {
		require.NotNil(t, g, "game %d", i)
		sum += float64(g.Score)
	}
	assert.InDelta(t, sum/12, out.Scores.Mean(), 1e-9)
	assert.Len(t, out.ScoreSamples(), 12)
	assert.Equal(t, int64(0), IsPlaying.Value())
}

func TestAutoplaySeedsInOrder(t *testing.T) {
	r := NewGameRunner(nil, testConfig(2, 0), GreedyPlayer{})
	seeds := [][32]byte{seed(10), seed(11), seed(12)}
	out, err := r.AutoplaySeeds(context.Background(), seeds, 3)
	require.NoError(t, err)
	for i, g := range out.Games {
		assert.Equal(t, seeds[i], g.Seed)
	}
}

func TestAutoplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewGameRunner(nil, testConfig(2, 0), GreedyPlayer{})
	_, err := r.Autoplay(ctx, 4, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMonteCarloGame(t *testing.T) {
	if testing.Short() {
		t.Skip("plays a full monte-carlo game")
	}
	var buf bytes.Buffer
	cfg := testConfig(2, 0)
	cfg.Set(config.ConfigAutoplayPlayer, config.PlayerMonteCarlo)
	cfg.Set(config.ConfigThinkTime, 20*time.Millisecond)
	cfg.Set(config.ConfigThreads, 2)
	p, err := NewPlayer(cfg, &buf)
	require.NoError(t, err)

	r := NewGameRunner(nil, cfg, p)
	res, err := r.Play(context.Background(), seed(6))
	require.NoError(t, err)
	assert.Equal(t, config.PlayerMonteCarlo, res.Player)
	assert.Equal(t, res.Score, scoring.Score(replay(t, res)))

	dec := yaml.NewDecoder(&buf)
	docs := 0
	for {
		var le montecarlo.LogEvaluation
		err := dec.Decode(&le)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.GreaterOrEqual(t, le.Playouts, 1)
		docs++
	}
	assert.Greater(t, docs, 0)
}

func TestNewPlayer(t *testing.T) {
	cfg := config.DefaultConfig()
	for name, want := range map[string]string{
		config.PlayerRandom:     config.PlayerRandom,
		config.PlayerGreedy:     config.PlayerGreedy,
		config.PlayerMonteCarlo: config.PlayerMonteCarlo,
	} {
		cfg.Set(config.ConfigAutoplayPlayer, name)
		p, err := NewPlayer(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, want, p.Name())
	}
	cfg.Set(config.ConfigAutoplayPlayer, "oracle")
	_, err := NewPlayer(cfg, nil)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestSeedsRoundTrip(t *testing.T) {
	seeds, err := GenerateSeeds(5)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	require.NoError(t, err)
	assert.Equal(t, seeds, loaded)

	require.NoError(t, os.WriteFile(path, []byte("# comment\n\nnot-a-seed\n"), 0o644))
	_, err = LoadSeeds(path)
	assert.Error(t, err)
}

func TestResultsAnalysis(t *testing.T) {
	r := NewGameRunner(nil, testConfig(2, 0), GreedyPlayer{})
	out, err := r.AutoplaySeeds(context.Background(), [][32]byte{seed(20), seed(21)}, 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteResults(f, out.Games))
	require.NoError(t, f.Close())

	summary, err := AnalyzeLogFile(path)
	require.NoError(t, err)
	assert.Contains(t, summary, "Games played: 2")
	assert.Contains(t, summary, "greedy games: 2")

	s, err := ParseSeed(out.Games[1].SeedString())
	require.NoError(t, err)
	assert.Equal(t, seed(21), s)
}

func TestSeedsForRunSavesThenReplays(t *testing.T) {
	fresh, err := SeedsForRun("", 3)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)

	path := filepath.Join(t.TempDir(), "seeds.txt")
	first, err := SeedsForRun(path, 4)
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.FileExists(t, path)

	// the file wins over the requested count
	again, err := SeedsForRun(path, 10)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	r := NewGameRunner(nil, testConfig(2, 1), RandomPlayer{})
	a, err := r.AutoplaySeeds(context.Background(), first, 2)
	require.NoError(t, err)
	b, err := r.AutoplaySeeds(context.Background(), again, 2)
	require.NoError(t, err)
	for i := range a.Games {
		assert.Equal(t, a.Games[i].Score, b.Games[i].Score)
		assert.Equal(t, a.Games[i].Moves, b.Games[i].Moves)
	}
}

func TestSeedsForRunBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o644))
	_, err := SeedsForRun(path, 2)
	assert.Error(t, err)
}
