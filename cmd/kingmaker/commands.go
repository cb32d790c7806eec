package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/castlebuilder/kingmaker/automatic"
	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/config"
	"github.com/castlebuilder/kingmaker/montecarlo"
	mcstats "github.com/castlebuilder/kingmaker/montecarlo/stats"
	"github.com/castlebuilder/kingmaker/movegen"
	"github.com/castlebuilder/kingmaker/solver"
	"github.com/castlebuilder/kingmaker/stats"
	"github.com/castlebuilder/kingmaker/tiles"
)

const histogramWidth = 50

func openSimLog(cfg *config.Config) (*os.File, error) {
	path := cfg.GetString(config.ConfigSimLogFile)
	if path == "" {
		return nil, nil
	}
	return os.Create(path)
}

func autoplay(ctx context.Context, cfg *config.Config, args []string) error {
	logger := zerolog.Ctx(ctx)
	simLog, err := openSimLog(cfg)
	if err != nil {
		return err
	}
	var player automatic.Player
	if simLog != nil {
		defer simLog.Close()
		player, err = automatic.NewPlayer(cfg, simLog)
	} else {
		player, err = automatic.NewPlayer(cfg, nil)
	}
	if err != nil {
		return err
	}

	seeds, err := automatic.SeedsForRun(cfg.GetString(config.ConfigSeedsFile),
		cfg.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return err
	}

	logchan := make(chan string, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range logchan {
			logger.Debug().Msg(line)
		}
	}()

	r := automatic.NewGameRunner(logchan, cfg, player)
	out, err := r.AutoplaySeeds(ctx, seeds, cfg.GetInt(config.ConfigThreads))
	close(logchan)
	<-done
	if err != nil {
		return err
	}

	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := automatic.WriteResults(f, out.Games); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		summary, err := automatic.AnalyzeLogFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(summary)
	}

	low, high := out.Scores.ConfidenceInterval(stats.Z95)
	fmt.Printf("%d games, player %s: mean %.2f [%.2f, %.2f], stdev %.2f, min %.0f, max %.0f\n",
		out.Scores.Iterations(), player.Name(), out.Scores.Mean(), low, high,
		out.Scores.Stdev(), out.Scores.Min(), out.Scores.Max())
	return histogram.Fprint(os.Stdout, histogram.Hist(15, out.ScoreSamples()),
		histogram.Linear(histogramWidth))
}

func drawLibrary(cfg *config.Config) ([]tiles.Domino, error) {
	box, err := tiles.NewBox(tiles.StandardDistribution(), cfg.GetInt(config.ConfigPlayers))
	if err != nil {
		return nil, err
	}
	return box.Draw(box.Remaining())
}

func solve(ctx context.Context, cfg *config.Config) error {
	library, err := drawLibrary(cfg)
	if err != nil {
		return err
	}
	n := cfg.GetInt(config.ConfigSolveTiles)
	if n > len(library) {
		return fmt.Errorf("%w: want %d, library has %d", tiles.ErrNotEnoughTiles, n, len(library))
	}
	ds := library[:n]
	for _, d := range ds {
		fmt.Println(d)
	}

	gen, err := movegen.NewCachedGenerator(movegen.BruteForceGenerator{},
		cfg.GetInt(config.ConfigMoveCacheSize))
	if err != nil {
		return err
	}
	s := &solver.Solver{}
	s.Init(gen)
	sol, err := s.Solve(ctx, board.NewBoard(), ds)
	gen.LogStats()
	if err != nil {
		return err
	}
	fmt.Print(sol.PVLine)
	fmt.Printf("%d nodes in %v\n", sol.Nodes, sol.Elapsed)
	return nil
}

func think(ctx context.Context, cfg *config.Config) error {
	library, err := drawLibrary(cfg)
	if err != nil {
		return err
	}
	b := board.NewBoard()
	for i := 0; i < cfg.GetInt(config.ConfigPrefillMoves) && len(library) > 1; i++ {
		d := library[0]
		library = library[1:]
		if moves := movegen.FeasibleMoves(b, d); len(moves) > 0 {
			b.TryPlace(moves[frand.Intn(len(moves))])
		}
	}
	d := library[0]
	if s := cfg.GetString(config.ConfigThinkDomino); s != "" {
		if d, err = tiles.StandardDistribution().Find(s); err != nil {
			return err
		}
	}
	fmt.Println(b)
	fmt.Println("thinking about", d)

	th := montecarlo.NewThinker(b, library, cfg.ThinkTime())
	th.SetThreads(cfg.GetInt(config.ConfigThreads))
	th.SetCollectSamples(true)
	simLog, err := openSimLog(cfg)
	if err != nil {
		return err
	}
	if simLog != nil {
		defer simLog.Close()
		th.SetLogStream(simLog)
	}

	best, evals, err := th.Think(ctx, d)
	if err != nil {
		return err
	}
	st := mcstats.NewSimStats(evals)
	fmt.Print(st.Summary(10))

	play := best.Move().ShortDescription()
	details, err := st.CalculatePlayStats(play)
	if err != nil {
		return err
	}
	fmt.Print(details)
	if err := st.PrintHistogram(os.Stdout, histogramWidth); err != nil {
		return err
	}
	h, err := mcstats.CalculateHeatmap(b, best)
	if err != nil {
		return err
	}
	h.Display(os.Stdout)
	return nil
}
