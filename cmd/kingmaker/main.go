package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/castlebuilder/kingmaker/config"
)

var (
	GitVersion string
)

const usage = `usage: kingmaker [flags] <command> [args]

commands:
  autoplay [results.csv]   play autoplay-games solitaire games and summarize the scores;
                           --seeds-file replays or records the game seeds
  solve                    draw solve-tiles dominoes and find the best kingdom for them
  think                    draw a library and rank the placements of its next domino,
                           or of --domino (e.g. "water:1/forest")`

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; anything else is worth knowing about.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "could not load .env:", err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Str("version", GitVersion).Interface("settings", cfg.AllSettings()).Msg("config-loaded")

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	args := cfg.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "autoplay":
		err = autoplay(ctx, cfg, args[1:])
	case "solve":
		err = solve(ctx, cfg)
	case "think":
		err = think(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", args[0], usage)
		return 2
	}
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("interrupted")
		return 130
	}
	if err != nil {
		log.Error().Err(err).Str("command", args[0]).Msg("command-failed")
		return 1
	}
	return 0
}
