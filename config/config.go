// Package config holds the settings shared by the kingmaker commands.
// Values come, in increasing priority, from defaults, an optional
// config.yaml, KINGMAKER_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug          = "debug"
	ConfigConfigFile     = "config"
	ConfigThinkTime      = "think-time"
	ConfigThreads        = "threads"
	ConfigPlayers        = "players"
	ConfigMoveCacheSize  = "move-cache-size"
	ConfigAutoplayGames  = "autoplay-games"
	ConfigAutoplayPlayer = "autoplay-player"
	ConfigPrefillMoves   = "prefill-moves"
	ConfigSolveTiles     = "solve-tiles"
	ConfigSimLogFile     = "sim-log-file"
	ConfigCPUProfile     = "cpu-profile"
	ConfigSeedsFile      = "seeds-file"
	ConfigThinkDomino    = "domino"
)

const EnvPrefix = "KINGMAKER"

const (
	PlayerRandom     = "random"
	PlayerGreedy     = "greedy"
	PlayerMonteCarlo = "montecarlo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config holding only the defaults. Tests use it
// directly; commands call Load on top of it.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThinkTime, 5*time.Second)
	c.SetDefault(ConfigThreads, runtime.NumCPU())
	c.SetDefault(ConfigPlayers, 4)
	c.SetDefault(ConfigMoveCacheSize, 1<<16)
	c.SetDefault(ConfigAutoplayGames, 10)
	c.SetDefault(ConfigAutoplayPlayer, PlayerGreedy)
	c.SetDefault(ConfigPrefillMoves, 0)
	c.SetDefault(ConfigSolveTiles, 3)
	c.SetDefault(ConfigSimLogFile, "")
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigSeedsFile, "")
	c.SetDefault(ConfigThinkDomino, "")
	return c
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("kingmaker", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "path to a YAML config file (default ./config.yaml if present)")
	fs.Duration(ConfigThinkTime, 5*time.Second, "total thinking time per monte-carlo decision")
	fs.Int(ConfigThreads, runtime.NumCPU(), "number of worker goroutines")
	fs.Int(ConfigPlayers, 4, "number of players; sets the library size (2, 3 or 4)")
	fs.Int(ConfigMoveCacheSize, 1<<16, "entries in the solver's feasible-move cache")
	fs.Int(ConfigAutoplayGames, 10, "games to play in autoplay")
	fs.String(ConfigAutoplayPlayer, PlayerGreedy, "autoplay player: random, greedy or montecarlo")
	fs.Int(ConfigPrefillMoves, 0, "random moves placed before an autoplay game starts")
	fs.Int(ConfigSolveTiles, 3, "dominoes drawn for the solve command")
	fs.String(ConfigSimLogFile, "", "write monte-carlo evaluations to this file as YAML")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigSeedsFile, "", "autoplay seeds: replayed if the file exists, otherwise generated and saved there")
	fs.String(ConfigThinkDomino, "", `domino for the think command, e.g. "water:1/forest" (default: next drawn)`)
	return fs
}

// Load parses args, binds the environment and reads the config file if
// there is one. Positional arguments are available from Args afterwards.
func (c *Config) Load(args []string) error {
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(EnvPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
	} else {
		c.SetConfigName("config")
		c.SetConfigType("yaml")
		c.AddConfigPath(".")
	}
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return c.Validate()
}

// Args are the positional command-line arguments left after flags.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) ThinkTime() time.Duration {
	return c.GetDuration(ConfigThinkTime)
}

func (c *Config) Validate() error {
	switch p := c.GetInt(ConfigPlayers); p {
	case 2, 3, 4:
	default:
		return fmt.Errorf("%w: %s must be 2, 3 or 4, got %d", ErrInvalidConfig, ConfigPlayers, p)
	}
	switch p := c.GetString(ConfigAutoplayPlayer); p {
	case PlayerRandom, PlayerGreedy, PlayerMonteCarlo:
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, ConfigAutoplayPlayer, p)
	}
	if c.GetInt(ConfigThreads) < 1 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, ConfigThreads)
	}
	if c.ThinkTime() < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, ConfigThinkTime)
	}
	if c.GetInt(ConfigMoveCacheSize) < 1 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, ConfigMoveCacheSize)
	}
	if c.GetInt(ConfigSolveTiles) < 1 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, ConfigSolveTiles)
	}
	if c.GetInt(ConfigPrefillMoves) < 0 || c.GetInt(ConfigAutoplayGames) < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	}
	return nil
}
