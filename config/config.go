// Package config loads the engine, shell and autoplay settings from flags,
// REVERSI_* environment variables and an optional reversi.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/evaluator"
	"github.com/othello-go/reversi/search"
)

const (
	ConfigDebug               = "debug"
	ConfigSearchDepth         = "search-depth"
	ConfigStartDepth          = "start-depth"
	ConfigOrderingPlies       = "ordering-plies"
	ConfigAspirationThreshold = "aspiration-threshold"
	ConfigWeightPositional    = "weight-positional"
	ConfigWeightStability     = "weight-stability"
	ConfigWeightMobility      = "weight-mobility"
	ConfigEvalJitter          = "eval-jitter"
	ConfigSeed                = "seed"
	ConfigTTFractionOfMemory  = "tt-fraction-of-memory"
	ConfigMaxTime             = "max-time"
	ConfigEngineColor         = "engine-color"
	ConfigAutoplayThreads     = "autoplay-threads"
	ConfigAutoplayGames       = "autoplay-games"
	ConfigAutoplayDB          = "autoplay-db"
	ConfigAutoplayLog         = "autoplay-log"
	ConfigCPUProfile          = "cpu-profile"
	ConfigConfigFile          = "config-file"
)

const (
	EnvPrefix      = "REVERSI"
	configFileName = "reversi"
)

type Config struct {
	*viper.Viper
	args []string
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".reversi")
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("reversi", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigSearchDepth, search.DefaultMaxDepth, "maximum search depth in plies")
	fs.Int(ConfigStartDepth, search.DefaultStartDepth, "first iterative deepening depth")
	fs.Int(ConfigOrderingPlies, search.DefaultOrderingPlies, "plies from the root where moves are ordered")
	fs.Float64(ConfigAspirationThreshold, search.DefaultAspirationThreshold, "half-width of the aspiration window")
	fs.Float64(ConfigWeightPositional, evaluator.DefaultWeights.Positional, "positional weight")
	fs.Float64(ConfigWeightStability, evaluator.DefaultWeights.Stability, "stability weight")
	fs.Float64(ConfigWeightMobility, evaluator.DefaultWeights.Mobility, "mobility weight")
	fs.Bool(ConfigEvalJitter, false, "perturb the evaluator weights")
	fs.Uint64(ConfigSeed, 0, "random seed; 0 picks one")
	fs.Float64(ConfigTTFractionOfMemory, search.DefaultTTFraction, "fraction of system memory for the transposition table")
	fs.Duration(ConfigMaxTime, 0, "time limit per move (0 for none)")
	fs.String(ConfigEngineColor, "white", "color the engine plays in the shell")
	fs.Int(ConfigAutoplayThreads, 1, "concurrent autoplay games")
	fs.Int(ConfigAutoplayGames, 100, "number of autoplay games")
	fs.String(ConfigAutoplayDB, "", "sqlite database for autoplay results")
	fs.String(ConfigAutoplayLog, "/tmp/autoplay.txt", "per-move autoplay log")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigConfigFile, "", "config file (default "+configFileName+".yaml in . or ~/.reversi)")
	return fs
}

// Load parses args and merges them with the environment and the config
// file. Flags win over the environment, which wins over the file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
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

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
	} else {
		c.SetConfigName(configFileName)
		c.SetConfigType("yaml")
		c.AddConfigPath(".")
		c.AddConfigPath(defaultConfigDir())
	}
	err := c.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
	case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
		// no config file is fine.
	default:
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Args returns the arguments left over after the flags.
func (c *Config) Args() []string {
	return c.args
}

// Write saves the settings to the config file that was loaded, or to a
// new one in ~/.reversi.
func (c *Config) Write() error {
	path := c.ConfigFileUsed()
	if path == "" {
		path = c.GetString(ConfigConfigFile)
	}
	if path == "" {
		dir := defaultConfigDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path = filepath.Join(dir, configFileName+".yaml")
	}
	return c.WriteConfigAs(path)
}

func (c *Config) Weights() evaluator.Weights {
	return evaluator.Weights{
		Positional: c.GetFloat64(ConfigWeightPositional),
		Stability:  c.GetFloat64(ConfigWeightStability),
		Mobility:   c.GetFloat64(ConfigWeightMobility),
	}
}

func (c *Config) EvaluatorOptions() []evaluator.Option {
	opts := []evaluator.Option{evaluator.WithWeights(c.Weights())}
	if c.GetBool(ConfigEvalJitter) {
		opts = append(opts, evaluator.WithJitter(c.GetUint64(ConfigSeed)))
	}
	return opts
}

// SearchOptions are the solver settings, evaluator included.
func (c *Config) SearchOptions() []search.Option {
	return []search.Option{
		search.WithMaxDepth(c.GetInt(ConfigSearchDepth)),
		search.WithStartDepth(c.GetInt(ConfigStartDepth)),
		search.WithOrderingPlies(c.GetInt(ConfigOrderingPlies)),
		search.WithAspirationThreshold(c.GetFloat64(ConfigAspirationThreshold)),
		search.WithTTFraction(c.GetFloat64(ConfigTTFractionOfMemory)),
		search.WithMaxTime(c.GetDuration(ConfigMaxTime)),
		search.WithEvaluator(evaluator.New(c.EvaluatorOptions()...)),
	}
}

func (c *Config) EngineColor() (board.Color, error) {
	return board.ColorFromString(c.GetString(ConfigEngineColor))
}
