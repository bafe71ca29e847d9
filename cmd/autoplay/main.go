// Command autoplay plays a match between two players without the shell.
//
//	autoplay [flags] <player1> <player2>
//
// where a player is random, engine, engine:<depth> or engine:<depth>:jitter.
// The number of games, threads, log file and results database come from the
// usual autoplay-* settings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/othello-go/reversi/automatic"
	"github.com/othello-go/reversi/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	args := cfg.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: autoplay [flags] <player1> <player2>")
		os.Exit(2)
	}
	p1, err := automatic.ParsePlayerSpec(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-player1")
	}
	p2, err := automatic.ParsePlayerSpec(args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-player2")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mc := automatic.MatchConfig{
		Player1:          p1,
		Player2:          p2,
		NumGames:         cfg.GetInt(config.ConfigAutoplayGames),
		Threads:          cfg.GetInt(config.ConfigAutoplayThreads),
		LogFile:          cfg.GetString(config.ConfigAutoplayLog),
		DBPath:           cfg.GetString(config.ConfigAutoplayDB),
		EvaluatorOptions: cfg.EvaluatorOptions(),
		SearchOptions:    cfg.SearchOptions(),
	}
	summary, err := automatic.PlayMatch(ctx, mc)
	if summary != nil {
		fmt.Print(summary.String())
	}
	if err != nil {
		log.Error().Err(err).Msg("autoplay-stopped")
	}
	if mc.LogFile != "" {
		analysis, err := automatic.AnalyzeLogFile(mc.LogFile)
		if err != nil {
			log.Fatal().Err(err).Msg("analyzing-log")
		}
		fmt.Print(analysis)
	}
}
