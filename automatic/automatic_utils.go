package automatic

// Data collection for automatic games: computer vs computer matches.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/evaluator"
	"github.com/othello-go/reversi/search"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// MatchConfig describes a series of games between two players. Player 1
// plays Black in even-numbered games and White in odd-numbered ones.
type MatchConfig struct {
	Player1  PlayerSpec
	Player2  PlayerSpec
	NumGames int
	Threads  int
	// LogFile receives one CSV line per move; empty disables it.
	LogFile string
	// DBPath is a SQLite database for the results; empty disables it.
	DBPath string
	// Seeds, when set, gives each game a fixed seed (Seeds[i % len]).
	Seeds []uint64

	EvaluatorOptions []evaluator.Option
	SearchOptions    []search.Option
}

func (c *MatchConfig) playerNames() (string, string) {
	p1, p2 := c.Player1.String()+"-1", c.Player2.String()+"-2"
	return p1, p2
}

func (c *MatchConfig) seed(i int) uint64 {
	if len(c.Seeds) == 0 {
		return 0
	}
	return c.Seeds[i%len(c.Seeds)]
}

// PlayMatch plays cfg.NumGames games on cfg.Threads goroutines and returns
// a summary of the results. If ctx is cancelled the games finished so far
// are summarized and ctx's error is returned with them.
func PlayMatch(ctx context.Context, cfg MatchConfig) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	CVCCounter.Set(0)

	threads := max(1, cfg.Threads)
	p1Name, p2Name := cfg.playerNames()
	log.Info().Int("games", cfg.NumGames).Int("threads", threads).
		Str("player1", p1Name).Str("player2", p2Name).Msg("starting-autoplay")

	var store *ResultsStore
	if cfg.DBPath != "" {
		var err error
		store, err = OpenResultsStore(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
	}

	var logChan chan string
	var logfile *os.File
	if cfg.LogFile != "" {
		var err error
		logfile, err = os.Create(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
	}

	resChan := make(chan GameResult, 100)
	var results []GameResult

	collectors := &errgroup.Group{}
	if logChan != nil {
		collectors.Go(func() error {
			defer logfile.Close()
			_, werr := logfile.WriteString(MoveLogHeader)
			for msg := range logChan {
				if werr == nil {
					_, werr = logfile.WriteString(msg)
				}
			}
			log.Debug().Msg("exiting-turn-logger")
			return werr
		})
	}
	collectors.Go(func() error {
		var storeErr error
		for res := range resChan {
			results = append(results, res)
			if store != nil && storeErr == nil {
				// keep draining the channel even if the store fails.
				storeErr = store.Insert(context.Background(), res)
			}
		}
		return storeErr
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < cfg.NumGames; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			res, err := playOne(gctx, &cfg, i, p1Name, p2Name, logChan)
			if err != nil {
				return err
			}
			CVCCounter.Add(1)
			resChan <- res
			return nil
		})
	}
	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	close(resChan)
	if cerr := collectors.Wait(); cerr != nil && err == nil {
		err = cerr
	}
	log.Info().Int("finished", len(results)).Msg("all-games-finished")

	return Summarize(p1Name, p2Name, results), err
}

func playOne(ctx context.Context, cfg *MatchConfig, i int, p1Name, p2Name string,
	logChan chan string) (GameResult, error) {

	p1Side := board.Black
	if i%2 == 1 {
		p1Side = board.White
	}
	seed := cfg.seed(i)
	p1 := cfg.Player1.NewPlayer(p1Name, p1Side, seed, cfg.EvaluatorOptions, cfg.SearchOptions)
	// the second player gets its own stream.
	seed2 := seed
	if seed2 != 0 {
		seed2 = seed*31 + 7
	}
	p2 := cfg.Player2.NewPlayer(p2Name, p1Side.Opposite(), seed2, cfg.EvaluatorOptions, cfg.SearchOptions)

	black, white := p1, p2
	if p1Side == board.White {
		black, white = p2, p1
	}
	r, err := NewGameRunner(logChan, black, white)
	if err != nil {
		return GameResult{}, err
	}
	start := time.Now()
	if err := r.PlayFull(ctx); err != nil {
		return GameResult{}, fmt.Errorf("game %d: %w", i, err)
	}
	g := r.Game()
	b := g.Board()
	return GameResult{
		GameID:      r.GameID(),
		Index:       i,
		Player1:     p1Name,
		Player2:     p2Name,
		Player1Side: p1Side,
		P1Stones:    b.CountStones(p1Side),
		P2Stones:    b.CountStones(p1Side.Opposite()),
		Turns:       g.Turn() - 1,
		Elapsed:     time.Since(start),
	}, nil
}
