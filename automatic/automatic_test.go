package automatic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/game"
	"github.com/othello-go/reversi/player"
	"github.com/othello-go/reversi/search"
	"github.com/othello-go/reversi/stats"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestParsePlayerSpec(t *testing.T) {
	cases := []struct {
		in      string
		want    PlayerSpec
		wantErr bool
	}{
		{"random", PlayerSpec{Kind: RandomPlayer}, false},
		{"engine", PlayerSpec{Kind: EnginePlayer}, false},
		{"Engine:4", PlayerSpec{Kind: EnginePlayer, Depth: 4}, false},
		{"engine:2:jitter", PlayerSpec{Kind: EnginePlayer, Depth: 2, Jitter: true}, false},
		{"engine:0", PlayerSpec{}, true},
		{"engine:3:fast", PlayerSpec{}, true},
		{"random:3", PlayerSpec{}, true},
		{"human", PlayerSpec{}, true},
	}
	for _, c := range cases {
		got, err := ParsePlayerSpec(c.in)
		if c.wantErr {
			assert.Error(t, err, c.in)
			continue
		}
		assert.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
		assert.Equal(t, strings.ToLower(c.in), got.String())
	}
}

func TestGameRunner(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 100)
	r, err := NewGameRunner(logchan, player.NewRandom(board.Black, 3), player.NewRandom(board.White, 4))
	is.NoErr(err)
	is.NoErr(r.PlayFull(context.Background()))
	close(logchan)

	g := r.Game()
	is.Equal(g.Playing(), game.GameOver)
	moves := 0
	for _, evt := range g.History() {
		if !evt.Pass {
			moves++
		}
	}
	lines := 0
	for msg := range logchan {
		is.True(strings.HasPrefix(msg, r.GameID()+","))
		lines++
	}
	is.Equal(lines, moves)
}

func TestGameRunnerRejectsWrongColors(t *testing.T) {
	is := is.New(t)
	_, err := NewGameRunner(nil, player.NewRandom(board.White, 1), player.NewRandom(board.White, 2))
	is.True(err != nil)
}

func TestGameRunnerFrom(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	is.NoErr(g.Play(board.Pos{Col: 4, Row: 2}))
	black := player.NewScripted("b", board.Black)
	white := player.NewScripted("w", board.White, board.Pos{Col: 5, Row: 2})
	r, err := NewGameRunnerFrom(g, nil, black, white)
	is.NoErr(err)
	is.True(r.Game() == g)

	is.NoErr(r.PlayTurn(context.Background()))
	is.Equal(g.Turn(), 3)
	is.Equal(white.Remaining(), 0)

	// an empty script stops the game without moving.
	err = r.PlayTurn(context.Background())
	is.True(errors.Is(err, player.ErrNoMoreMoves))
	is.Equal(g.Turn(), 3)
}

func TestEngineVsRandom(t *testing.T) {
	is := is.New(t)
	e := PlayerSpec{Kind: EnginePlayer, Depth: 2}.NewPlayer("e", board.Black, 0, nil,
		[]search.Option{search.WithTTFraction(0)})
	r, err := NewGameRunner(nil, e, player.NewRandom(board.White, 11))
	is.NoErr(err)
	is.NoErr(r.PlayFull(context.Background()))
	is.Equal(r.Game().Playing(), game.GameOver)
}

func TestPlayMatch(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	cfg := MatchConfig{
		Player1:       PlayerSpec{Kind: EnginePlayer, Depth: 1},
		Player2:       PlayerSpec{Kind: RandomPlayer},
		NumGames:      4,
		Threads:       2,
		LogFile:       filepath.Join(dir, "moves.csv"),
		DBPath:        filepath.Join(dir, "results.db"),
		Seeds:         []uint64{1, 2, 3, 4},
		SearchOptions: []search.Option{search.WithTTFraction(0)},
	}
	summary, err := PlayMatch(context.Background(), cfg)
	is.NoErr(err)
	is.Equal(len(summary.Results), 4)
	is.Equal(summary.Player1Score.Games(), 4)
	for i, r := range summary.Results {
		is.Equal(r.Index, i)
		is.True(r.P1Stones+r.P2Stones <= 64)
	}
	// player 1 alternates colors.
	is.Equal(summary.Results[0].Player1Side, board.Black)
	is.Equal(summary.Results[1].Player1Side, board.White)
	is.True(strings.Contains(summary.String(), "Games played: 4"))

	store, err := OpenResultsStore(context.Background(), cfg.DBPath)
	is.NoErr(err)
	defer store.Close()
	stored, err := store.Results(context.Background(), summary.Player1, summary.Player2)
	is.NoErr(err)
	is.Equal(len(stored), 4)

	analysis, err := AnalyzeLogFile(cfg.LogFile)
	is.NoErr(err)
	is.True(strings.Contains(analysis, "Games: 4"))
	is.True(strings.Contains(analysis, "engine:1-1"))
	is.True(strings.Contains(analysis, "random-2"))
}

func TestSeededMatchesRepeat(t *testing.T) {
	is := is.New(t)
	cfg := MatchConfig{
		Player1:  PlayerSpec{Kind: RandomPlayer},
		Player2:  PlayerSpec{Kind: RandomPlayer},
		NumGames: 3,
		Threads:  3,
		Seeds:    GenerateSeeds(3),
	}
	first, err := PlayMatch(context.Background(), cfg)
	is.NoErr(err)
	second, err := PlayMatch(context.Background(), cfg)
	is.NoErr(err)
	for i := range first.Results {
		is.Equal(first.Results[i].Margin(), second.Results[i].Margin())
		is.Equal(first.Results[i].Turns, second.Results[i].Turns)
	}
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	results := []GameResult{
		{Index: 2, Player1Side: board.Black, P1Stones: 40, P2Stones: 24, Turns: 60},
		{Index: 0, Player1Side: board.Black, P1Stones: 20, P2Stones: 44, Turns: 60},
		{Index: 1, Player1Side: board.White, P1Stones: 32, P2Stones: 32, Turns: 58},
	}
	s := Summarize("a", "b", results)
	is.Equal(s.Results[0].Index, 0)
	is.Equal(s.Player1Score, stats.WinRate{Wins: 1, Ties: 1, Losses: 1})
	// black won game 2, lost game 0 and tied game 1.
	is.Equal(s.BlackScore, stats.WinRate{Wins: 1, Ties: 1, Losses: 1})
	assert.InDelta(t, -8.0/3, s.Margins.Mean(), 1e-9)
	is.Equal(s.Margins.Min(), -24.0)
	is.Equal(s.Margins.Max(), 16.0)
	is.True(strings.Contains(s.String(), "histogram"))
}

func TestSeedsRoundTrip(t *testing.T) {
	is := is.New(t)
	seeds := GenerateSeeds(5)
	for _, s := range seeds {
		is.True(s != 0)
	}
	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)
}
