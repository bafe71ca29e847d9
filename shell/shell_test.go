package shell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/config"
	"github.com/othello-go/reversi/player"
	"github.com/othello-go/reversi/record"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testShell(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	err := cfg.Load([]string{
		"--config-file", filepath.Join(t.TempDir(), "reversi.yaml"),
		"--search-depth", "2",
		"--tt-fraction-of-memory", "0",
	})
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	return newController(cfg, "", out), out
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -log /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"log": {"/path/to/log.txt"}}},
			nil},
		{"autoplay stop",
			&shellcmd{"autoplay", []string{"stop"}, CmdOptions{}},
			nil},
		{"autoplay -p1 engine:4 -p2 'engine:2:jitter' -games 10 ",
			&shellcmd{"autoplay", nil,
				CmdOptions{"p1": {"engine:4"}, "p2": {"engine:2:jitter"}, "games": {"10"}}},
			nil,
		},
		{"set aspiration-threshold -1.5",
			&shellcmd{"set", []string{"aspiration-threshold", "-1.5"}, CmdOptions{}},
			nil},
		{"autoplay -games",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)

	_, err := sc.executeLine("new black")
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 1)
	is.Equal(sc.engine.Color(), board.White)
	is.Equal(sc.names[0], humanName)

	// the engine opens when it plays black.
	resp, err := sc.executeLine("new white")
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 2)
	is.Equal(sc.game.OnTurn(), board.White)
	is.True(strings.Contains(resp.message, "plays"))

	_, err = sc.executeLine("new purple")
	is.True(err != nil)
}

func TestNoGame(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	for _, line := range []string{"show", "moves", "play e3", "aiplay", "save /tmp/x.yaml"} {
		_, err := sc.executeLine(line)
		is.Equal(err, errNoGame)
	}
	_, err := sc.executeLine("fly away")
	is.True(err != nil)
}

func TestPlay(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	_, err := sc.executeLine("new black")
	is.NoErr(err)

	_, err = sc.executeLine("play a1")
	is.True(err != nil)
	is.Equal(sc.game.Turn(), 1)

	resp, err := sc.executeLine("play E3")
	is.NoErr(err)
	// the engine answered straight away.
	is.Equal(sc.game.Turn(), 3)
	is.Equal(sc.game.OnTurn(), board.Black)
	is.True(strings.Contains(resp.message, "plays"))
	is.Equal(sc.game.History()[0].String(), "e3")

	resp, err = sc.executeLine("aiplay")
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 5)
	is.True(strings.HasPrefix(resp.message, "played "))
}

func TestPlayGoesThroughRunner(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	_, err := sc.executeLine("new black")
	is.NoErr(err)
	is.True(sc.runner.Game() == sc.game)
	human, ok := sc.runner.PlayerFor(board.Black).(*player.Scripted)
	is.True(ok)
	is.True(human == sc.human)
	is.True(sc.runner.PlayerFor(board.White) == player.Player(sc.engine))

	_, err = sc.executeLine("play f4")
	is.NoErr(err)
	is.Equal(human.Remaining(), 0)
	hist := sc.game.History()
	is.Equal(hist[0].Color, board.Black)
	is.Equal(hist[0].String(), "f4")
	is.Equal(hist[1].Color, board.White)

	// a rejected move is consumed, so the next one plays normally.
	_, err = sc.executeLine("play h8")
	is.True(err != nil)
	is.Equal(human.Remaining(), 0)
	is.Equal(sc.game.Turn(), 3)

	// the engine is on turn right after a new game as white.
	_, err = sc.executeLine("new white")
	is.NoErr(err)
	_, ok = sc.runner.PlayerFor(board.White).(*player.Scripted)
	is.True(ok)
	is.Equal(sc.names, [2]string{sc.engine.Name(), humanName})
}

func TestMoves(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	_, err := sc.executeLine("new black")
	is.NoErr(err)
	resp, err := sc.executeLine("moves")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "4 moves for black:"))
	is.Equal(len(strings.Split(strings.TrimSpace(resp.message), "\n")), 5)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	_, err := sc.executeLine("new black")
	is.NoErr(err)

	resp, err := sc.executeLine("set search-depth 3")
	is.NoErr(err)
	is.Equal(resp.message, "set search-depth to 3")
	is.Equal(sc.engine.Solver().MaxDepth(), 3)

	resp, err = sc.executeLine("set search-depth")
	is.NoErr(err)
	is.Equal(resp.message, "3")

	resp, err = sc.executeLine("set")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "weight-stability: 5"))

	_, err = sc.executeLine("set bogus 1")
	is.True(err != nil)
	_, err = sc.executeLine("set engine-color green")
	is.True(err != nil)
}

func TestSaveLoad(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	path := filepath.Join(t.TempDir(), "game.yaml")

	_, err := sc.executeLine("new black")
	is.NoErr(err)
	_, err = sc.executeLine("play e3")
	is.NoErr(err)
	saved := sc.game.Board()
	_, err = sc.executeLine("save " + path)
	is.NoErr(err)

	r, err := record.Load(path)
	is.NoErr(err)
	is.Equal(len(r.Moves), 2)
	is.Equal(r.Black, humanName)

	_, err = sc.executeLine("new black")
	is.NoErr(err)
	_, err = sc.executeLine("load " + path)
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 3)
	is.Equal(sc.game.Board(), saved)
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	dir := t.TempDir()
	logfile := filepath.Join(dir, "log.csv")

	resp, err := sc.executeLine(fmt.Sprintf(
		"autoplay -games 2 -threads 2 -p1 random -p2 engine:1 -log %s -db %s",
		logfile, filepath.Join(dir, "results.db")))
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "autoplay started: 2 games"))
	sc.waitAutoplay()

	is.True(strings.Contains(out.String(), "Games played: 2"))
	seeds, err := os.ReadFile(logfile + ".seeds")
	is.NoErr(err)
	is.True(len(seeds) > 0)

	_, err = sc.executeLine("autoplay stop")
	is.True(err != nil)
	_, err = sc.executeLine("autoplay -p1 human")
	is.True(err != nil)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	dir := t.TempDir()
	savepath := filepath.Join(dir, "scripted.yaml")
	script := filepath.Join(dir, "test.lua")
	lua := fmt.Sprintf(`
reversi_new("black")
local s = reversi_state()
assert(s.turn == 1)
assert(s.on_turn == "black")
assert(#s.moves == 4)
assert(#s.board == 8)

local out, err = reversi_play("e3")
assert(err == nil)
out, err = reversi_play("a1")
assert(out == nil and err ~= nil)

local json = require("json")
assert(json.encode({a = 1}) == '{"a":1}')

reversi_exec("save %s")
`, savepath)
	is.NoErr(os.WriteFile(script, []byte(lua), 0o644))

	resp, err := sc.executeLine("script " + script)
	is.NoErr(err)
	is.Equal(resp.message, "ran "+script)

	r, err := record.Load(savepath)
	is.NoErr(err)
	is.Equal(r.Moves[0], "e3")

	_, err = sc.executeLine("script " + filepath.Join(dir, "missing.lua"))
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	_, err := sc.executeLine("help")
	is.NoErr(err)
	is.True(strings.Contains(out.String(), "autoplay [options]"))
	out.Reset()
	_, err = sc.executeLine("help nothing")
	is.NoErr(err)
	is.True(strings.Contains(out.String(), "no help text"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter()
	matches, n := c.Do([]rune("aut"), 3)
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("oplay")})

	line := []rune("autoplay -p1 eng")
	matches, _ = c.Do(line, len(line))
	is.Equal(len(matches), 4)

	line = []rune("play h")
	matches, _ = c.Do(line, len(line))
	is.Equal(len(matches), 8)
}
