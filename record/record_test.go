package record

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/game"
)

func playOut(t *testing.T, g *game.Game) {
	is := is.New(t)
	for g.Playing() == game.Playing {
		b := g.Board()
		is.NoErr(g.Play(b.AvailableMoves(g.OnTurn())[0]))
	}
}

func TestRoundTripFullGame(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	playOut(t, g)

	r := FromGame(g, "alice", "bob")
	is.True(r.Result != nil)
	is.Equal(r.StartPosition, "")
	is.Equal(len(r.Moves), len(g.History()))

	var buf bytes.Buffer
	is.NoErr(Write(&buf, r))
	is.True(strings.Contains(buf.String(), "black: alice"))

	read, err := Read(&buf)
	is.NoErr(err)
	is.Equal(read, r)

	replayed, err := read.Replay()
	is.NoErr(err)
	is.Equal(replayed.Board(), g.Board())
	is.Equal(replayed.Turn(), g.Turn())
}

func TestRecordWithPass(t *testing.T) {
	is := is.New(t)
	b := board.MustParse(`
		XXXXXXXX
		XXXXXXXX
		XXXXXXXX
		XXXXXXXX
		XXXXXXXX
		XXXXXXXX
		XXXXXXO.
		XXXXXX..`)
	g := game.NewFromBoard(b, 2)
	is.NoErr(g.Play(board.Pos{Col: 7, Row: 6}))

	r := FromGame(g, "x", "o")
	is.Equal(r.Moves, []string{"pass", "h7"})
	is.Equal(r.StartTurn, 2)
	is.Equal(r.Result.Winner, "black")

	path := filepath.Join(t.TempDir(), "game.yaml")
	is.NoErr(Save(path, r))
	loaded, err := Load(path)
	is.NoErr(err)
	replayed, err := loaded.Replay()
	is.NoErr(err)
	is.Equal(replayed.Board(), g.Board())
}

func TestBadRecords(t *testing.T) {
	is := is.New(t)
	for _, moves := range [][]string{
		{"a1"},
		{"pass"},
		{"z9"},
	} {
		r := &GameRecord{Moves: moves}
		_, err := r.Replay()
		is.True(errors.Is(err, ErrBadRecord))
	}
	_, err := Read(strings.NewReader("moves: [unclosed"))
	is.True(errors.Is(err, ErrBadRecord))
}
