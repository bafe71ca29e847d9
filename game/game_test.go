package game

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/othello-go/reversi/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// White cannot move here; Black can only take the lone white stone.
var passBoard = board.MustParse(`
	XXXXXXXX
	XXXXXXXX
	XXXXXXXX
	XXXXXXXX
	XXXXXXXX
	XXXXXXXX
	XXXXXXO.
	XXXXXX..`)

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	is.Equal(g.Turn(), 1)
	is.Equal(g.OnTurn(), board.Black)
	is.Equal(g.Playing(), Playing)
	is.Equal(g.Board(), board.New())
	is.Equal(len(g.History()), 0)
}

func TestPlay(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	err := g.Play(board.Pos{Col: 4, Row: 2})
	is.NoErr(err)
	is.Equal(g.Turn(), 2)
	is.Equal(g.OnTurn(), board.White)
	black, white := g.Score()
	is.Equal(black, 4)
	is.Equal(white, 1)
	is.Equal(g.History()[0].String(), "e3")
}

func TestIllegalMove(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	err := g.Play(board.Pos{Col: 0, Row: 0})
	is.True(errors.Is(err, ErrIllegalMove))
	err = g.Play(board.Pos{Col: 8, Row: 0})
	is.True(errors.Is(err, ErrIllegalMove))
	// occupied square
	err = g.Play(board.Pos{Col: 3, Row: 3})
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(g.Turn(), 1)
}

func TestForcedPass(t *testing.T) {
	is := is.New(t)
	g := NewFromBoard(passBoard, 2)
	// White passed straight away.
	is.Equal(g.Turn(), 3)
	is.Equal(g.OnTurn(), board.Black)
	h := g.History()
	is.Equal(len(h), 1)
	is.True(h[0].Pass)
	is.Equal(h[0].Color, board.White)
	is.Equal(h[0].String(), "pass")

	is.NoErr(g.Play(board.Pos{Col: 7, Row: 6}))
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Winner(), board.Black)

	err := g.Play(board.Pos{Col: 7, Row: 7})
	is.True(errors.Is(err, ErrGameOver))
	is.True(strings.Contains(g.ToDisplayText(), "black wins"))
}

func TestFullGame(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	for g.Playing() == Playing {
		b := g.Board()
		moves := b.AvailableMoves(g.OnTurn())
		is.True(len(moves) > 0)
		is.NoErr(g.Play(moves[len(moves)-1]))
	}
	b := g.Board()
	is.True(b.GameOver())
	is.Equal(len(g.History()), g.Turn()-1)
	black, white := g.Score()
	is.True(black+white <= board.Size*board.Size)
}

func TestPlayToTurn(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	var boards []board.Board
	for i := 0; i < 4; i++ {
		boards = append(boards, g.Board())
		b := g.Board()
		is.NoErr(g.Play(b.AvailableMoves(g.OnTurn())[0]))
	}
	is.NoErr(g.PlayToTurn(3))
	is.Equal(g.Turn(), 3)
	is.Equal(g.Board(), boards[2])
	is.Equal(len(g.History()), 2)
}

func TestCopy(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	cp := g.Copy()
	is.NoErr(cp.Play(board.Pos{Col: 4, Row: 2}))
	is.Equal(g.Turn(), 1)
	is.Equal(len(g.History()), 0)
	is.Equal(cp.Turn(), 2)
}
