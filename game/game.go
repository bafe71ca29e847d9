// Package game encapsulates the turn mechanics of an Othello game: whose
// turn it is, passes, the end of the game and its history.
// Note: a Game doesn't care how it is played. Engines, random movers and
// humans drive it from outside this package.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/othello-go/reversi/board"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("illegal move")
)

type PlayState int

const (
	Playing PlayState = iota
	GameOver
)

func (p PlayState) String() string {
	if p == GameOver {
		return "game over"
	}
	return "playing"
}

// Event is one entry of the game history: a move or a forced pass.
type Event struct {
	Turn  int
	Color board.Color
	Pass  bool
	Pos   board.Pos
}

// String returns the square of the move in algebraic notation, or "pass".
func (e Event) String() string {
	if e.Pass {
		return "pass"
	}
	return e.Pos.String()
}

// Game is the state of a single game. The turn counter starts at 1; Black
// moves on odd turns and White on even turns. A pass uses up a turn.
type Game struct {
	board   board.Board
	turn    int
	playing PlayState
	history []Event

	// the position the game was started from, for PlayToTurn.
	start     board.Board
	startTurn int
}

// NewGame starts a game from the initial position.
func NewGame() *Game {
	return NewFromBoard(board.New(), 1)
}

// NewFromBoard starts a game from an arbitrary position at the given turn.
// A forced pass at the start is applied right away.
func NewFromBoard(b board.Board, turn int) *Game {
	if turn < 1 {
		turn = 1
	}
	g := &Game{board: b, turn: turn, start: b, startTurn: turn}
	g.settle()
	return g
}

// ColorForTurn returns the color that moves on turn.
func ColorForTurn(turn int) board.Color {
	if turn%2 == 1 {
		return board.Black
	}
	return board.White
}

// settle passes for the side to move while it has no move and the other
// side does, and ends the game when neither can move.
func (g *Game) settle() {
	if g.board.GameOver() {
		g.playing = GameOver
		log.Debug().Int("turn", g.turn).Msg("game-over")
		return
	}
	g.playing = Playing
	c := g.OnTurn()
	if !g.board.HasMoves(c) {
		log.Debug().Int("turn", g.turn).Str("color", c.String()).Msg("passed")
		g.history = append(g.history, Event{Turn: g.turn, Color: c, Pass: true})
		g.turn++
	}
}

// Play places a stone for the color on turn at p.
func (g *Game) Play(p board.Pos) error {
	if g.playing == GameOver {
		return ErrGameOver
	}
	c := g.OnTurn()
	if !p.OnBoard() {
		return fmt.Errorf("%w: %v is off the board", ErrIllegalMove, p)
	}
	if !g.board.IsLegal(p, c) {
		return fmt.Errorf("%w: %v for %v", ErrIllegalMove, p, c)
	}
	g.board = g.board.ApplyMove(p, c)
	g.history = append(g.history, Event{Turn: g.turn, Color: c, Pos: p})
	g.turn++
	g.settle()
	return nil
}

// Board returns a copy of the current position.
func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) Turn() int {
	return g.turn
}

// OnTurn is the color to move.
func (g *Game) OnTurn() board.Color {
	return ColorForTurn(g.turn)
}

func (g *Game) Playing() PlayState {
	return g.playing
}

// History returns the moves and passes made so far.
func (g *Game) History() []Event {
	return append([]Event(nil), g.history...)
}

// Score returns the stone counts of Black and White.
func (g *Game) Score() (black, white int) {
	return g.board.CountStones(board.Black), g.board.CountStones(board.White)
}

// Winner returns the color with more stones, or Empty on a tie. It is only
// meaningful once the game is over.
func (g *Game) Winner() board.Color {
	black, white := g.Score()
	switch {
	case black > white:
		return board.Black
	case white > black:
		return board.White
	}
	return board.Empty
}

// Copy returns an independent copy of the game.
func (g *Game) Copy() *Game {
	cp := *g
	cp.history = g.History()
	return &cp
}

// PlayToTurn rebuilds the game from its starting position up to (but not
// including) turnnum, replaying the history. It is used to take moves back.
func (g *Game) PlayToTurn(turnnum int) error {
	history := g.history
	fresh := NewFromBoard(g.start, g.startTurn)
	for _, evt := range history {
		if fresh.turn >= turnnum || fresh.playing == GameOver {
			break
		}
		if evt.Pass {
			// passes are applied by Play itself.
			continue
		}
		if err := fresh.Play(evt.Pos); err != nil {
			return err
		}
	}
	*g = *fresh
	return nil
}

// Start returns the position and turn the game started from.
func (g *Game) Start() (board.Board, int) {
	return g.start, g.startTurn
}
