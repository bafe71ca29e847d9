// Package player holds the decision sources that can drive a game: the
// search engine, a random mover and a scripted list of moves.
package player

import (
	"context"
	"errors"

	"github.com/othello-go/reversi/board"
)

var ErrNoMoreMoves = errors.New("scripted player ran out of moves")

// Player chooses moves for one color. ChooseMove is only called when the
// player has at least one legal move on b.
type Player interface {
	Name() string
	Color() board.Color
	ChooseMove(ctx context.Context, b board.Board, turn int) (board.Pos, error)
}
