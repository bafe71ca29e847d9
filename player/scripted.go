package player

import (
	"context"
	"fmt"

	"github.com/othello-go/reversi/board"
)

// Scripted replays a fixed list of moves, in order. The shell uses it to
// feed human moves to a game runner.
type Scripted struct {
	name  string
	color board.Color
	moves []board.Pos
}

func NewScripted(name string, c board.Color, moves ...board.Pos) *Scripted {
	return &Scripted{name: name, color: c, moves: moves}
}

// Push appends moves to the script.
func (s *Scripted) Push(moves ...board.Pos) {
	s.moves = append(s.moves, moves...)
}

func (s *Scripted) Name() string {
	return s.name
}

func (s *Scripted) Color() board.Color {
	return s.color
}

// Remaining is the number of moves left in the script.
func (s *Scripted) Remaining() int {
	return len(s.moves)
}

func (s *Scripted) ChooseMove(ctx context.Context, b board.Board, turn int) (board.Pos, error) {
	if len(s.moves) == 0 {
		return board.Pos{}, ErrNoMoreMoves
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	if !m.OnBoard() || !b.IsLegal(m, s.color) {
		return m, fmt.Errorf("scripted move %v is not legal on turn %d", m, turn)
	}
	return m, nil
}
