package player

import (
	"context"
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/othello-go/reversi/board"
)

// Random plays a uniformly random legal move.
type Random struct {
	color board.Color
	rng   *frand.RNG
}

// NewRandom creates a random mover. A non-zero seed makes its choices
// reproducible.
func NewRandom(c board.Color, seed uint64) *Random {
	r := &Random{color: c}
	if seed != 0 {
		key := make([]byte, 32)
		binary.LittleEndian.PutUint64(key, seed)
		r.rng = frand.NewCustom(key, 64, 12)
	}
	return r
}

func (r *Random) Name() string {
	return "random"
}

func (r *Random) Color() board.Color {
	return r.color
}

func (r *Random) ChooseMove(ctx context.Context, b board.Board, turn int) (board.Pos, error) {
	moves := b.AvailableMoves(r.color)
	if len(moves) == 0 {
		return board.Pos{}, ErrNoMoreMoves
	}
	if r.rng != nil {
		return moves[r.rng.Intn(len(moves))], nil
	}
	return moves[frand.Intn(len(moves))], nil
}
