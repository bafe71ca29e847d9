package player

import (
	"context"
	"fmt"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/search"
)

// Engine is a Player backed by the alpha-beta solver.
type Engine struct {
	name   string
	solver *search.Solver
}

func NewEngine(name string, solver *search.Solver) *Engine {
	if name == "" {
		name = fmt.Sprintf("engine-d%d", solver.MaxDepth())
	}
	return &Engine{name: name, solver: solver}
}

func (e *Engine) Name() string {
	return e.name
}

func (e *Engine) Color() board.Color {
	return e.solver.Color()
}

func (e *Engine) ChooseMove(ctx context.Context, b board.Board, turn int) (board.Pos, error) {
	return e.solver.ChooseMove(ctx, b, turn)
}

// Solver exposes the underlying solver, e.g. to read its stats.
func (e *Engine) Solver() *search.Solver {
	return e.solver
}
