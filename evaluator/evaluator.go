// Package evaluator scores Othello positions for the search engine.
package evaluator

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/othello-go/reversi/board"
)

// positional is the static square value table, indexed [row][col].
var positional = [board.Size][board.Size]float64{
	{45, -11, 4, -1, -1, 4, -11, 45},
	{-11, -16, -1, -3, -3, -1, -16, -11},
	{4, -1, 2, -1, -1, 2, -1, 4},
	{-1, -3, -1, 0, 0, -1, -3, -1},
	{-1, -3, -1, 0, 0, -1, -3, -1},
	{4, -1, 2, -1, -1, 2, -1, 4},
	{-11, -16, -1, -3, -3, -1, -16, -11},
	{45, -11, 4, -1, -1, 4, -11, 45},
}

// Weights are the coefficients of the three evaluation features.
type Weights struct {
	Positional float64
	Stability  float64
	Mobility   float64
}

// DefaultWeights are the untuned weights of the evaluator.
var DefaultWeights = Weights{Positional: 3, Stability: 5, Mobility: 1}

// Evaluator computes a static score for a board from one color's point of
// view. Its weights are fixed when it is built, so Evaluate is a pure
// function of the board and the color.
type Evaluator struct {
	weights Weights
}

type options struct {
	weights Weights
	jitter  bool
	seed    uint64
}

// Option configures an Evaluator.
type Option func(*options)

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithJitter perturbs every weight once, at construction, by (x-y)/2 with
// x and y uniform in [0,1). The draw is reproducible for a given seed.
// A zero seed draws from the system entropy source.
func WithJitter(seed uint64) Option {
	return func(o *options) {
		o.jitter = true
		o.seed = seed
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	o := options{weights: DefaultWeights}
	for _, opt := range opts {
		opt(&o)
	}
	w := o.weights
	if o.jitter {
		rng := newRNG(o.seed)
		w.Positional += jitter(rng)
		w.Stability += jitter(rng)
		w.Mobility += jitter(rng)
	}
	return &Evaluator{weights: w}
}

func newRNG(seed uint64) *frand.RNG {
	key := make([]byte, 32)
	if seed == 0 {
		frand.Read(key)
	} else {
		binary.LittleEndian.PutUint64(key, seed)
	}
	return frand.NewCustom(key, 64, 12)
}

func jitter(rng *frand.RNG) float64 {
	return (rng.Float64() - rng.Float64()) / 2
}

// Weights returns the weights in effect, jitter included.
func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Evaluate returns the score of b for c. Higher is better for c.
func (e *Evaluator) Evaluate(b *board.Board, c board.Color) float64 {
	opp := c.Opposite()
	stability := float64(ConfirmedStones(b, c) - ConfirmedStones(b, opp))
	mobility := float64(Mobility(b, c))
	return e.weights.Positional*Positional(b, c) +
		e.weights.Stability*stability +
		e.weights.Mobility*mobility
}

// Positional sums the square table over the board: +value for c's stones,
// -value for the opponent's.
func Positional(b *board.Board, c board.Color) float64 {
	opp := c.Opposite()
	sum := 0.0
	for r := 0; r < board.Size; r++ {
		for col := 0; col < board.Size; col++ {
			switch b[r][col] {
			case c:
				sum += positional[r][col]
			case opp:
				sum -= positional[r][col]
			}
		}
	}
	return sum
}

// Mobility is the number of legal moves for c.
func Mobility(b *board.Board, c board.Color) int {
	return len(b.AvailableMoves(c))
}

// ConfirmedStones counts c's edge stones that are joined to an end of
// their edge line by an unbroken run of c's stones. Stones on the left and
// right edges (corners included) follow their column; other stones on the
// top and bottom edges follow their row. Each square is counted once, so
// a full edge ring scores 28 rather than one point per edge line index.
func ConfirmedStones(b *board.Board, c board.Color) int {
	count := 0
	last := board.Size - 1
	for r := 0; r < board.Size; r++ {
		for col := 0; col < board.Size; col++ {
			onSide := col == 0 || col == last
			onEnd := r == 0 || r == last
			if !onSide && !onEnd {
				continue
			}
			if isConfirmed(b, board.Pos{Col: col, Row: r}, c) {
				count++
			}
		}
	}
	return count
}

func isConfirmed(b *board.Board, p board.Pos, c board.Color) bool {
	if b[p.Row][p.Col] != c {
		return false
	}
	last := board.Size - 1
	if p.Col == 0 || p.Col == last {
		up, down := true, true
		for r := 0; r < p.Row; r++ {
			if b[r][p.Col] != c {
				up = false
				break
			}
		}
		for r := p.Row + 1; r < board.Size; r++ {
			if b[r][p.Col] != c {
				down = false
				break
			}
		}
		return up || down
	}
	if p.Row == 0 || p.Row == last {
		left, right := true, true
		for col := 0; col < p.Col; col++ {
			if b[p.Row][col] != c {
				left = false
				break
			}
		}
		for col := p.Col + 1; col < board.Size; col++ {
			if b[p.Row][col] != c {
				right = false
				break
			}
		}
		return left || right
	}
	return false
}
