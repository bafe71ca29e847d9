// Package search chooses moves for an automated Othello player with an
// iteratively deepened alpha-beta search.
package search

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/evaluator"
)

const (
	DefaultMaxDepth            = 6
	DefaultStartDepth          = 3
	DefaultOrderingPlies       = 3
	DefaultAspirationThreshold = 0.5
	DefaultTTFraction          = 0.01
)

var (
	ErrNoLegalMoves = errors.New("no legal moves for the searching color")
	ErrBusy         = errors.New("solver is already choosing a move")
)

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

// Solver searches for the best move of one color. It keeps no state between
// move decisions apart from its configuration. A Solver must not be used by
// more than one goroutine at a time.
type Solver struct {
	self  board.Color
	eval  *evaluator.Evaluator
	table *TranspositionTable

	maxDepth      int
	startDepth    int
	orderingPlies int
	threshold     float64
	ttFraction    float64
	maxTime       time.Duration

	busy  atomic.Bool
	nodes atomic.Uint64
	stats Stats

	// root move of the iteration in progress.
	iterBest board.Pos
}

// Option configures a Solver.
type Option func(*Solver)

func WithMaxDepth(d int) Option {
	return func(s *Solver) { s.maxDepth = d }
}

func WithStartDepth(d int) Option {
	return func(s *Solver) { s.startDepth = d }
}

func WithOrderingPlies(p int) Option {
	return func(s *Solver) { s.orderingPlies = p }
}

// WithAspirationThreshold sets the half-width of the window around the
// previous iteration's value.
func WithAspirationThreshold(t float64) Option {
	return func(s *Solver) { s.threshold = t }
}

func WithEvaluator(e *evaluator.Evaluator) Option {
	return func(s *Solver) { s.eval = e }
}

// WithTTFraction sets the fraction of system memory given to the
// transposition table.
func WithTTFraction(f float64) Option {
	return func(s *Solver) { s.ttFraction = f }
}

// WithMaxTime bounds the wall-clock time of a single move decision. Zero
// means no bound.
func WithMaxTime(d time.Duration) Option {
	return func(s *Solver) { s.maxTime = d }
}

// NewSolver creates a solver that plays self.
func NewSolver(self board.Color, opts ...Option) *Solver {
	s := &Solver{
		self:          self,
		maxDepth:      DefaultMaxDepth,
		startDepth:    DefaultStartDepth,
		orderingPlies: DefaultOrderingPlies,
		threshold:     DefaultAspirationThreshold,
		ttFraction:    DefaultTTFraction,
		table:         &TranspositionTable{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.eval == nil {
		s.eval = evaluator.New()
	}
	if s.maxDepth < 1 {
		s.maxDepth = 1
	}
	if s.startDepth < 1 {
		s.startDepth = 1
	}
	return s
}

// Color is the color this solver plays.
func (s *Solver) Color() board.Color {
	return s.self
}

func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

func (s *Solver) SetMaxDepth(d int) {
	if d < 1 {
		d = 1
	}
	s.maxDepth = d
}

func (s *Solver) Evaluator() *evaluator.Evaluator {
	return s.eval
}

// Stats returns the counters of the last move decision.
func (s *Solver) Stats() Stats {
	return s.stats
}

// ChooseMove returns the best move for the solver's color on b. The turn
// number is only used for logging. If ctx is cancelled or the time budget
// runs out, the move of the deepest completed iteration is returned.
func (s *Solver) ChooseMove(ctx context.Context, b board.Board, turn int) (best board.Pos, err error) {
	if !s.busy.CompareAndSwap(false, true) {
		return board.Pos{}, ErrBusy
	}
	defer s.busy.Store(false)
	defer board.Recover(&err)

	moves := b.AvailableMoves(s.self)
	if len(moves) == 0 {
		return board.Pos{}, ErrNoLegalMoves
	}
	if s.maxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.maxTime)
		defer cancel()
	}

	tstart := time.Now()
	s.table.Reset(s.ttFraction)
	s.stats = Stats{}
	s.nodes.Store(0)
	log.Debug().Int("turn", turn).Str("color", s.self.String()).
		Int("max-depth", s.maxDepth).Msg("choose-move-config")

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() (err error) {
		defer close(done)
		defer board.Recover(&err)
		best, err = s.iterativelyDeepen(ctx, &b, moves)
		return err
	})

	err = g.Wait()

	s.stats.Nodes = s.nodes.Load()
	s.stats.Elapsed = time.Since(tstart)
	log.Debug().
		Int("turn", turn).
		Str("move", best.String()).
		Float64("value", s.stats.Value).
		Int("depth", s.stats.Depth).
		Uint64("nodes", s.stats.Nodes).
		Uint64("alpha-cuts", s.stats.AlphaCuts).
		Uint64("beta-cuts", s.stats.BetaCuts).
		Uint64("tt-cuts", s.stats.TTCuts).
		Uint64("fail-low", s.stats.FailLow).
		Uint64("fail-high", s.stats.FailHigh).
		Bool("interrupted", s.stats.Interrupted).
		Uint64("ttable-created", s.table.created.Load()).
		Uint64("ttable-lookups", s.table.lookups.Load()).
		Uint64("ttable-hits", s.table.hits.Load()).
		Uint64("ttable-collisions", s.table.collisions.Load()).
		Float64("time-elapsed-sec", s.stats.Elapsed.Seconds()).
		Msg("choose-move-returning")
	if err != nil {
		return board.Pos{}, err
	}
	return best, nil
}
