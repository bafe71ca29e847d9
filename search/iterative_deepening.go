package search

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/othello-go/reversi/board"
)

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// iterativelyDeepen searches b at increasing depths. After the first
// iteration each search starts with a narrow window around the previous
// value and widens it to one side if the result falls outside.
func (s *Solver) iterativelyDeepen(ctx context.Context, b *board.Board, moves []board.Pos) (board.Pos, error) {
	best := moves[0]
	s.iterBest = best

	var prev float64
	completed := false
	for depth := min(s.startDepth, s.maxDepth); depth <= s.maxDepth; depth++ {
		if ctx.Err() != nil {
			s.stats.Interrupted = true
			break
		}
		s.iterBest = best
		var (
			val float64
			err error
		)
		if !completed || math.IsInf(prev, 0) {
			val, err = s.alphaBeta(ctx, b, s.self, 0, depth, negInf, posInf)
		} else {
			lo, hi := prev-s.threshold, prev+s.threshold
			val, err = s.alphaBeta(ctx, b, s.self, 0, depth, lo, hi)
			switch {
			case err != nil:
			case val <= lo:
				s.stats.FailLow++
				log.Debug().Int("depth", depth).Float64("value", val).Msg("aspiration-fail-low")
				val, err = s.alphaBeta(ctx, b, s.self, 0, depth, negInf, val)
			case val >= hi:
				s.stats.FailHigh++
				log.Debug().Int("depth", depth).Float64("value", val).Msg("aspiration-fail-high")
				val, err = s.alphaBeta(ctx, b, s.self, 0, depth, val, posInf)
			}
		}
		if err != nil {
			if interrupted(err) {
				s.stats.Interrupted = true
				break
			}
			return best, err
		}
		best = s.iterBest
		prev = val
		completed = true
		s.stats.Depth = depth
		s.stats.Value = val
		log.Debug().Int("depth", depth).Float64("value", val).
			Str("best", best.String()).
			Uint64("nodes", s.nodes.Load()).
			Msg("deepening-iteratively")
	}
	return best, nil
}
