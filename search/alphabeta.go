package search

import (
	"context"

	"github.com/othello-go/reversi/board"
)

// alphaBeta returns the value of b for the solver's color with c to move.
// ply counts from the root and the search stops at limit. Values are
// fail-hard: the result is clamped to [α, β].
func (s *Solver) alphaBeta(ctx context.Context, b *board.Board, c board.Color, ply, limit int,
	α, β float64) (float64, error) {

	s.nodes.Add(1)
	if ply >= limit {
		return s.eval.Evaluate(b, s.self), nil
	}

	moves := b.AvailableMoves(c)
	if len(moves) == 0 {
		opp := c.Opposite()
		oppMoves := b.AvailableMoves(opp)
		if len(oppMoves) == 0 {
			return s.terminal(b), nil
		}
		// pass: the opponent moves from the same board.
		ply++
		c = opp
		moves = oppMoves
	}

	ordering := ply <= s.orderingPlies
	if ordering {
		moves = s.orderMoves(b, moves, c)
	}
	maximizing := c == s.self
	opp := c.Opposite()

	for _, m := range moves {
		if ordering {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		child := b.ApplyMove(m, c)
		key := child.Key()
		remaining := limit - (ply + 1)

		var score float64
		if e, ok := s.table.lookup(key); ok && e.Type == NodeExact && int(e.Depth) >= remaining {
			score = e.Score
			s.stats.TTCuts++
		} else {
			v, err := s.alphaBeta(ctx, &child, opp, ply+1, limit, α, β)
			if err != nil {
				return 0, err
			}
			score = v
			s.table.store(key, remaining, score, nodeType(score, α, β))
		}

		if maximizing {
			if score > α {
				α = score
				if ply == 0 {
					s.iterBest = m
				}
			}
			if α >= β {
				s.stats.BetaCuts++
				return α, nil
			}
		} else {
			if score < β {
				β = score
			}
			if β <= α {
				s.stats.AlphaCuts++
				return β, nil
			}
		}
	}
	if maximizing {
		return α, nil
	}
	return β, nil
}

// terminal scores a board where neither side can move.
func (s *Solver) terminal(b *board.Board) float64 {
	own := b.CountStones(s.self)
	other := b.CountStones(s.self.Opposite())
	switch {
	case own > other:
		return posInf
	case own < other:
		return negInf
	}
	return s.eval.Evaluate(b, s.self)
}

func nodeType(score, α, β float64) NodeType {
	switch {
	case score <= α:
		return NodeUpper
	case score >= β:
		return NodeLower
	}
	return NodeExact
}
