package search

import (
	"github.com/othello-go/reversi/board"
)

type scoredMove struct {
	pos   board.Pos
	score float64
}

// orderMoves sorts the moves of c so that the likely best ones are searched
// first: descending scores when c is the solver's color, ascending
// otherwise. Scores come from the transposition table when the child is
// there, else from the evaluator (remembered as a temp entry).
func (s *Solver) orderMoves(b *board.Board, moves []board.Pos, c board.Color) []board.Pos {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		child := b.ApplyMove(m, c)
		key := child.Key()
		var score float64
		if e, ok := s.table.lookup(key); ok {
			score = e.Score
		} else {
			score = s.eval.Evaluate(&child, s.self)
			s.stats.OrderingEvals++
			s.table.storeTemp(key, score)
		}
		scored[i] = scoredMove{pos: m, score: score}
	}
	scored = partitionSort(scored, c == s.self, &s.stats.OrderingComparisons)
	out := make([]board.Pos, 0, len(scored))
	for _, sm := range scored {
		out = append(out, sm.pos)
	}
	return out
}

// partitionSort is a three-way quicksort around the first element. Moves
// with equal scores keep their relative order.
func partitionSort(moves []scoredMove, descending bool, comparisons *uint64) []scoredMove {
	if len(moves) <= 1 {
		return moves
	}
	pivot := moves[0].score
	var first, equal, last []scoredMove
	for _, m := range moves {
		*comparisons++
		switch {
		case m.score == pivot:
			equal = append(equal, m)
		case (m.score > pivot) == descending:
			first = append(first, m)
		default:
			last = append(last, m)
		}
	}
	sorted := partitionSort(first, descending, comparisons)
	sorted = append(sorted, equal...)
	return append(sorted, partitionSort(last, descending, comparisons)...)
}
