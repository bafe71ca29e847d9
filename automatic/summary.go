package automatic

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/stats"
)

const confidence = 95

// Summary aggregates the results of a match from player 1's point of view.
type Summary struct {
	Player1 string
	Player2 string
	Results []GameResult

	Player1Score stats.WinRate
	// BlackScore scores the games for whoever played Black.
	BlackScore stats.WinRate
	Margins    stats.Statistic
	Turns      stats.Statistic
}

func score(w *stats.WinRate, margin int) {
	switch {
	case margin > 0:
		w.Wins++
	case margin < 0:
		w.Losses++
	default:
		w.Ties++
	}
}

// Summarize computes the summary of results, sorted by game index.
func Summarize(player1, player2 string, results []GameResult) *Summary {
	results = slices.Clone(results)
	slices.SortFunc(results, func(a, b GameResult) int {
		return a.Index - b.Index
	})
	s := &Summary{Player1: player1, Player2: player2, Results: results}
	for _, r := range results {
		score(&s.Player1Score, r.Margin())
		blackMargin := r.Margin()
		if r.Player1Side == board.White {
			blackMargin = -blackMargin
		}
		score(&s.BlackScore, blackMargin)
		s.Margins.Push(float64(r.Margin()))
		s.Turns.Push(float64(r.Turns))
	}
	return s
}

// Histogram buckets player 1's disc margins.
func (s *Summary) Histogram(bins int) histogram.Histogram {
	margins := lo.Map(s.Results, func(r GameResult, _ int) float64 {
		return float64(r.Margin())
	})
	return histogram.Hist(bins, margins)
}

func (s *Summary) String() string {
	n := len(s.Results)
	if n == 0 {
		return "No games played.\n"
	}
	asBlack := lo.CountBy(s.Results, func(r GameResult) bool {
		return r.Player1Side == board.Black
	})
	str := fmt.Sprintf("Games played: %d\n", n)
	str += fmt.Sprintf("%v wins: %d, ties: %d, losses: %d\n", s.Player1,
		s.Player1Score.Wins, s.Player1Score.Ties, s.Player1Score.Losses)
	str += fmt.Sprintf("%v score: %.3f%% ± %.3f%% (%d%% confidence)\n", s.Player1,
		100*s.Player1Score.Rate(), 100*s.Player1Score.Margin(confidence), confidence)
	str += fmt.Sprintf("%v played black: %d\n", s.Player1, asBlack)
	str += fmt.Sprintf("Black's score: %.3f%%\n", 100*s.BlackScore.Rate())
	str += fmt.Sprintf("%v mean disc margin: %.3f ± %.3f  Stdev: %.3f  Range: [%v, %v]\n",
		s.Player1, s.Margins.Mean(), s.Margins.ConfidenceInterval(confidence),
		s.Margins.Stdev(), s.Margins.Min(), s.Margins.Max())
	str += fmt.Sprintf("Mean game length: %.2f turns\n", s.Turns.Mean())
	// the histogram needs a non-empty range of values.
	if n > 1 && s.Margins.Min() < s.Margins.Max() {
		var buf bytes.Buffer
		if err := histogram.Fprint(&buf, s.Histogram(min(n, 10)), histogram.Linear(40)); err == nil {
			str += "Disc margin histogram:\n" + buf.String()
		}
	}
	return str
}
