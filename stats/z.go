package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// WinRate is the score of a series of games where a win counts 1, a tie
// 0.5 and a loss 0.
type WinRate struct {
	Wins, Ties, Losses int
}

func (w WinRate) Games() int {
	return w.Wins + w.Ties + w.Losses
}

// Rate returns the mean score per game.
func (w WinRate) Rate() float64 {
	n := w.Games()
	if n == 0 {
		return 0
	}
	return (float64(w.Wins) + 0.5*float64(w.Ties)) / float64(n)
}

// Margin returns the half-width of the normal-approximation confidence
// interval of Rate at the given confidence (0 to 100 percent).
func (w WinRate) Margin(confidence float64) float64 {
	n := w.Games()
	if n == 0 {
		return 0
	}
	p := w.Rate()
	return ZVal(confidence) * math.Sqrt(p*(1-p)/float64(n))
}
