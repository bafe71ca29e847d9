package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		margins  []int
		mean     float64
		stdev    float64
		min, max float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{-14, 35, -64, 2, 0}, -8.2, 36.00277767061869, -64, 35},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{1, 1}, 1, 0, 1, 1},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, m := range c.margins {
			s.Push(float64(m))
		}
		is.Equal(s.Count(), len(c.margins))
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Min(), c.min)
		is.Equal(s.Max(), c.max)
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
}

func TestWinRate(t *testing.T) {
	is := is.New(t)
	w := WinRate{Wins: 6, Ties: 2, Losses: 2}
	is.Equal(w.Games(), 10)
	is.True(FuzzyEqual(w.Rate(), 0.7))
	is.True(FuzzyEqual(w.Margin(95), 1.959963984540054*0.14491376746189438))
	is.Equal(WinRate{}.Rate(), 0.0)
	is.Equal(WinRate{}.Margin(95), 0.0)
}
