package rank_test

import (
	"math"
	"testing"

	"github.com/Thebinary110/Free-L/internal/rank"
)

func TestEstimateOutOfRange(t *testing.T) {
	// A simple curve keeps the boundary values distinguishable from the
	// out-of-range sentinel.
	c, err := rank.NewCurve([]rank.Point{{Score: 0, Rank: 1000}, {Score: 720, Rank: 1}})
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	e := rank.NewEstimator(c)
	for _, score := range []float64{-1, -0.5, 720.5, 721, math.NaN()} {
		if got := e.Estimate(score, "open"); got != rank.WorstRank {
			t.Fatalf("Estimate(%v) = %d, want sentinel %d", score, got, rank.WorstRank)
		}
	}
	// Boundary scores are inside the domain.
	if got := e.Estimate(0, "open"); got != 1000 {
		t.Fatalf("Estimate(0, open) = %d, want the curve floor", got)
	}
	if got := e.Estimate(720, "open"); got != 1 {
		t.Fatalf("Estimate(720, open) = %d, want 1", got)
	}
}

func TestEstimateCategoryFactor(t *testing.T) {
	e := rank.NewEstimator(nil)
	factors := map[string]float64{"ews": 1.1, "obc-ncl": 1.3, "sc": 1.6, "st": 1.9}
	for _, score := range []float64{0, 105, 305.5, 480, 615, 650.25, 720} {
		open := e.Estimate(score, "open")
		for cat, f := range factors {
			want := int(float64(open) * f)
			if got := e.Estimate(score, cat); got != want {
				t.Fatalf("Estimate(%v, %s) = %d, want %d", score, cat, got, want)
			}
		}
	}
}

func TestEstimateMonotonic(t *testing.T) {
	e := rank.NewEstimator(nil)
	prev := e.Estimate(0, "open")
	for s := 1; s <= 720; s++ {
		cur := e.Estimate(float64(s), "open")
		if cur > prev {
			t.Fatalf("estimated rank rose from %d to %d at score %d", prev, cur, s)
		}
		prev = cur
	}
}

func TestEstimateCategoryHandling(t *testing.T) {
	e := rank.NewEstimator(nil)
	open := e.Estimate(600, "open")
	if got := e.Estimate(600, "general"); got != open {
		t.Fatalf("unknown category = %d, want open estimate %d", got, open)
	}
	if got := e.Estimate(600, ""); got != open {
		t.Fatalf("empty category = %d, want open estimate %d", got, open)
	}
	if got, want := e.Estimate(600, "SC"), e.Estimate(600, "sc"); got != want {
		t.Fatalf("category match must ignore case: %d vs %d", got, want)
	}
}
