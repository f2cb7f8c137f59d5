package rank

import (
	"math"
	"strings"
)

const (
	// MaxScore is the exam's maximum attainable mark.
	MaxScore = 720
	// WorstRank is the sentinel for scores outside the exam's score range.
	WorstRank = 2000000
)

// categoryFactor widens an open estimate into a category-adjusted one.
var categoryFactor = map[string]float64{
	"open":    1.0,
	"ews":     1.1,
	"obc-ncl": 1.3,
	"sc":      1.6,
	"st":      1.9,
}

// Factor returns the rank multiplier for an admission category.
// Unknown categories count as open.
func Factor(category string) float64 {
	if f, ok := categoryFactor[strings.ToLower(strings.TrimSpace(category))]; ok {
		return f
	}
	return 1.0
}

// Estimator turns raw exam scores into estimated all-India ranks.
type Estimator struct {
	curve *Curve
}

// NewEstimator builds an estimator over a reference curve. A nil curve
// selects the built-in default.
func NewEstimator(c *Curve) *Estimator {
	if c == nil {
		c = DefaultCurve()
	}
	return &Estimator{curve: c}
}

// Estimate maps a score to a category-adjusted rank. Scores outside
// [0, MaxScore] yield WorstRank. The open estimate is truncated to a whole
// rank before the category factor applies, and the scaled result is
// truncated again.
func (e *Estimator) Estimate(score float64, category string) int {
	if math.IsNaN(score) || score < 0 || score > MaxScore {
		return WorstRank
	}
	base := int(e.curve.RankFor(score))
	return int(float64(base) * Factor(category))
}
