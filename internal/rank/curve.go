package rank

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// Point pins an exam score to the all-India rank it historically produced.
type Point struct {
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Curve is a reference score-to-rank table. Points are strictly increasing
// in score; ranks between points interpolate linearly. Built once at
// startup, then read-only.
type Curve struct {
	points []Point
}

func NewCurve(points []Point) (*Curve, error) {
	if len(points) == 0 {
		return nil, errors.New("reference curve: no points")
	}
	for i := 1; i < len(points); i++ {
		if points[i].Score <= points[i-1].Score {
			return nil, fmt.Errorf("reference curve: scores must be strictly increasing (point %d)", i)
		}
	}
	return &Curve{points: append([]Point(nil), points...)}, nil
}

// LoadCurve reads a curve from a JSON file holding an array of
// {"score": s, "rank": r} points.
func LoadCurve(path string) (*Curve, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pts []Point
	if err := json.Unmarshal(data, &pts); err != nil {
		return nil, fmt.Errorf("reference curve %s: %v", path, err)
	}
	return NewCurve(pts)
}

// RankFor maps a score to an interpolated rank. Scores beyond the first or
// last point clamp to that point's rank; no extrapolation.
func (c *Curve) RankFor(score float64) float64 {
	pts := c.points
	if score <= pts[0].Score {
		return float64(pts[0].Rank)
	}
	if last := pts[len(pts)-1]; score >= last.Score {
		return float64(last.Rank)
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Score >= score })
	lo, hi := pts[i-1], pts[i]
	t := (score - lo.Score) / (hi.Score - lo.Score)
	return float64(lo.Rank) + t*float64(hi.Rank-lo.Rank)
}

// defaultPoints approximates the published score-to-rank tables of recent
// admission years.
var defaultPoints = []Point{
	{0, 2000000},
	{50, 1990000},
	{100, 1960000},
	{150, 1900000},
	{200, 1700000},
	{250, 1400000},
	{300, 1100000},
	{350, 850000},
	{400, 600000},
	{450, 400000},
	{500, 235000},
	{520, 185000},
	{540, 140000},
	{560, 100000},
	{580, 70000},
	{600, 46000},
	{610, 37000},
	{620, 29000},
	{630, 22000},
	{640, 16000},
	{650, 11000},
	{660, 7500},
	{670, 4500},
	{680, 2500},
	{690, 1200},
	{700, 500},
	{710, 100},
	{720, 1},
}

// DefaultCurve returns the built-in reference curve, used when no curve
// file is configured.
func DefaultCurve() *Curve {
	return &Curve{points: defaultPoints}
}
