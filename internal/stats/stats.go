package stats

import (
	"sort"

	"github.com/Thebinary110/Free-L/internal/dataset"
)

// Bucket counts how many records closed at one exact rank.
type Bucket struct {
	ClosingRank int `json:"closing_rank"`
	Count       int `json:"count"`
}

// Summary describes a filtered record set for one round. MeanCutoff and
// MinCutoff are nil when the set is empty.
type Summary struct {
	Count        int              `json:"count"`
	MeanCutoff   *float64         `json:"mean_closing_rank,omitempty"`
	MinCutoff    *int             `json:"min_closing_rank,omitempty"`
	Distribution []Bucket         `json:"distribution"`
	Top          []dataset.Record `json:"top_colleges"`
}

// DefaultTopN bounds the best-colleges list in a summary.
const DefaultTopN = 10

// Summarize aggregates records over one round: count, mean and minimum
// closing rank, the exact-value distribution in ascending rank order, and
// the top N records in ascending closing-rank order. topN <= 0 selects
// DefaultTopN. Records without the round's cutoff are skipped.
func Summarize(records []dataset.Record, round dataset.RoundID, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}
	var (
		sum    int
		lowest int
		counts = map[int]int{}
		kept   = make([]dataset.Record, 0, len(records))
	)
	for _, rec := range records {
		cutoff, ok := rec.Cutoff(round)
		if !ok {
			continue
		}
		kept = append(kept, rec)
		sum += cutoff
		if len(kept) == 1 || cutoff < lowest {
			lowest = cutoff
		}
		counts[cutoff]++
	}

	out := Summary{
		Count:        len(kept),
		Distribution: []Bucket{},
		Top:          []dataset.Record{},
	}
	if len(kept) == 0 {
		return out
	}

	mean := float64(sum) / float64(len(kept))
	out.MeanCutoff = &mean
	out.MinCutoff = &lowest

	ranks := make([]int, 0, len(counts))
	for r := range counts {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	for _, r := range ranks {
		out.Distribution = append(out.Distribution, Bucket{ClosingRank: r, Count: counts[r]})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ri, _ := kept[i].Cutoff(round)
		rj, _ := kept[j].Cutoff(round)
		return ri < rj
	})
	if len(kept) > topN {
		kept = kept[:topN]
	}
	out.Top = kept
	return out
}
