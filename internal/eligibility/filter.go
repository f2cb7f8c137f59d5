package eligibility

import (
	"sort"
	"strings"

	"github.com/Thebinary110/Free-L/internal/dataset"
)

// Query is the ANDed constraint set for one eligibility search. Zero values
// are unset: empty strings match everything, zero ranks disable the bound.
type Query struct {
	Region        string
	Quota         string
	Category      string
	Round         dataset.RoundID
	MinRank       int
	MaxRank       int
	EstimatedRank int
	NameSearch    string

	// Page/PageSize window the sorted result; Limit truncates it to the
	// best N. Both zero means the full sequence.
	Page     int
	PageSize int
	Limit    int
}

// Result is one filtered view. Total counts every match; Records holds the
// requested window in ascending closing-rank order.
type Result struct {
	Total   int
	Records []dataset.Record
}

// InvalidQueryError reports a query that cannot be evaluated against any
// table.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string { return "invalid query: " + e.Reason }

// Filter applies a query to a loaded table. The table is shared and never
// mutated: matches are collected into a fresh slice, sorted ascending by the
// selected round's closing rank (ties keep load order), then windowed.
func Filter(t *dataset.Table, q Query) (Result, error) {
	if q.Round.IsZero() {
		return Result{}, &InvalidQueryError{Reason: "round is required"}
	}
	if q.Page < 0 || q.PageSize < 0 || q.Limit < 0 {
		return Result{}, &InvalidQueryError{Reason: "page values must not be negative"}
	}
	if !t.HasRound(q.Round) {
		return Result{}, &dataset.ColumnNotFoundError{Column: q.Round.Column()}
	}

	matched := make([]dataset.Record, 0, len(t.Records))
	for _, rec := range t.Records {
		cutoff, ok := rec.Cutoff(q.Round)
		if !ok {
			continue
		}
		if !matchesRegion(rec.Region, q.Region) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(rec.Category, q.Category) {
			continue
		}
		if q.Quota != "" && !strings.EqualFold(rec.Quota, q.Quota) {
			continue
		}
		if q.MinRank > 0 && cutoff < q.MinRank {
			continue
		}
		if q.MaxRank > 0 && cutoff > q.MaxRank {
			continue
		}
		// Eligible when the round's closing rank admits the estimate:
		// the cutoff must be at or beyond (numerically >=) the rank.
		if q.EstimatedRank > 0 && cutoff < q.EstimatedRank {
			continue
		}
		if q.NameSearch != "" && !strings.Contains(strings.ToLower(rec.CollegeName), strings.ToLower(q.NameSearch)) {
			continue
		}
		matched = append(matched, rec)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ri, _ := matched[i].Cutoff(q.Round)
		rj, _ := matched[j].Cutoff(q.Round)
		return ri < rj
	})

	total := len(matched)
	window := matched
	if q.Limit > 0 && q.Limit < len(window) {
		window = window[:q.Limit]
	}
	if q.PageSize > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * q.PageSize
		if start >= len(window) {
			window = window[:0]
		} else if end := start + q.PageSize; end < len(window) {
			window = window[start:end]
		} else {
			window = window[start:]
		}
	}
	return Result{Total: total, Records: window}, nil
}

func matchesRegion(recordRegion, queryRegion string) bool {
	if queryRegion == "" || dataset.IsAllRegions(queryRegion) {
		return true
	}
	return strings.EqualFold(recordRegion, strings.TrimSpace(queryRegion))
}
