package eligibility_test

import (
	"errors"
	"testing"

	"github.com/Thebinary110/Free-L/internal/dataset"
	"github.com/Thebinary110/Free-L/internal/eligibility"
)

var (
	r1 = dataset.RoundID{Year: 2023, Seq: 1}
	r2 = dataset.RoundID{Year: 2023, Seq: 2}
)

func college(name string, cutoffs map[dataset.RoundID]int) dataset.Record {
	return dataset.Record{
		CollegeName: name,
		Region:      "punjab",
		Quota:       "State Quota",
		Category:    "open",
		Cutoffs:     cutoffs,
	}
}

func testTable(records ...dataset.Record) *dataset.Table {
	return &dataset.Table{
		Region:    "punjab",
		NameField: "college_name",
		Columns:   []string{"college_name", "quota_name", "category", "cr_2023_1", "cr_2023_2"},
		Rounds:    []dataset.RoundID{r1, r2},
		Records:   records,
	}
}

func names(recs []dataset.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.CollegeName)
	}
	return out
}

func TestFilterEstimatedRankDirection(t *testing.T) {
	tbl := testTable(
		college("A", map[dataset.RoundID]int{r1: 500, r2: 800}),
		college("B", map[dataset.RoundID]int{r1: 200}),
	)

	// A round the candidate fits: only the college whose closing rank
	// reaches the estimate stays in.
	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r2, EstimatedRank: 600})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 1 || res.Records[0].CollegeName != "A" {
		t.Fatalf("round 2 at rank 600: got %v, want only A", names(res.Records))
	}

	// Same direction within one round: a cutoff below the estimate is out.
	res, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, EstimatedRank: 300})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 1 || res.Records[0].CollegeName != "A" {
		t.Fatalf("round 1 at rank 300: got %v, want only A", names(res.Records))
	}
}

func TestFilterExcludesAbsentCutoffs(t *testing.T) {
	tbl := testTable(
		college("A", map[dataset.RoundID]int{r1: 500, r2: 800}),
		college("B", map[dataset.RoundID]int{r1: 200}),
	)
	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r2})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for _, rec := range res.Records {
		if _, ok := rec.Cutoff(r2); !ok {
			t.Fatalf("record %q has no round 2 cutoff", rec.CollegeName)
		}
	}
	if res.Total != 1 {
		t.Fatalf("total = %d, want 1", res.Total)
	}
}

func TestFilterRankWindow(t *testing.T) {
	tbl := testTable(
		college("Low", map[dataset.RoundID]int{r1: 50}),
		college("Mid", map[dataset.RoundID]int{r1: 150}),
		college("High", map[dataset.RoundID]int{r1: 400}),
	)
	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r1, MinRank: 100, MaxRank: 300})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 1 || res.Records[0].CollegeName != "Mid" {
		t.Fatalf("got %v, want only Mid", names(res.Records))
	}
}

func TestFilterNameSearch(t *testing.T) {
	tbl := testTable(
		college("Govt Medical College", map[dataset.RoundID]int{r1: 900}),
		college("Private Medical College", map[dataset.RoundID]int{r1: 1200}),
	)
	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r1, NameSearch: "govt"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 1 || res.Records[0].CollegeName != "Govt Medical College" {
		t.Fatalf("got %v, want only the Govt college", names(res.Records))
	}
}

func TestFilterOrdering(t *testing.T) {
	first := college("First Tie", map[dataset.RoundID]int{r1: 300})
	second := college("Second Tie", map[dataset.RoundID]int{r1: 300})
	tbl := testTable(
		college("Loose", map[dataset.RoundID]int{r1: 4000}),
		first,
		college("Tight", map[dataset.RoundID]int{r1: 57}),
		second,
	)
	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r1})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	got := names(res.Records)
	want := []string{"Tight", "First Tie", "Second Tie", "Loose"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(res.Records); i++ {
		prev, _ := res.Records[i-1].Cutoff(r1)
		cur, _ := res.Records[i].Cutoff(r1)
		if prev > cur {
			t.Fatalf("closing ranks not ascending: %d before %d", prev, cur)
		}
	}
}

func TestFilterCategoryQuotaRegion(t *testing.T) {
	sc := college("SC Seat", map[dataset.RoundID]int{r1: 2000})
	sc.Category = "sc"
	aiq := college("AIQ Seat", map[dataset.RoundID]int{r1: 800})
	aiq.Quota = "All India"
	tbl := testTable(
		college("Open State Seat", map[dataset.RoundID]int{r1: 900}),
		sc,
		aiq,
	)

	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r1, Category: "SC"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 1 || res.Records[0].CollegeName != "SC Seat" {
		t.Fatalf("category filter: got %v", names(res.Records))
	}

	res, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, Quota: "all india"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 1 || res.Records[0].CollegeName != "AIQ Seat" {
		t.Fatalf("quota filter: got %v", names(res.Records))
	}

	res, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, Region: "PUNJAB"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("region match: total = %d, want 3", res.Total)
	}

	res, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, Region: "All Regions"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("all-regions bypass: total = %d, want 3", res.Total)
	}

	res, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, Region: "goa"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 0 {
		t.Fatalf("mismatched region: total = %d, want 0", res.Total)
	}
}

func TestFilterPagination(t *testing.T) {
	records := make([]dataset.Record, 0, 7)
	for i := 1; i <= 7; i++ {
		records = append(records, college(string(rune('A'+i-1)), map[dataset.RoundID]int{r1: i * 100}))
	}
	tbl := testTable(records...)

	q := eligibility.Query{Round: r1, Page: 2, PageSize: 3}
	res, err := eligibility.Filter(tbl, q)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 7 {
		t.Fatalf("total must ignore the window: %d", res.Total)
	}
	got := names(res.Records)
	want := []string{"D", "E", "F"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("page 2 = %v, want %v", got, want)
	}

	q.Page = 4
	res, err = eligibility.Filter(tbl, q)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 7 || len(res.Records) != 0 {
		t.Fatalf("past-the-end page: total %d, records %v", res.Total, names(res.Records))
	}
}

func TestFilterLimit(t *testing.T) {
	tbl := testTable(
		college("Third", map[dataset.RoundID]int{r1: 300}),
		college("First", map[dataset.RoundID]int{r1: 100}),
		college("Second", map[dataset.RoundID]int{r1: 200}),
	)
	res, err := eligibility.Filter(tbl, eligibility.Query{Round: r1, Limit: 2})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("total = %d, want 3", res.Total)
	}
	got := names(res.Records)
	if len(got) != 2 || got[0] != "First" || got[1] != "Second" {
		t.Fatalf("limit window = %v", got)
	}
}

func TestFilterUnknownRound(t *testing.T) {
	tbl := testTable(college("A", map[dataset.RoundID]int{r1: 500}))
	_, err := eligibility.Filter(tbl, eligibility.Query{Round: dataset.RoundID{Year: 2024, Seq: 9}})
	var colErr *dataset.ColumnNotFoundError
	if !errors.As(err, &colErr) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
	if colErr.Column != "cr_2024_9" {
		t.Fatalf("column = %q", colErr.Column)
	}
}

func TestFilterInvalidQuery(t *testing.T) {
	tbl := testTable(college("A", map[dataset.RoundID]int{r1: 500}))
	var invalid *eligibility.InvalidQueryError

	_, err := eligibility.Filter(tbl, eligibility.Query{})
	if !errors.As(err, &invalid) {
		t.Fatalf("zero round: expected InvalidQueryError, got %v", err)
	}
	_, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, Page: -1})
	if !errors.As(err, &invalid) {
		t.Fatalf("negative page: expected InvalidQueryError, got %v", err)
	}
	_, err = eligibility.Filter(tbl, eligibility.Query{Round: r1, Limit: -3})
	if !errors.As(err, &invalid) {
		t.Fatalf("negative limit: expected InvalidQueryError, got %v", err)
	}
}
