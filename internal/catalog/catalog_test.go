package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Thebinary110/Free-L/internal/catalog"
	"github.com/Thebinary110/Free-L/internal/dataset"
)

type fakeSource struct {
	regions []string
	tables  map[string]*dataset.Table
	loads   map[string]int
}

func newFakeSource() *fakeSource {
	r1 := dataset.RoundID{Year: 2023, Seq: 1}
	r2 := dataset.RoundID{Year: 2023, Seq: 2}
	return &fakeSource{
		regions: []string{"delhi", "punjab"},
		loads:   map[string]int{},
		tables: map[string]*dataset.Table{
			"delhi": {
				Region:    "delhi",
				NameField: "college_name",
				Columns:   []string{"college_name", "category", "cr_2023_1"},
				Rounds:    []dataset.RoundID{r1},
				Records: []dataset.Record{{
					CollegeName: "AIIMS Delhi",
					Region:      "delhi",
					Category:    "open",
					Cutoffs:     map[dataset.RoundID]int{r1: 57},
				}},
			},
			"punjab": {
				Region:    "punjab",
				NameField: "college_name",
				Columns:   []string{"college_name", "category", "cr_2023_1", "cr_2023_2"},
				Rounds:    []dataset.RoundID{r1, r2},
				Records: []dataset.Record{{
					CollegeName: "GMC Amritsar",
					Region:      "punjab",
					Category:    "open",
					Cutoffs:     map[dataset.RoundID]int{r1: 900, r2: 1400},
				}},
			},
		},
	}
}

func (f *fakeSource) Regions(context.Context) ([]string, error) {
	return append([]string(nil), f.regions...), nil
}

func (f *fakeSource) Load(_ context.Context, region string) (*dataset.Table, error) {
	key := strings.ToLower(strings.TrimSpace(region))
	f.loads[key]++
	t, ok := f.tables[key]
	if !ok {
		return nil, &dataset.RegionNotFoundError{Region: region}
	}
	return t, nil
}

func TestCatalogMemoizesTables(t *testing.T) {
	src := newFakeSource()
	c := catalog.New(src)
	ctx := context.Background()

	for _, region := range []string{"delhi", "Delhi", "DELHI"} {
		if _, err := c.Table(ctx, region); err != nil {
			t.Fatalf("Table(%s): %v", region, err)
		}
	}
	if src.loads["delhi"] != 1 {
		t.Fatalf("delhi loaded %d times, want 1", src.loads["delhi"])
	}
}

func TestCatalogMetadata(t *testing.T) {
	src := newFakeSource()
	c := catalog.New(src)
	ctx := context.Background()

	m, err := c.Metadata(ctx, "punjab")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if m.Region != "punjab" || m.NameField != "college_name" {
		t.Fatalf("metadata = %+v", m)
	}
	if len(m.Rounds) != 2 || m.Rounds[0].Column != "cr_2023_1" || m.Rounds[1].Label != "2023 Round 2" {
		t.Fatalf("rounds = %v", m.Rounds)
	}
	if len(m.Categories) != 1 || m.Categories[0] != "open" {
		t.Fatalf("categories = %v", m.Categories)
	}

	if _, err := c.Metadata(ctx, "punjab"); err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if src.loads["punjab"] != 1 {
		t.Fatalf("punjab loaded %d times, want 1", src.loads["punjab"])
	}
}

func TestCatalogUnknownRegion(t *testing.T) {
	c := catalog.New(newFakeSource())
	_, err := c.Table(context.Background(), "goa")
	var notFound *dataset.RegionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected RegionNotFoundError, got %v", err)
	}
	if _, err := c.Table(context.Background(), "   "); !errors.As(err, &notFound) {
		t.Fatalf("blank region must not resolve, got %v", err)
	}
}

func TestCatalogMergedAllRegions(t *testing.T) {
	src := newFakeSource()
	c := catalog.New(src)
	ctx := context.Background()

	// One region already cached: the merge must reuse it.
	if _, err := c.Table(ctx, "delhi"); err != nil {
		t.Fatalf("Table(delhi): %v", err)
	}
	all, err := c.Table(ctx, "All Regions")
	if err != nil {
		t.Fatalf("Table(all): %v", err)
	}
	if all.Region != dataset.AllRegions {
		t.Fatalf("region = %q", all.Region)
	}
	if len(all.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(all.Records))
	}
	if len(all.Rounds) != 2 {
		t.Fatalf("rounds = %v", all.Rounds)
	}
	if all.NameField != "college_name" {
		t.Fatalf("name field = %q", all.NameField)
	}
	if src.loads["delhi"] != 1 || src.loads["punjab"] != 1 {
		t.Fatalf("loads = %v, want one per region", src.loads)
	}

	// The merged view itself is cached under its canonical key.
	if _, err := c.Table(ctx, "all"); err != nil {
		t.Fatalf("Table(all): %v", err)
	}
	if src.loads["delhi"] != 1 || src.loads["punjab"] != 1 {
		t.Fatalf("merged view reloaded regions: %v", src.loads)
	}
}

func TestCatalogRegionsPartialIndex(t *testing.T) {
	src := newFakeSource()
	c := catalog.New(src)
	ctx := context.Background()

	// Summarizing the merged view indexes only the all-regions entry; the
	// region list must still come from the source.
	if _, err := c.Metadata(ctx, dataset.AllRegions); err != nil {
		t.Fatalf("Metadata(all): %v", err)
	}
	regions, err := c.Regions(ctx)
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(regions) != 2 || regions[0] != "delhi" || regions[1] != "punjab" {
		t.Fatalf("regions after merged metadata = %v, want [delhi punjab]", regions)
	}

	// Same with a single region summarized: a partial index must not
	// shadow the regions it has not seen.
	c = catalog.New(newFakeSource())
	if _, err := c.Metadata(ctx, "delhi"); err != nil {
		t.Fatalf("Metadata(delhi): %v", err)
	}
	regions, err = c.Regions(ctx)
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("regions after one summary = %v, want both", regions)
	}
}

func TestCatalogRefresh(t *testing.T) {
	src := newFakeSource()
	cachePath := filepath.Join(t.TempDir(), "metadata.json")
	c := catalog.New(src, catalog.WithCacheFile(cachePath))
	ctx := context.Background()

	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if src.loads["delhi"] != 1 || src.loads["punjab"] != 1 {
		t.Fatalf("loads after refresh = %v", src.loads)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	// Refresh drops memoized tables, so the next access reloads.
	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if src.loads["delhi"] != 2 {
		t.Fatalf("delhi loads = %d, want 2 after second refresh", src.loads["delhi"])
	}
}

func TestCatalogPrimeFromCacheFile(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "metadata.json")
	ctx := context.Background()

	first := catalog.New(newFakeSource(), catalog.WithCacheFile(cachePath))
	if err := first.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	src := newFakeSource()
	c := catalog.New(src, catalog.WithCacheFile(cachePath))
	if err := c.Prime(ctx); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if len(src.loads) != 0 {
		t.Fatalf("prime from cache must not load datasets: %v", src.loads)
	}

	regions, err := c.Regions(ctx)
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(regions) != 2 || regions[0] != "delhi" || regions[1] != "punjab" {
		t.Fatalf("regions = %v", regions)
	}
	m, err := c.Metadata(ctx, "delhi")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if m.Region != "delhi" || len(src.loads) != 0 {
		t.Fatalf("metadata should come from the cache file (loads=%v)", src.loads)
	}
}

func TestCatalogPrimeWithoutCacheFile(t *testing.T) {
	src := newFakeSource()
	c := catalog.New(src)
	if err := c.Prime(context.Background()); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if src.loads["delhi"] != 1 || src.loads["punjab"] != 1 {
		t.Fatalf("prime without cache must scan: %v", src.loads)
	}
}
