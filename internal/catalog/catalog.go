package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/Thebinary110/Free-L/internal/dataset"
)

// Catalog fronts a dataset source with per-region memoization: loaded
// tables and derived metadata are cached by region key until Refresh. The
// cache is latency only; a cold entry and a warm entry answer identically.
type Catalog struct {
	src       dataset.Source
	logger    *slog.Logger
	cacheFile string

	mu     sync.RWMutex
	tables map[string]*dataset.Table
	meta   map[string]dataset.Metadata
	primed bool // meta covers every region, set by Prime and Refresh
}

type Option func(*Catalog)

// WithCacheFile persists the metadata index to path on Refresh and lets
// Prime restore it without a full dataset scan.
func WithCacheFile(path string) Option { return func(c *Catalog) { c.cacheFile = path } }

// WithLogger routes load and refresh events to a structured logger.
func WithLogger(l *slog.Logger) Option { return func(c *Catalog) { c.logger = l } }

func New(src dataset.Source, opts ...Option) *Catalog {
	c := &Catalog{
		src:    src,
		logger: slog.Default(),
		tables: map[string]*dataset.Table{},
		meta:   map[string]dataset.Metadata{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Regions lists the known regions sorted, from the metadata index once
// Prime or Refresh has filled it and from the source otherwise. Ad-hoc
// Metadata calls leave the index partial, so those never pin the list.
// The merged all-regions view is not listed.
func (c *Catalog) Regions(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.primed {
		out := make([]string, 0, len(c.meta))
		for key, m := range c.meta {
			if key == dataset.AllRegions {
				continue
			}
			out = append(out, m.Region)
		}
		c.mu.RUnlock()
		sort.Strings(out)
		return out, nil
	}
	c.mu.RUnlock()
	return c.src.Regions(ctx)
}

// Table returns the loaded table for a region, loading and caching it on
// first use. The reserved all-regions value yields the merged view.
func (c *Catalog) Table(ctx context.Context, region string) (*dataset.Table, error) {
	key := cacheKey(region)
	if key == "" {
		return nil, &dataset.RegionNotFoundError{Region: region}
	}
	c.mu.RLock()
	t, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[key]; ok {
		return t, nil
	}
	var (
		tbl *dataset.Table
		err error
	)
	if key == dataset.AllRegions {
		tbl, err = c.mergedLocked(ctx)
	} else {
		tbl, err = c.src.Load(ctx, region)
	}
	if err != nil {
		return nil, err
	}
	c.tables[key] = tbl
	c.logger.Info("dataset loaded", "region", tbl.Region, "records", len(tbl.Records), "rounds", len(tbl.Rounds))
	return tbl, nil
}

// Metadata returns the cached summary for a region, deriving it from the
// table on first use.
func (c *Catalog) Metadata(ctx context.Context, region string) (dataset.Metadata, error) {
	key := cacheKey(region)
	if key == "" {
		return dataset.Metadata{}, &dataset.RegionNotFoundError{Region: region}
	}
	c.mu.RLock()
	m, ok := c.meta[key]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}
	t, err := c.Table(ctx, region)
	if err != nil {
		return dataset.Metadata{}, err
	}
	m = dataset.Summarize(t)
	c.mu.Lock()
	c.meta[key] = m
	c.mu.Unlock()
	return m, nil
}

// AllMetadata summarizes every region, in region order.
func (c *Catalog) AllMetadata(ctx context.Context) ([]dataset.Metadata, error) {
	regions, err := c.Regions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Metadata, 0, len(regions))
	for _, r := range regions {
		m, err := c.Metadata(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Refresh is the invalidation entry point: it drops every cached table and
// summary, rescans the source, and rewrites the metadata cache file when
// one is configured.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.tables = map[string]*dataset.Table{}
	c.meta = map[string]dataset.Metadata{}
	c.primed = false
	c.mu.Unlock()

	metas, err := c.AllMetadata(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.primed = true
	c.mu.Unlock()
	if c.cacheFile != "" {
		if err := writeCacheFile(c.cacheFile, metas); err != nil {
			return err
		}
	}
	c.logger.Info("metadata refreshed", "regions", len(metas))
	return nil
}

// Prime warms the metadata index at startup: from the cache file when it
// parses, otherwise by a full refresh. The cache file is derived state, so
// a stale or missing one only costs a rescan.
func (c *Catalog) Prime(ctx context.Context) error {
	if c.cacheFile != "" {
		if metas, err := readCacheFile(c.cacheFile); err == nil && len(metas) > 0 {
			c.mu.Lock()
			for _, m := range metas {
				c.meta[cacheKey(m.Region)] = m
			}
			c.primed = true
			c.mu.Unlock()
			c.logger.Info("metadata cache loaded", "path", c.cacheFile, "regions", len(metas))
			return nil
		}
	}
	return c.Refresh(ctx)
}

// mergedLocked concatenates every region's records under the all-regions
// key. Caller holds the write lock.
func (c *Catalog) mergedLocked(ctx context.Context) (*dataset.Table, error) {
	regions, err := c.src.Regions(ctx)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, &dataset.SchemaError{Source: dataset.AllRegions, Reason: "no datasets"}
	}

	merged := &dataset.Table{Region: dataset.AllRegions}
	seenCols := map[string]struct{}{}
	roundSet := map[dataset.RoundID]struct{}{}
	for _, r := range regions {
		key := cacheKey(r)
		t, ok := c.tables[key]
		if !ok {
			t, err = c.src.Load(ctx, r)
			if err != nil {
				return nil, err
			}
			c.tables[key] = t
		}
		for _, col := range t.Columns {
			if _, ok := seenCols[col]; !ok {
				seenCols[col] = struct{}{}
				merged.Columns = append(merged.Columns, col)
			}
		}
		for _, rd := range t.Rounds {
			roundSet[rd] = struct{}{}
		}
		merged.Records = append(merged.Records, t.Records...)
	}
	for rd := range roundSet {
		merged.Rounds = append(merged.Rounds, rd)
	}
	sort.Slice(merged.Rounds, func(i, j int) bool { return merged.Rounds[i].Less(merged.Rounds[j]) })

	name, ok := dataset.ResolveNameField(merged.Columns)
	if !ok {
		return nil, &dataset.SchemaError{Source: dataset.AllRegions, Reason: "no columns"}
	}
	merged.NameField = name
	return merged, nil
}

func cacheKey(region string) string {
	key := strings.ToLower(strings.TrimSpace(region))
	if dataset.IsAllRegions(key) {
		return dataset.AllRegions
	}
	return key
}

func writeCacheFile(path string, metas []dataset.Metadata) error {
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readCacheFile(path string) ([]dataset.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var metas []dataset.Metadata
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}
