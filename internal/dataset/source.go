package dataset

import (
	"context"
	"fmt"
	"strings"
)

// Source loads normalized admission tables from one backing store. Tables
// are read-only once returned; callers may share them across goroutines.
type Source interface {
	// Regions lists the regions the source can load, sorted.
	Regions(ctx context.Context) ([]string, error)
	// Load normalizes one region's table. Unknown regions return
	// *RegionNotFoundError.
	Load(ctx context.Context, region string) (*Table, error)
}

// OpenFunc opens a Source from a driver-specific DSN (a directory for the
// json driver, a database DSN otherwise).
type OpenFunc func(ctx context.Context, dsn string) (Source, error)

// Registry of source drivers. Call RegisterSource from init() in the
// driver files.
var sources = map[string]OpenFunc{}

func RegisterSource(driver string, fn OpenFunc) { sources[driver] = fn }

// OpenSource opens the source for a configured driver name.
func OpenSource(ctx context.Context, driver, dsn string) (Source, error) {
	fn, ok := sources[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return nil, fmt.Errorf("unsupported dataset driver: %s", driver)
	}
	return fn(ctx, dsn)
}

// IsAllRegions reports whether a region value names the merged all-regions
// view rather than a single region.
func IsAllRegions(region string) bool {
	switch strings.ToLower(strings.TrimSpace(region)) {
	case "all", "all regions", "all_regions", "all states", "all_states":
		return true
	}
	return false
}

// AllRegions is the canonical key for the merged view.
const AllRegions = "all"
