package dataset

import (
	"context"
	"database/sql"
	"sort"
	"strings"
)

func init() {
	RegisterSource("sqlite", func(ctx context.Context, dsn string) (Source, error) {
		return NewSQLSource(ctx, DriverSQLite, dsn)
	})
	RegisterSource("postgres", func(ctx context.Context, dsn string) (Source, error) {
		return NewSQLSource(ctx, DriverPostgres, dsn)
	})
}

// tablePrefix names the per-region admission tables the converter writes.
const tablePrefix = "admissions_"

// sqlSource reads one admissions_<region> table per region. Columns are
// discovered from the result set, so SQL tables and JSON files funnel
// through the same normalization path.
type sqlSource struct {
	db     *sql.DB
	driver Driver
}

func NewSQLSource(ctx context.Context, driver Driver, dsn string) (Source, error) {
	db, err := openDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return &sqlSource{db: db, driver: driver}, nil
}

func (s *sqlSource) Close() error { return s.db.Close() }

func (s *sqlSource) Regions(ctx context.Context) ([]string, error) {
	var q string
	switch s.driver {
	case DriverPostgres:
		q = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_name LIKE 'admissions_%'`
	default:
		q = `SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'admissions_%'`
	}
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(name, tablePrefix) {
			continue
		}
		out = append(out, strings.TrimPrefix(name, tablePrefix))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *sqlSource) Load(ctx context.Context, region string) (*Table, error) {
	known, err := s.Regions(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ReplaceAll(strings.TrimSpace(region), " ", "_")
	found := ""
	for _, r := range known {
		if strings.EqualFold(r, want) {
			found = r
			break
		}
	}
	if found == "" {
		return nil, &RegionNotFoundError{Region: region}
	}

	// found comes from the catalog query above, never from caller input.
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+tablePrefix+found)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	var raw []map[string]interface{}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, c := range columns {
			row[c] = cellValue(vals[i])
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return Normalize(found, columns, raw)
}

// cellValue lifts driver-specific scan types into shapes the decoder handles.
func cellValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
