package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func init() {
	RegisterSource("json", func(_ context.Context, dsn string) (Source, error) {
		return NewJSONSource(dsn)
	})
}

// jsonSource reads one JSON file per region from a flat directory. Files are
// named either state=<region>.json (converter output) or <region>.json, and
// hold a bare array of records or a {"records"|"colleges"|"data": [...]}
// wrapper.
type jsonSource struct {
	dir string
}

func NewJSONSource(dir string) (Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dataset dir %s: not a directory", dir)
	}
	return &jsonSource{dir: dir}, nil
}

func (s *jsonSource) Regions(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if region, ok := regionFromFile(e.Name()); ok {
			seen[region] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

func (s *jsonSource) Load(ctx context.Context, region string) (*Table, error) {
	path, name, err := s.find(region)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	columns, rows, err := decodeRecords(data)
	if err != nil {
		return nil, &SchemaError{Source: filepath.Base(path), Reason: err.Error()}
	}
	return Normalize(name, columns, rows)
}

// find locates the file backing a region, case-insensitively and across
// both accepted file name forms.
func (s *jsonSource) find(region string) (path, name string, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		r, ok := regionFromFile(e.Name())
		if !ok {
			continue
		}
		if strings.EqualFold(r, strings.TrimSpace(region)) {
			return filepath.Join(s.dir, e.Name()), r, nil
		}
	}
	return "", "", &RegionNotFoundError{Region: region}
}

func regionFromFile(name string) (string, bool) {
	if name == "metadata.json" || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	base := strings.TrimSuffix(name, ".json")
	base = strings.TrimPrefix(base, "state=")
	if base == "" {
		return "", false
	}
	return base, true
}

// decodeRecords parses a region file into rows plus their column order.
// Column order follows first appearance in the document, the same order a
// tabular import would produce.
func decodeRecords(data []byte) ([]string, []map[string]interface{}, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}

	var items []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, nil, err
		}
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, nil, err
		}
		found := false
		for _, key := range []string{"records", "colleges", "data"} {
			if inner, ok := wrapper[key]; ok {
				if err := json.Unmarshal(inner, &items); err != nil {
					return nil, nil, fmt.Errorf("key %q: %v", key, err)
				}
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("no records, colleges or data key")
		}
	default:
		return nil, nil, fmt.Errorf("expected array or object")
	}

	var columns []string
	seen := map[string]struct{}{}
	rows := make([]map[string]interface{}, 0, len(items))
	for i, item := range items {
		keys, err := objectKeys(item)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %v", i, err)
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
		var row map[string]interface{}
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, nil, fmt.Errorf("record %d: %v", i, err)
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

// objectKeys lists an object's keys in document order, which encoding/json
// maps discard.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not an object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
