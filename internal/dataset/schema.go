package dataset

import (
	"sort"
	"strings"
)

// Columns tried first when locating the college-name column, in order.
var nameFieldPriority = []string{"college_name", "name", "institute", "college", "institution"}

func isReservedColumn(c string) bool {
	switch c {
	case "quota", "quota_name", "category", "state":
		return true
	}
	return strings.HasPrefix(c, "cr_")
}

// ResolveNameField picks the column holding college names: the first match
// from the priority list, else the first column that is neither a round
// column nor a reserved field, else the first column outright.
func ResolveNameField(columns []string) (string, bool) {
	if len(columns) == 0 {
		return "", false
	}
	for _, want := range nameFieldPriority {
		for _, c := range columns {
			if c == want {
				return c, true
			}
		}
	}
	for _, c := range columns {
		if !isReservedColumn(c) {
			return c, true
		}
	}
	return columns[0], true
}

// Normalize builds a Table from raw rows and their source column order.
// Every source funnels through here, so name resolution and value decoding
// happen exactly once per load.
func Normalize(region string, columns []string, rows []map[string]interface{}) (*Table, error) {
	if len(columns) == 0 {
		return nil, &SchemaError{Source: region, Reason: "no columns"}
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Source: region, Reason: "no records"}
	}
	nameField, ok := ResolveNameField(columns)
	if !ok {
		return nil, &SchemaError{Source: region, Reason: "no usable name column"}
	}

	rounds := roundColumns(columns)
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			CollegeName: DecodeName(row[nameField]),
			Region:      region,
			Quota:       quotaValue(row),
			Category:    DecodeName(row["category"]),
			Cutoffs:     make(map[RoundID]int, len(rounds)),
		}
		if s := DecodeName(row["state"]); s != "" {
			rec.Region = s
		}
		for _, round := range rounds {
			if rank, ok := DecodeRank(row[round.Column()]); ok {
				rec.Cutoffs[round] = rank
			}
		}
		records = append(records, rec)
	}

	return &Table{
		Region:    region,
		NameField: nameField,
		Columns:   columns,
		Rounds:    rounds,
		Records:   records,
	}, nil
}

func roundColumns(columns []string) []RoundID {
	out := make([]RoundID, 0, len(columns))
	for _, c := range columns {
		if r, ok := ParseRound(c); ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// quotaValue prefers the flat quota_name column, falling back to the
// possibly nested quota column.
func quotaValue(row map[string]interface{}) string {
	if v, ok := row["quota_name"]; ok {
		if s := DecodeName(v); s != "" {
			return s
		}
	}
	return DecodeName(row["quota"])
}
