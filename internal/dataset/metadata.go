package dataset

import "sort"

// RoundInfo is the externally visible form of a round: the raw column name
// plus its display label.
type RoundInfo struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

// Metadata summarizes the shape of one region's table: which categories,
// quotas and rounds it carries and which column names the colleges. Derived
// state only; rebuild from the table at any time.
type Metadata struct {
	Region     string      `json:"state"`
	NameField  string      `json:"name_field"`
	Columns    []string    `json:"columns"`
	Categories []string    `json:"categories"`
	Quotas     []string    `json:"quotas"`
	Rounds     []RoundInfo `json:"rounds"`
}

// Summarize derives metadata from a table. Idempotent: same table in, same
// metadata out, no hidden state.
func Summarize(t *Table) Metadata {
	cats := map[string]struct{}{}
	quotas := map[string]struct{}{}
	for _, rec := range t.Records {
		if rec.Category != "" {
			cats[rec.Category] = struct{}{}
		}
		if rec.Quota != "" {
			quotas[rec.Quota] = struct{}{}
		}
	}
	rounds := make([]RoundInfo, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		rounds = append(rounds, RoundInfo{Column: r.Column(), Label: r.Label()})
	}
	return Metadata{
		Region:     t.Region,
		NameField:  t.NameField,
		Columns:    append([]string(nil), t.Columns...),
		Categories: sortedKeys(cats),
		Quotas:     sortedKeys(quotas),
		Rounds:     rounds,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
