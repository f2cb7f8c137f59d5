package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RoundID identifies one admission round, parsed from column names of the
// form cr_<year>_<round> (e.g. "cr_2023_2").
type RoundID struct {
	Year int
	Seq  int
}

// ParseRound parses a closing-rank column name into a RoundID.
func ParseRound(column string) (RoundID, bool) {
	parts := strings.Split(strings.TrimSpace(column), "_")
	if len(parts) != 3 || parts[0] != "cr" {
		return RoundID{}, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year <= 0 {
		return RoundID{}, false
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq <= 0 {
		return RoundID{}, false
	}
	return RoundID{Year: year, Seq: seq}, true
}

// Column returns the dataset column name for the round.
func (r RoundID) Column() string { return fmt.Sprintf("cr_%d_%d", r.Year, r.Seq) }

// Label returns the human-readable form, e.g. "2023 Round 2".
func (r RoundID) Label() string { return fmt.Sprintf("%d Round %d", r.Year, r.Seq) }

func (r RoundID) IsZero() bool { return r.Year == 0 && r.Seq == 0 }

// Less orders rounds by year, then sequence within the year.
func (r RoundID) Less(o RoundID) bool {
	if r.Year != o.Year {
		return r.Year < o.Year
	}
	return r.Seq < o.Seq
}

// Record is one college/quota/category row of a normalized admission table.
// Cutoffs holds the closing rank per round; a missing key means the round
// published no closing rank for this row (never zero).
type Record struct {
	CollegeName string
	Region      string
	Quota       string
	Category    string
	Cutoffs     map[RoundID]int
}

// Cutoff returns the closing rank for a round, if published.
func (r Record) Cutoff(round RoundID) (int, bool) {
	v, ok := r.Cutoffs[round]
	return v, ok
}

// MarshalJSON flattens the record back to the wire shape clients expect:
// fixed columns plus one cr_<year>_<round> key per published cutoff.
func (r Record) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"college_name": r.CollegeName,
		"state":        r.Region,
	}
	if r.Quota != "" {
		m["quota_name"] = r.Quota
	}
	if r.Category != "" {
		m["category"] = r.Category
	}
	for round, rank := range r.Cutoffs {
		m[round.Column()] = rank
	}
	return json.Marshal(m)
}

// Table is a fully normalized admission dataset for one region
// (or the merged all-regions view). Loaded once, then read-only.
type Table struct {
	Region    string
	NameField string
	Columns   []string
	Rounds    []RoundID
	Records   []Record
}

// HasRound reports whether the round column exists in this table.
func (t *Table) HasRound(round RoundID) bool {
	for _, r := range t.Rounds {
		if r == round {
			return true
		}
	}
	return false
}
