package dataset

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Source files converted from upstream counselling dumps often carry nested
// values: a college cell may be the plain name, a JSON object, or the string
// repr of a dict ({'name': ..., 'closing_rank': ...}). DecodeName and
// DecodeRank unwrap all three shapes.

// DecodeName extracts a display name from a raw cell. Unparseable values
// fall back to the raw string; this never fails.
func DecodeName(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(x)
		if strings.HasPrefix(s, "{") {
			if m, ok := parseDictLiteral(s); ok {
				if name, ok := m["name"]; ok {
					return strings.TrimSpace(cast.ToString(name))
				}
			}
		}
		return s
	case map[string]interface{}:
		if name, ok := x["name"]; ok {
			return strings.TrimSpace(cast.ToString(name))
		}
		return fmt.Sprintf("%v", x)
	default:
		return cast.ToString(v)
	}
}

// DecodeRank extracts a closing rank from a raw cell. Ranks are positive
// integers; anything absent, non-numeric, or non-positive decodes to
// (0, false), meaning the round published no rank for this row.
func DecodeRank(v interface{}) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		if strings.HasPrefix(s, "{") {
			m, ok := parseDictLiteral(s)
			if !ok {
				return 0, false
			}
			return rankField(m)
		}
		return coerceRank(s)
	case map[string]interface{}:
		return rankField(x)
	default:
		return coerceRank(v)
	}
}

func rankField(m map[string]interface{}) (int, bool) {
	v, ok := m["closing_rank"]
	if !ok {
		return 0, false
	}
	return coerceRank(v)
}

func coerceRank(v interface{}) (int, bool) {
	n, err := cast.ToIntE(v)
	if err != nil {
		f, ferr := cast.ToFloat64E(v)
		if ferr != nil {
			return 0, false
		}
		n = int(f)
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

func parseDictLiteral(s string) (map[string]interface{}, bool) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err == nil {
		return m, true
	}
	if err := json.Unmarshal([]byte(pyDictToJSON(s)), &m); err == nil {
		return m, true
	}
	return nil, false
}

// pyDictToJSON rewrites the common Python dict repr into JSON: single quotes
// around keys and values, None/True/False in value position. Anything it
// cannot repair simply fails the follow-up parse.
func pyDictToJSON(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	for _, kv := range [][2]string{{"None", "null"}, {"True", "true"}, {"False", "false"}} {
		s = strings.ReplaceAll(s, ": "+kv[0], ": "+kv[1])
		s = strings.ReplaceAll(s, ":"+kv[0], ":"+kv[1])
	}
	return s
}
