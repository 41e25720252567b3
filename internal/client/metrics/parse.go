package metrics

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/shopspring/decimal"
)

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// lookup evaluates a jsonpath expression against a record. Unknown keys and
// malformed records yield nil.
func lookup(rec models.Snapshot, path string) any {
	if rec == nil {
		return nil
	}
	v, err := jsonpath.Get(path, map[string]any(rec))
	if err != nil {
		return nil
	}
	return v
}

// field is the path of a top-level key.
func field(name string) string { return "$." + name }

// Int reads the leading integer of v the way the dashboard always has:
// "12.7" is 12, "42abc" is 42, anything unreadable or missing is 0.
func Int(v any) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x).Truncate(0)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		return Int(x.String())
	case string:
		m := intPrefix.FindString(strings.TrimSpace(x))
		if m == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(m)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// Float reads the leading decimal number of v; unreadable or missing is 0.
func Float(v any) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		return Float(x.String())
	case string:
		m := floatPrefix.FindString(strings.TrimSpace(x))
		if m == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(m)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// present reports whether v carries a value worth showing.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case []any:
		return len(x) > 0
	}
	return true
}

// Text renders a scalar as it would appear in a template string.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, Text(e))
		}
		return strings.Join(parts, ",")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// items turns a list-valued (or comma separated string) field into strings.
func items(v any) []string {
	var out []string
	switch x := v.(type) {
	case []any:
		for _, e := range x {
			if s := strings.TrimSpace(Text(e)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		out = splitList(x)
	}
	return out
}

// splitList strips surrounding double quotes and splits on commas.
func splitList(s string) []string {
	s = strings.Trim(s, `"`)
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clamp(d decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	switch {
	case d.LessThan(decimal.Zero):
		return decimal.Zero
	case d.GreaterThan(hundred):
		return hundred
	}
	return d
}
