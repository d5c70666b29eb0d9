package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// str returns the first key whose value is a non-empty string, trimmed.
func str(raw Raw, keys ...string) *string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok {
			s := strings.TrimSpace(v)
			if s != "" {
				return &s
			}
		}
	}
	return nil
}

// float returns the first key that coerces to a float64. Accepted shapes:
// native numbers, json.Number, numeric strings (currency symbols, commas and
// a trailing % are stripped), and Yahoo-style {"raw": n, "fmt": "..."}
// wrappers. Values that fail coercion are skipped.
func float(raw Raw, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := toFloat(raw[k]); ok {
			return &f
		}
	}
	return nil
}

// integer is float with truncation to int.
func integer(raw Raw, keys ...string) *int {
	for _, k := range keys {
		if f, ok := toFloat(raw[k]); ok {
			n := int(f)
			return &n
		}
	}
	return nil
}

// i64 is float with truncation to int64, used for id references.
func i64(raw Raw, keys ...string) *int64 {
	for _, k := range keys {
		if f, ok := toFloat(raw[k]); ok {
			n := int64(f)
			return &n
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		s = strings.NewReplacer(",", "", "$", "", "₹", "", "%", "").Replace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case map[string]any:
		// Yahoo wraps numbers as {"raw": 123, "fmt": "123"}.
		if inner, ok := x["raw"]; ok {
			return toFloat(inner)
		}
	}
	return 0, false
}

// boolVal reads a boolean flag, tolerating string forms.
func boolVal(raw Raw, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	return false
}
