package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Raw is an untyped row as returned by the backing store. Field names vary between
// schema generations, so callers look values up through Resolve with alias lists.
type Raw map[string]any

// Resolve returns the first value among keys that is present, non-nil and not the
// empty string. Keys containing a dot walk nested objects ("metadata.speakers").
// It returns nil when no key matches.
func Resolve(r Raw, keys ...string) any {
	if r == nil {
		return nil
	}
	for _, key := range keys {
		v, ok := lookup(r, key)
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v
	}
	return nil
}

func lookup(r Raw, key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var cur any = map[string]any(r)
	for _, part := range strings.Split(key, ".") {
		obj, ok := Object(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ResolveString resolves keys and renders the match as a string, or returns def.
func ResolveString(r Raw, def string, keys ...string) string {
	s := String(Resolve(r, keys...))
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// ResolveFloat resolves keys and parses the match as a number, or returns def.
func ResolveFloat(r Raw, def float64, keys ...string) float64 {
	return Float(Resolve(r, keys...), def)
}

// String renders scalar values as strings. Composite values yield "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Float parses numbers and numeric strings. Anything else, including NaN and
// infinities, yields def.
func Float(v any, def float64) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// HasNumber reports whether v can be read as a finite number.
func HasNumber(v any) bool {
	return !math.IsNaN(Float(v, math.NaN()))
}

// Object returns v as a Raw when it is a JSON object.
func Object(v any) (Raw, bool) {
	switch t := v.(type) {
	case Raw:
		return t, true
	case map[string]any:
		return Raw(t), true
	default:
		return nil, false
	}
}

// Array returns v as a slice when it is a JSON array.
func Array(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []Raw:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// Objects keeps the object entries of an array and drops everything else.
func Objects(items []any) []Raw {
	out := make([]Raw, 0, len(items))
	for _, item := range items {
		if obj, ok := Object(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Decode unwraps JSON-encoded strings. Non-string values are returned unchanged;
// strings that fail to decode yield nil.
func Decode(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
