package lookup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a single loosely-typed field from a provider response.
// The zero Value is an absent field; every accessor is safe on it.
type Value struct {
	raw     any
	present bool
}

// Present reports whether the key existed in the response, even with a null value.
func (v Value) Present() bool {
	return v.present
}

// Get returns a field of a nested object. Non-object values yield an absent Value.
func (v Value) Get(key string) Value {
	m, ok := v.raw.(map[string]any)
	if !ok {
		return Value{}
	}
	return fieldOf(m, key)
}

// IsObject reports whether the value is a nested JSON object.
func (v Value) IsObject() bool {
	_, ok := v.raw.(map[string]any)
	return ok
}

// Text returns a display string for the value and whether it is worth showing.
// Null, empty, zero and false values are not shown. An object is shown through
// its "name" member when it has one.
func (v Value) Text() (string, bool) {
	s := textOf(v.raw)
	return s, s != ""
}

// Truthy reports the two-state reading of the value (for flags like "valid").
func (v Value) Truthy() bool {
	switch x := v.raw.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "0", "false", "no", "n", "invalid", "null":
			return false
		}
		return true
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	default:
		return textOf(x) != ""
	}
}

func textOf(raw any) string {
	switch x := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		if x {
			return "Yes"
		}
		return ""
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return numberText(x.String())
	case map[string]any:
		return textOf(x["name"])
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := textOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return numberText(fmt.Sprint(x))
	}
}

// numberText hides zero numbers, mirroring how empty strings are hidden.
func numberText(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
		return ""
	}
	return s
}

func fieldOf(m map[string]any, key string) Value {
	raw, ok := m[key]
	if !ok {
		return Value{}
	}
	return Value{raw: raw, present: true}
}
