// internal/value/cast.go
package value

import (
	"encoding/json"
	"sort"
	"strings"
)

func quoteJSON(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		return `""`
	}
	return string(data)
}

// Cast reads text into the most specific value it parses as: a JSON array
// or object becomes an array or object value, a numeral becomes a number,
// anything else stays text.
func Cast(text string) Value {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "["):
		if v, ok := castArray(trimmed); ok {
			return v
		}
	case strings.HasPrefix(trimmed, "{"):
		if v, ok := castObject(trimmed); ok {
			return v
		}
	}
	if n, ok := ParseNumber(trimmed); ok {
		return NumberOf(n)
	}
	return TextOf(text)
}

func castArray(text string) (Value, bool) {
	var raw []any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Value{}, false
	}
	elements := make([]Value, len(raw))
	for i, e := range raw {
		elements[i] = fromRaw(e)
	}
	return ArrayOf(elements...), true
}

// castObject decodes with a token stream so the key order of the source
// text survives into the object payload.
func castObject(text string) (Value, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	tok, err := dec.Token()
	if err != nil {
		return Value{}, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Value{}, false
	}
	var pairs []Pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, false
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return Value{}, false
		}
		pairs = append(pairs, Pair{Key: TextOf(key), Value: fromRaw(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, false
	}
	return ObjectOf(pairs...), true
}

func fromRaw(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return TextOf("")
	case bool:
		if x {
			return TextOf("true")
		}
		return TextOf("false")
	case float64:
		return NumberOf(x)
	case string:
		return TextOf(x)
	case []any:
		elements := make([]Value, len(x))
		for i, e := range x {
			elements[i] = fromRaw(e)
		}
		return ArrayOf(elements...)
	case map[string]any:
		// nested objects reached through arrays lose their key order
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(x))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: TextOf(k), Value: fromRaw(x[k])})
		}
		return ObjectOf(pairs...)
	default:
		return TextOf("")
	}
}

// Elements extracts the iterable elements of v: array values yield their
// elements, object values their keys. Text that parses as a JSON array
// iterates as well. The second result is false when v is not iterable.
func Elements(mem Memory, v Value) ([]Value, bool) {
	switch v.Kind() {
	case KindArray:
		payload, _ := v.Payload(mem).([]Value)
		return payload, true
	case KindObject:
		pairs, _ := v.Payload(mem).([]Pair)
		keys := make([]Value, len(pairs))
		for i, p := range pairs {
			keys[i] = p.Key
		}
		return keys, true
	default:
		cast := Cast(v.Evaluate(mem))
		if cast.Kind() == KindArray || cast.Kind() == KindObject {
			return Elements(mem, cast)
		}
		return nil, false
	}
}
