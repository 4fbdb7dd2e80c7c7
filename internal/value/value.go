// internal/value/value.go
package value

import (
	"strings"
)

// Memory is the slice of the runtime a value may consult while being
// evaluated. The full runtime memory satisfies it.
type Memory interface {
	// Read returns the value stored at address, or an empty text value.
	Read(address string) Value
}

// Kind tags the payload a value produces.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
	KindArray
	KindObject
	KindPair
	KindQuote
)

var kindNames = map[Kind]string{
	KindText:   "text",
	KindNumber: "number",
	KindArray:  "array",
	KindObject: "object",
	KindPair:   "pair",
	KindQuote:  "quote",
}

func (k Kind) String() string { return kindNames[k] }

// KindOf resolves a kind by its name.
func KindOf(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindText, false
}

// Pipe is a lazy computation step: given the memory and the payload
// produced so far, it returns the next payload. Values are built by
// chaining pipes.
//
// Payload representation by kind:
//
//	KindText    string
//	KindNumber  float64
//	KindArray   []Value
//	KindObject  []Pair
//	KindPair    Pair
//	KindQuote   Value
type Pipe func(mem Memory, prev any) any

// Pair is the payload of a pair value and the element of an object
// payload.
type Pair struct {
	Key   Value
	Value Value
}

// Value is a lazy tagged computation. The zero value is an empty text.
type Value struct {
	kind Kind
	pipe Pipe
}

// Kind returns the payload tag.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value is the unset zero value, as opposed
// to a computation that happens to produce an empty text.
func (v Value) IsZero() bool { return v.pipe == nil }

// Apply derives a new value whose pipe is the old pipe followed by p.
func (v Value) Apply(p Pipe) Value {
	prev := v.pipe
	if prev == nil {
		return Value{kind: v.kind, pipe: p}
	}
	return Value{kind: v.kind, pipe: func(mem Memory, in any) any {
		return p(mem, prev(mem, in))
	}}
}

// Retag returns the same computation under a different kind tag.
func (v Value) Retag(kind Kind) Value {
	return Value{kind: kind, pipe: v.pipe}
}

// Payload runs the pipe against mem and returns the raw payload.
func (v Value) Payload(mem Memory) any {
	if v.pipe == nil {
		return zero(v.kind)
	}
	return v.pipe(mem, zero(v.kind))
}

func zero(kind Kind) any {
	switch kind {
	case KindNumber:
		return float64(0)
	case KindArray:
		return []Value(nil)
	case KindObject:
		return []Pair(nil)
	case KindPair:
		return Pair{}
	case KindQuote:
		return Value{}
	default:
		return ""
	}
}

// Evaluate runs the pipe and renders the payload as text. Every value
// stringifies; this is the primary observable of the value model.
func (v Value) Evaluate(mem Memory) string {
	return render(v.kind, v.Payload(mem), mem)
}

func render(kind Kind, payload any, mem Memory) string {
	switch kind {
	case KindNumber:
		return FormatNumber(payload.(float64))
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range payload.([]Value) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quoteJSON(e.Evaluate(mem)))
		}
		sb.WriteByte(']')
		return sb.String()
	case KindObject:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, p := range payload.([]Pair) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quoteJSON(p.Key.Evaluate(mem)))
			sb.WriteByte(':')
			sb.WriteString(quoteJSON(p.Value.Evaluate(mem)))
		}
		sb.WriteByte('}')
		return sb.String()
	case KindPair:
		p := payload.(Pair)
		return p.Key.Evaluate(mem) + ":" + p.Value.Evaluate(mem)
	case KindQuote:
		return quoteJSON(payload.(Value).Evaluate(mem))
	default:
		return payload.(string)
	}
}

// TextOf returns a constant text value.
func TextOf(text string) Value {
	return Value{kind: KindText, pipe: func(Memory, any) any { return text }}
}

// NumberOf returns a constant number value.
func NumberOf(n float64) Value {
	return Value{kind: KindNumber, pipe: func(Memory, any) any { return n }}
}

// ArrayOf returns a constant array value over the given elements.
func ArrayOf(elements ...Value) Value {
	return Value{kind: KindArray, pipe: func(Memory, any) any { return elements }}
}

// ObjectOf returns a constant object value over the given pairs.
func ObjectOf(pairs ...Pair) Value {
	return Value{kind: KindObject, pipe: func(Memory, any) any { return pairs }}
}

// PairOf returns a constant pair value.
func PairOf(key, val Value) Value {
	return Value{kind: KindPair, pipe: func(Memory, any) any { return Pair{Key: key, Value: val} }}
}

// QuoteOf returns a value that renders inner as a quoted string.
func QuoteOf(inner Value) Value {
	return Value{kind: KindQuote, pipe: func(Memory, any) any { return inner }}
}

// Lazy returns a text value that resolves through fn at evaluation time.
func Lazy(fn func(mem Memory) string) Value {
	return Value{kind: KindText, pipe: func(mem Memory, _ any) any { return fn(mem) }}
}

// Ref returns a value that reads address from the memory each time it is
// evaluated. An unset address evaluates to the address itself, so bare
// words echo their own spelling until they are defined.
func Ref(address string) Value {
	return Lazy(func(mem Memory) string {
		if mem == nil {
			return address
		}
		v := mem.Read(address)
		if v.IsZero() {
			return address
		}
		return v.Evaluate(mem)
	})
}
