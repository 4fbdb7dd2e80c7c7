// internal/memory/memory.go
package memory

import (
	"strings"

	"jamplate/internal/value"
)

// Define is the reserved heap address holding a JSON object mirroring
// every user-defined symbol. Definition checks consult the mirror, not
// the individual entries.
const Define = "__define__"

// Frame is one scope of the push-down stack. The tag identifies what
// opened the frame, for diagnostics.
type Frame struct {
	Tag    any
	values []value.Value
}

// Memory is the runtime state a compiled instruction tree executes
// against: a stack of frames, a keyed heap, and a console sink. It is
// single-owner and single-threaded.
type Memory struct {
	frames  []*Frame
	heap    map[string]value.Value
	console strings.Builder
}

// New returns an empty memory with one open base frame.
func New() *Memory {
	return &Memory{
		frames: []*Frame{{}},
		heap:   map[string]value.Value{},
	}
}

func (m *Memory) top() *Frame { return m.frames[len(m.frames)-1] }

// Push puts v on top of the current frame.
func (m *Memory) Push(v value.Value) {
	f := m.top()
	f.values = append(f.values, v)
}

// Pop removes and returns the top value of the current frame. An empty
// frame pops an empty text value.
func (m *Memory) Pop() value.Value {
	f := m.top()
	if len(f.values) == 0 {
		return value.Value{}
	}
	v := f.values[len(f.values)-1]
	f.values = f.values[:len(f.values)-1]
	return v
}

// Peek returns the top value without removing it.
func (m *Memory) Peek() value.Value {
	f := m.top()
	if len(f.values) == 0 {
		return value.Value{}
	}
	return f.values[len(f.values)-1]
}

// PushFrame opens a new scope tagged with tag.
func (m *Memory) PushFrame(tag any) {
	m.frames = append(m.frames, &Frame{Tag: tag})
}

// PopFrame closes the current scope, appending its values in order onto
// the frame below. The base frame never pops.
func (m *Memory) PopFrame() {
	if len(m.frames) == 1 {
		return
	}
	f := m.top()
	m.frames = m.frames[:len(m.frames)-1]
	next := m.top()
	next.values = append(next.values, f.values...)
}

// DumpFrame closes the current scope discarding its values.
func (m *Memory) DumpFrame() {
	if len(m.frames) == 1 {
		m.frames[0].values = nil
		return
	}
	m.frames = m.frames[:len(m.frames)-1]
}

// JoinPop concatenates the evaluated text of every value in the current
// frame, in order, closes the frame, and returns the joined text value.
func (m *Memory) JoinPop() value.Value {
	f := m.top()
	var sb strings.Builder
	for _, v := range f.values {
		sb.WriteString(v.Evaluate(m))
	}
	m.DumpFrame()
	return value.TextOf(sb.String())
}

// GluePop collects the values of the current frame into a single value of
// the given kind, closes the frame, and returns the collected value.
// Arrays take the frame values as elements; objects take them as pairs,
// casting non-pair values through their text form. Any other kind joins
// as text.
func (m *Memory) GluePop(kind value.Kind) value.Value {
	f := m.top()
	switch kind {
	case value.KindArray:
		elements := make([]value.Value, len(f.values))
		copy(elements, f.values)
		m.DumpFrame()
		return value.ArrayOf(elements...)
	case value.KindObject:
		var pairs []value.Pair
		for _, v := range f.values {
			if v.Kind() == value.KindPair {
				if p, ok := v.Payload(m).(value.Pair); ok {
					pairs = append(pairs, p)
					continue
				}
			}
			pairs = append(pairs, value.Pair{Key: v, Value: value.Value{}})
		}
		m.DumpFrame()
		return value.ObjectOf(pairs...)
	default:
		return m.JoinPop()
	}
}

// Depth returns the number of open frames.
func (m *Memory) Depth() int { return len(m.frames) }

// Set stores v at address.
func (m *Memory) Set(address string, v value.Value) {
	m.heap[address] = v
}

// Get returns the value at address, or an empty text value.
func (m *Memory) Get(address string) value.Value {
	return m.heap[address]
}

// Read implements value.Memory.
func (m *Memory) Read(address string) value.Value {
	return m.heap[address]
}

// Has reports whether address holds a value.
func (m *Memory) Has(address string) bool {
	_, ok := m.heap[address]
	return ok
}

// Compute atomically rewrites the value at address through fn. fn sees an
// empty text value when the address is unset.
func (m *Memory) Compute(address string, fn func(value.Value) value.Value) {
	m.heap[address] = fn(m.heap[address])
}

// Free removes the value at address.
func (m *Memory) Free(address string) {
	delete(m.heap, address)
}

// Print appends text to the console.
func (m *Memory) Print(text string) {
	m.console.WriteString(text)
}

// Console returns everything printed so far.
func (m *Memory) Console() string {
	return m.console.String()
}

// Fork returns a memory sharing this memory's heap with fresh frames and
// a fresh console. Imports execute against forks so their output can be
// captured while their definitions land in the shared heap.
func (m *Memory) Fork() *Memory {
	return &Memory{
		frames: []*Frame{{}},
		heap:   m.heap,
	}
}
