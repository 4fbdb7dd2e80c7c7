// internal/instruction/heap.go
package instruction

import (
	"encoding/json"
	"strings"

	"jamplate/internal/memory"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// mirror is the parsed form of the DEFINE heap entry: a JSON object of
// every user-defined symbol, in definition order.
type mirror struct {
	keys   []string
	values map[string]string
}

// readMirror parses the DEFINE entry, falling back to an empty object on
// any parse error.
func readMirror(mem *memory.Memory) *mirror {
	m := &mirror{values: map[string]string{}}
	text := mem.Get(memory.Define).Evaluate(mem)
	if text == "" {
		return m
	}
	dec := json.NewDecoder(strings.NewReader(text))
	tok, err := dec.Token()
	if err != nil {
		return m
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return m
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return m
		}
		key, ok := keyTok.(string)
		if !ok {
			return m
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return m
		}
		m.set(key, val)
	}
	return m
}

func (m *mirror) set(key, val string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

func (m *mirror) remove(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *mirror) has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *mirror) text() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		val, _ := json.Marshal(m.values[k])
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(val)
	}
	sb.WriteByte('}')
	return sb.String()
}

func (m *mirror) store(mem *memory.Memory) {
	mem.Set(memory.Define, value.TextOf(m.text()))
}

// publish records address in the DEFINE mirror.
func publish(mem *memory.Memory, address, text string) {
	m := readMirror(mem)
	m.set(address, text)
	m.store(mem)
}

// unpublish removes address from the DEFINE mirror.
func unpublish(mem *memory.Memory, address string) {
	m := readMirror(mem)
	m.remove(address)
	m.store(mem)
}

// published reports DEFINE mirror membership.
func published(mem *memory.Memory, address string) bool {
	return readMirror(mem).has(address)
}

// Publish stores text at address and records it in the DEFINE mirror,
// exactly as a define instruction would. Callers use it to seed a memory
// with external definitions.
func Publish(mem *memory.Memory, address, text string) {
	mem.Set(address, value.TextOf(text))
	publish(mem, address, text)
}

// Access pushes a lazy read of an address. With an empty Address the
// address itself is popped from the stack first.
type Access struct {
	src
	Address string
}

func NewAccess(t *tree.Tree, address string) *Access {
	return &Access{src: src{t}, Address: address}
}

func (a *Access) Opcode() string { return "access" }

func (a *Access) Exec(_ Environment, mem *memory.Memory) error {
	address := a.Address
	if address == "" {
		address = strings.TrimSpace(mem.Pop().Evaluate(mem))
	}
	mem.Push(value.Ref(address))
	return nil
}

// Alloc stores a constant at an address without touching the DEFINE
// mirror.
type Alloc struct {
	src
	Address string
	Kind    value.Kind
	Raw     string
}

func NewAlloc(t *tree.Tree, address string, kind value.Kind, raw string) *Alloc {
	return &Alloc{src: src{t}, Address: address, Kind: kind, Raw: raw}
}

func (a *Alloc) Opcode() string { return "alloc" }

func (a *Alloc) Exec(_ Environment, mem *memory.Memory) error {
	mem.Set(a.Address, makeValue(a.Kind, a.Raw))
	return nil
}

// Define executes its body in a fresh frame, joins the produced values
// into one text, stores it at the address, and mirrors the definition
// into the DEFINE object.
type Define struct {
	src
	Address string
	Body    Instruction
}

func NewDefine(t *tree.Tree, address string, body Instruction) *Define {
	return &Define{src: src{t}, Address: address, Body: body}
}

func (d *Define) Opcode() string { return "define" }

func (d *Define) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(d.tree)
	if err := d.Body.Exec(env, mem); err != nil {
		mem.DumpFrame()
		return err
	}
	v := mem.JoinPop()
	mem.Set(d.Address, v)
	publish(mem, d.Address, v.Evaluate(mem))
	return nil
}

// Free removes an address from the heap and from the DEFINE mirror.
type Free struct {
	src
	Address string
}

func NewFree(t *tree.Tree, address string) *Free {
	return &Free{src: src{t}, Address: address}
}

func (f *Free) Opcode() string { return "free" }

func (f *Free) Exec(_ Environment, mem *memory.Memory) error {
	mem.Free(f.Address)
	unpublish(mem, f.Address)
	return nil
}

// Conceal removes an address from the DEFINE mirror only, keeping the
// heap entry.
type Conceal struct {
	src
	Address string
}

func NewConceal(t *tree.Tree, address string) *Conceal {
	return &Conceal{src: src{t}, Address: address}
}

func (c *Conceal) Opcode() string { return "conceal" }

func (c *Conceal) Exec(_ Environment, mem *memory.Memory) error {
	unpublish(mem, c.Address)
	return nil
}

// IsDefined pushes "1" when the address is in the DEFINE mirror, "0"
// otherwise.
type IsDefined struct {
	src
	Address string
}

func NewIsDefined(t *tree.Tree, address string) *IsDefined {
	return &IsDefined{src: src{t}, Address: address}
}

func (i *IsDefined) Opcode() string { return "defined" }

func (i *IsDefined) Exec(_ Environment, mem *memory.Memory) error {
	if published(mem, i.Address) {
		mem.Push(value.TextOf("1"))
	} else {
		mem.Push(value.TextOf("0"))
	}
	return nil
}

// NotDefined is the inverse of IsDefined.
type NotDefined struct {
	src
	Address string
}

func NewNotDefined(t *tree.Tree, address string) *NotDefined {
	return &NotDefined{src: src{t}, Address: address}
}

func (n *NotDefined) Opcode() string { return "undefined" }

func (n *NotDefined) Exec(_ Environment, mem *memory.Memory) error {
	if published(mem, n.Address) {
		mem.Push(value.TextOf("0"))
	} else {
		mem.Push(value.TextOf("1"))
	}
	return nil
}
