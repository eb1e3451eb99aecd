package armparams

import (
	"bytes"
	"encoding/json"
	"sort"
)

// orderedMap keeps insertion order next to a map. Re-setting a key replaces
// its value but keeps its original position.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set stores v under key.
func (m *orderedMap[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *orderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *orderedMap[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Names returns the keys in insertion order.
func (m *orderedMap[V]) Names() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// SortedNames returns the keys in alphabetical order.
func (m *orderedMap[V]) SortedNames() []string {
	out := m.Names()
	sort.Strings(out)
	return out
}

// Len returns the number of keys.
func (m *orderedMap[V]) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m orderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Parameters is the ordered set of resolved deployment parameters, name to
// entry. Entries are the objects ARM expects, normally {"value": v}.
type Parameters struct {
	orderedMap[any]
}

// NewParameters returns an empty Parameters.
func NewParameters() *Parameters {
	return &Parameters{}
}

// SetValue stores v wrapped as {"value": v}.
func (p *Parameters) SetValue(name string, v any) {
	p.Set(name, map[string]any{"value": v})
}

// Value returns the unwrapped value of the entry for name. ok is false when
// the name is absent or its entry carries no "value" key (a Key Vault
// reference, for instance).
func (p *Parameters) Value(name string) (any, bool) {
	entry, ok := p.Get(name)
	if !ok {
		return nil, false
	}
	obj, isObj := entry.(map[string]any)
	if !isObj {
		return nil, false
	}
	v, ok := obj["value"]
	return v, ok
}

// Update copies every entry of other into p, replacing entries with the same
// name.
func (p *Parameters) Update(other *Parameters) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
}

// Values holds prompted values, name to raw value, in prompting order.
type Values struct {
	orderedMap[any]
}

// Definitions holds a template's parameter declarations in declaration order.
type Definitions struct {
	orderedMap[Definition]
}

// Missing holds the parameters a deployment still needs, in prompting order.
type Missing struct {
	orderedMap[Definition]
}

// NewMissing builds a Missing from an unordered map. With no declaration
// order to follow, the keys are inserted alphabetically.
func NewMissing(defs map[string]Definition) *Missing {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &Missing{}
	for _, name := range names {
		m.Set(name, defs[name])
	}
	return m
}
