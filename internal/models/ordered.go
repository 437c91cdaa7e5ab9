package models

import (
	"bytes"
	"encoding/json"
)

// OrderedStringMap is an insertion-ordered string->string mapping, used
// wherever the data model calls for an "ordered mapping" (abstract, body,
// article_id, journal_id, published_date, history_dates, custom_meta).
// A plain Go map cannot serve here because its iteration order is
// randomized; the serializer and the TOC/full_text derivations both
// depend on insertion order being preserved exactly.
type OrderedStringMap struct {
	keys   []string
	values map[string]string
}

func NewOrderedStringMap() *OrderedStringMap {
	return &OrderedStringMap{values: make(map[string]string)}
}

// Set inserts key/value, appending key to the order if it is new, or
// overwriting the value in place if key already exists.
func (m *OrderedStringMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedStringMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedStringMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns keys in insertion order.
func (m *OrderedStringMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Values returns values in key-insertion order.
func (m *OrderedStringMap) Values() []string {
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

func (m *OrderedStringMap) Len() int { return len(m.keys) }

// MarshalJSON emits the map as a JSON object with keys in insertion
// order, since Go's encoding/json sorts plain map[string]string keys
// alphabetically and the serialized artifact's field order is contractual.
func (m *OrderedStringMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BodyNode is one node of the recursive nested-body view. Text holds the
// node's own paragraph text under the reserved "_text" slot; Children
// holds named subsections in discovery order.
type BodyNode struct {
	Text     string
	Children *OrderedBodyMap
}

func NewBodyNode() *BodyNode {
	return &BodyNode{Children: NewOrderedBodyMap()}
}

// OrderedBodyMap is an insertion-ordered string->*BodyNode mapping.
type OrderedBodyMap struct {
	keys   []string
	values map[string]*BodyNode
}

func NewOrderedBodyMap() *OrderedBodyMap {
	return &OrderedBodyMap{values: make(map[string]*BodyNode)}
}

func (m *OrderedBodyMap) Set(key string, node *BodyNode) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = node
}

func (m *OrderedBodyMap) Get(key string) (*BodyNode, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedBodyMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *OrderedBodyMap) Len() int { return len(m.keys) }

// MarshalJSON emits the map as a JSON object with keys in insertion order.
func (m *OrderedBodyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON emits a node's own text under "_text" alongside its named
// children, so a leaf section's prose and a section's subsections share
// one JSON object.
func (n *BodyNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	text, err := json.Marshal(n.Text)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"_text":`)
	buf.Write(text)
	for _, k := range n.Children.keys {
		buf.WriteByte(',')
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(n.Children.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
