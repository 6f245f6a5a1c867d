package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Metadata is an insertion-ordered string-keyed map of scalar values. The
// zero value is ready to use.
type Metadata struct {
	keys   []string
	values map[string]any
}

// NewMetadata returns metadata tagged with the producing extractor.
func NewMetadata(source string) Metadata {
	var m Metadata
	m.Set("source", source)
	return m
}

// Set stores v under key, keeping the original position when key exists.
func (m *Metadata) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// SetString stores v only when it is not blank.
func (m *Metadata) SetString(key, v string) {
	if strings.TrimSpace(v) == "" {
		return
	}
	m.Set(key, v)
}

// Get returns the value for key or nil.
func (m Metadata) Get(key string) any {
	return m.values[key]
}

// String returns the value for key when it is a string.
func (m Metadata) String(key string) string {
	s, _ := m.values[key].(string)
	return s
}

// Has reports whether key is present.
func (m Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m Metadata) Len() int { return len(m.keys) }

// Clone returns an independent copy.
func (m Metadata) Clone() Metadata {
	var c Metadata
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// MarshalJSON writes the object with keys in insertion order.
func (m Metadata) MarshalJSON() ([]byte, error) {
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
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal metadata %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving its key order.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata: expected object")
	}
	*m = Metadata{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata: expected string key")
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("metadata %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
