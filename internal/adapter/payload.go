package adapter

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/amishk599/jobcal/internal/textutil"
)

// Payload is a read-only JSON tree embedded in a page. Lookups walk a path of
// object keys (or array indexes) and report absence instead of failing: a
// missing key, a null, or a type mismatch at any segment yields the zero
// Payload.
type Payload struct {
	value any
}

// ParsePayload decodes raw JSON. The second result is false for malformed or
// null input.
func ParsePayload(raw string) (Payload, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || v == nil {
		return Payload{}, false
	}
	return Payload{value: v}, true
}

// Present reports whether the payload holds a non-null value.
func (p Payload) Present() bool {
	return p.value != nil
}

// At follows path and returns the sub-tree found there.
func (p Payload) At(path ...string) Payload {
	cur := p.value
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return Payload{}
			}
			cur = node[i]
		default:
			return Payload{}
		}
		if cur == nil {
			return Payload{}
		}
	}
	return Payload{value: cur}
}

// Items returns the elements of an array payload, or nil.
func (p Payload) Items() []Payload {
	arr, ok := p.value.([]any)
	if !ok {
		return nil
	}
	out := make([]Payload, 0, len(arr))
	for _, v := range arr {
		if v != nil {
			out = append(out, Payload{value: v})
		}
	}
	return out
}

// scalar renders a string, number or bool. Objects and arrays have no scalar
// form.
func (p Payload) scalar() string {
	switch v := p.value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Text returns the whitespace-collapsed scalar at path, or "".
func (p Payload) Text(path ...string) string {
	return textutil.CleanText(p.At(path...).scalar())
}

// RawText returns the scalar at path with its line structure normalized but
// kept, or "".
func (p Payload) RawText(path ...string) string {
	return textutil.NormalizeRawText(p.At(path...).scalar())
}

// Is reports whether the string field key equals want, or, for array
// fields such as a multi-valued "@type", contains it.
func (p Payload) Is(key, want string) bool {
	field := p.At(key)
	if field.scalar() == want {
		return true
	}
	for _, item := range field.Items() {
		if item.scalar() == want {
			return true
		}
	}
	return false
}
