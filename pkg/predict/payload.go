package predict

import (
	"bytes"
	"encoding/json"

	"github.com/goliatone/go-cogform/pkg/model"
)

type entry struct {
	name  string
	value any
}

// Payload is the input object sent to the container. Keys keep field
// declaration order when marshalled.
type Payload struct {
	entries []entry
}

// Len returns the number of entries.
func (p Payload) Len() int { return len(p.entries) }

// Keys returns the entry names in order.
func (p Payload) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.name
	}
	return keys
}

// Get returns the value stored under name.
func (p Payload) Get(name string) (any, bool) {
	for _, e := range p.entries {
		if e.name == name {
			return e.value, true
		}
	}
	return nil, false
}

func (p *Payload) set(name string, value any) {
	for i := range p.entries {
		if p.entries[i].name == name {
			p.entries[i].value = value
			return
		}
	}
	p.entries = append(p.entries, entry{name: name, value: value})
}

// MarshalJSON writes the entries as a JSON object in order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildPayload assembles the input object. Nil, empty strings, false and
// empty lists are omitted. Strings naming an existing local file are passed
// through rewrite, element-wise for lists.
func BuildPayload(values []model.Value, rewrite func(string) string) Payload {
	var payload Payload
	for _, v := range values {
		value := v.Value
		if omitted(value) {
			continue
		}
		if rewrite != nil {
			value = rewriteValue(value, rewrite)
		}
		payload.set(v.Name, value)
	}
	return payload
}

func omitted(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func rewriteValue(value any, rewrite func(string) string) any {
	switch v := value.(type) {
	case string:
		return rewrite(v)
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = rewrite(s)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if s, ok := item.(string); ok {
				out[i] = rewrite(s)
				continue
			}
			out[i] = item
		}
		return out
	default:
		return value
	}
}

type requestBody struct {
	Input   Payload `json:"input"`
	Version string  `json:"version,omitempty"`
}
