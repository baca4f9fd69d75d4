package outputs

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// DefaultMaxDepth bounds nesting in provider responses.
const DefaultMaxDepth = 64

// NodeKind discriminates Node values.
type NodeKind int

const (
	NodeNull NodeKind = iota
	NodeBool
	NodeNumber
	NodeString
	NodeList
	NodeObject
)

// Node is a JSON value with object key order preserved.
type Node struct {
	Kind   NodeKind
	Bool   bool
	Number float64
	String string
	Items  []Node
	Fields []Member
	// Raw is the source JSON text of the value.
	Raw string
}

// Member is one key of an object node.
type Member struct {
	Key   string
	Value Node
}

// Parse converts raw JSON into a Node. Invalid JSON and nesting deeper than
// maxDepth fail with ErrMalformedResponse. A non-positive maxDepth selects
// DefaultMaxDepth.
func Parse(raw []byte, maxDepth int) (Node, error) {
	if !gjson.ValidBytes(raw) {
		return Node{}, malformed("invalid JSON")
	}
	return FromResult(gjson.ParseBytes(raw), maxDepth)
}

// FromResult converts an already located gjson value, e.g. the "output" member
// of a prediction envelope.
func FromResult(result gjson.Result, maxDepth int) (Node, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return fromResult(result, 0, maxDepth)
}

func fromResult(result gjson.Result, depth, maxDepth int) (Node, error) {
	if depth > maxDepth {
		return Node{}, malformed("nesting exceeds depth %d", maxDepth)
	}
	node := Node{Raw: result.Raw}
	switch result.Type {
	case gjson.Null:
		node.Kind = NodeNull
	case gjson.False, gjson.True:
		node.Kind = NodeBool
		node.Bool = result.Bool()
	case gjson.Number:
		node.Kind = NodeNumber
		node.Number = result.Float()
	case gjson.String:
		node.Kind = NodeString
		node.String = result.String()
	case gjson.JSON:
		var err error
		if result.IsArray() {
			node.Kind = NodeList
			result.ForEach(func(_, value gjson.Result) bool {
				var child Node
				child, err = fromResult(value, depth+1, maxDepth)
				if err != nil {
					return false
				}
				node.Items = append(node.Items, child)
				return true
			})
		} else {
			node.Kind = NodeObject
			result.ForEach(func(key, value gjson.Result) bool {
				var child Node
				child, err = fromResult(value, depth+1, maxDepth)
				if err != nil {
					return false
				}
				node.Fields = append(node.Fields, Member{Key: key.String(), Value: child})
				return true
			})
		}
		if err != nil {
			return Node{}, err
		}
	}
	return node, nil
}

// JSON returns the node as raw JSON, preserving key order.
func (n Node) JSON() json.RawMessage {
	if n.Raw == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(n.Raw)
}
