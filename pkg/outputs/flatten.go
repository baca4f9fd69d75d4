package outputs

// Flatten walks a node depth first. Object members are visited in order; a
// member that holds a list contributes one LeafList, every other member is
// spliced flat. Lists splice all their flattened elements. Primitives yield
// themselves.
func Flatten(node Node, maxDepth int) ([]Leaf, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return flatten(node, 0, maxDepth)
}

func flatten(node Node, depth, maxDepth int) ([]Leaf, error) {
	if depth > maxDepth {
		return nil, malformed("nesting exceeds depth %d", maxDepth)
	}
	switch node.Kind {
	case NodeObject:
		var leaves []Leaf
		for _, member := range node.Fields {
			values, err := flatten(member.Value, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			if member.Value.Kind == NodeList {
				leaves = append(leaves, Leaf{Kind: LeafList, Items: values})
				continue
			}
			leaves = append(leaves, values...)
		}
		return leaves, nil
	case NodeList:
		var leaves []Leaf
		for _, item := range node.Items {
			values, err := flatten(item, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, values...)
		}
		return leaves, nil
	case NodeString:
		return []Leaf{stringLeaf(node.String)}, nil
	case NodeNumber:
		return []Leaf{{Kind: LeafNumber, Number: node.Number}}, nil
	case NodeBool:
		return []Leaf{{Kind: LeafBool, Bool: node.Bool}}, nil
	default:
		return []Leaf{{Kind: LeafNull}}, nil
	}
}
