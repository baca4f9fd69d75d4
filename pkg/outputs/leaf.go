package outputs

import "strings"

// LeafKind is the tagged-union discriminator for flattened values. Media
// kinds are assigned once, when a string leaf is produced.
type LeafKind int

const (
	LeafNull LeafKind = iota
	LeafText
	LeafNumber
	LeafBool
	LeafImageData
	LeafAudioData
	LeafVideoData
	LeafList
)

func (k LeafKind) String() string {
	switch k {
	case LeafText:
		return "text"
	case LeafNumber:
		return "number"
	case LeafBool:
		return "bool"
	case LeafImageData:
		return "image"
	case LeafAudioData:
		return "audio"
	case LeafVideoData:
		return "video"
	case LeafList:
		return "list"
	default:
		return "null"
	}
}

// Leaf is one flattened value. Items is set for LeafList, produced when an
// object member held a list.
type Leaf struct {
	Kind   LeafKind
	Text   string
	Number float64
	Bool   bool
	Items  []Leaf
}

// Value returns the leaf as a plain Go value for passthrough artifacts.
func (l Leaf) Value() any {
	switch l.Kind {
	case LeafText, LeafImageData, LeafAudioData, LeafVideoData:
		return l.Text
	case LeafNumber:
		return l.Number
	case LeafBool:
		return l.Bool
	case LeafList:
		values := make([]any, len(l.Items))
		for i, item := range l.Items {
			values[i] = item.Value()
		}
		return values
	default:
		return nil
	}
}

// falsy reports leaves that are dropped during decode. Zero numbers are kept.
func (l Leaf) falsy() bool {
	switch l.Kind {
	case LeafNull:
		return true
	case LeafText:
		return l.Text == ""
	case LeafBool:
		return !l.Bool
	case LeafList:
		return len(l.Items) == 0
	default:
		return false
	}
}

func stringLeaf(s string) Leaf {
	kind := LeafText
	switch {
	case strings.HasPrefix(s, "data:image"):
		kind = LeafImageData
	case strings.HasPrefix(s, "data:audio"):
		kind = LeafAudioData
	case strings.HasPrefix(s, "data:video"):
		kind = LeafVideoData
	}
	return Leaf{Kind: kind, Text: s}
}
