package outputs

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlattenPrimitiveIsSingleton(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Leaf
	}{
		{`"hi"`, Leaf{Kind: LeafText, Text: "hi"}},
		{`42`, Leaf{Kind: LeafNumber, Number: 42}},
		{`true`, Leaf{Kind: LeafBool, Bool: true}},
		{`null`, Leaf{Kind: LeafNull}},
		{`"data:audio/wav;base64,AAAA"`, Leaf{Kind: LeafAudioData, Text: "data:audio/wav;base64,AAAA"}},
	}
	for _, tc := range cases {
		got := mustFlatten(t, tc.raw)
		if diff := cmp.Diff([]Leaf{tc.want}, got); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestFlattenObjectWrapsListValuesOnce(t *testing.T) {
	t.Parallel()

	got := mustFlatten(t, `{"b": "x", "a": [1, [2, 3]], "c": {"d": "y"}}`)
	want := []Leaf{
		{Kind: LeafText, Text: "x"},
		{Kind: LeafList, Items: []Leaf{
			{Kind: LeafNumber, Number: 1},
			{Kind: LeafNumber, Number: 2},
			{Kind: LeafNumber, Number: 3},
		}},
		{Kind: LeafText, Text: "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenListSplicesNestedLists(t *testing.T) {
	t.Parallel()

	got := mustFlatten(t, `[["a", ["b"]], "c", {"k": ["d"]}]`)
	want := []Leaf{
		{Kind: LeafText, Text: "a"},
		{Kind: LeafText, Text: "b"},
		{Kind: LeafText, Text: "c"},
		{Kind: LeafList, Items: []Leaf{{Kind: LeafText, Text: "d"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenIsAssociativeOverConcatenation(t *testing.T) {
	t.Parallel()

	values := []string{
		`"s"`, `1.5`, `false`, `null`, `[]`, `{}`,
		`[1, [2, [3]]]`,
		`{"x": [1, 2], "y": {"z": "w"}}`,
		`[{"a": ["b", "c"]}, "d"]`,
	}
	for _, a := range values {
		for _, b := range values {
			joined := mustFlatten(t, "["+a+","+b+"]")
			separate := append(mustFlatten(t, "["+a+"]"), mustFlatten(t, "["+b+"]")...)
			if diff := cmp.Diff(separate, joined); diff != "" {
				t.Fatalf("flatten([%s, %s]) mismatch (-want +got):\n%s", a, b, diff)
			}
		}
	}
}

func TestParseRejectsDeepNesting(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("[", 10) + strings.Repeat("]", 10)
	if _, err := Parse([]byte(raw), 5); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if _, err := Parse([]byte(raw), 10); err != nil {
		t.Fatalf("depth 10 should be accepted: %v", err)
	}
}

func TestFlattenRejectsDeepNesting(t *testing.T) {
	t.Parallel()

	node := Node{Kind: NodeString, String: "leaf"}
	for i := 0; i < 8; i++ {
		node = Node{Kind: NodeList, Items: []Node{node}}
	}
	if _, err := Flatten(node, 4); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"a":`), 0); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
