package outputs

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeImageRoundTrip(t *testing.T) {
	t.Parallel()

	raw := onePixelPNG(t)
	artifacts, err := Decode([]Leaf{stringLeaf(dataURI("image/png", raw))})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("artifacts = %d, want 1", len(artifacts))
	}
	got := artifacts[0]
	if got.Kind != ArtifactImage || got.MIME != "image/png" {
		t.Fatalf("unexpected artifact %+v", got)
	}
	if got.Image == nil {
		t.Fatalf("expected decoded image")
	}
	if bounds := got.Image.Bounds(); bounds.Dx() != 1 || bounds.Dy() != 1 {
		t.Fatalf("bounds = %v, want 1x1", bounds)
	}
	pixel := color.NRGBAModel.Convert(got.Image.At(0, 0)).(color.NRGBA)
	if pixel != testPixel {
		t.Fatalf("pixel = %v, want %v", pixel, testPixel)
	}
	if diff := cmp.Diff(raw, got.Data); diff != "" {
		t.Fatalf("bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDropsFalsyLeaves(t *testing.T) {
	t.Parallel()

	leaves := []Leaf{
		{Kind: LeafNull},
		{Kind: LeafText, Text: ""},
		{Kind: LeafBool, Bool: false},
		{Kind: LeafList},
		{Kind: LeafNumber, Number: 0},
		{Kind: LeafText, Text: "kept"},
		{Kind: LeafBool, Bool: true},
		{Kind: LeafList, Items: []Leaf{{Kind: LeafText, Text: "a"}}},
	}
	artifacts, err := Decode(leaves)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var values []any
	for _, artifact := range artifacts {
		if artifact.Kind != ArtifactValue {
			t.Fatalf("unexpected kind %s", artifact.Kind)
		}
		values = append(values, artifact.Value)
	}
	want := []any{float64(0), "kept", true, []any{"a"}}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAudioAndVideo(t *testing.T) {
	t.Parallel()

	wav := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)
	artifacts, err := Decode([]Leaf{
		stringLeaf(dataURI("audio/wav", wav)),
		stringLeaf("data:video;base64,AAAAIGZ0eXBpc29tAAACAGlzb21pc28yYXZjMW1wNDE="),
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if artifacts[0].Kind != ArtifactAudio || artifacts[0].MIME != "audio/wav" {
		t.Fatalf("unexpected audio artifact %+v", artifacts[0])
	}
	if artifacts[1].Kind != ArtifactVideo || artifacts[1].MIME != "video/mp4" {
		t.Fatalf("expected sniffed video/mp4, got %+v", artifacts[1])
	}
}

func TestDecodeReportsTypedErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]Leaf{
		"bad base64":   stringLeaf("data:image/png;base64,@@@"),
		"no separator": stringLeaf("data:audio/wav;base64"),
		"corrupt png":  stringLeaf(dataURI("image/png", []byte("\x89PNG\r\n\x1a\ngarbage"))),
		"empty image":  stringLeaf("data:image/png;base64,"),
		"empty audio":  stringLeaf("data:audio/wav;base64,"),
	}
	for name, leaf := range cases {
		_, err := Decode([]Leaf{{Kind: LeafText, Text: "ok"}, leaf})
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("%s: expected ErrDecode, got %v", name, err)
		}
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("%s: expected *DecodeError, got %T", name, err)
		}
		if decodeErr.Index != 1 || decodeErr.Kind != leaf.Kind {
			t.Fatalf("%s: unexpected error detail %+v", name, decodeErr)
		}
	}
}

func TestDecodeKeepsUnsupportedImageBytes(t *testing.T) {
	t.Parallel()

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	artifacts, err := Decode([]Leaf{stringLeaf(dataURI("image/svg+xml", svg))})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if artifacts[0].Image != nil || string(artifacts[0].Data) != string(svg) {
		t.Fatalf("expected raw svg bytes, got %+v", artifacts[0])
	}
	if artifacts[0].DataURI() != dataURI("image/svg+xml", svg) {
		t.Fatalf("data URI mismatch")
	}
}
