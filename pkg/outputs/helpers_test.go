package outputs

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

var testPixel = color.NRGBA{R: 200, G: 10, B: 30, A: 255}

func onePixelPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, testPixel)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func mustParse(t *testing.T, raw string) Node {
	t.Helper()
	node, err := Parse([]byte(raw), 0)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return node
}

func mustFlatten(t *testing.T, raw string) []Leaf {
	t.Helper()
	leaves, err := Flatten(mustParse(t, raw), 0)
	if err != nil {
		t.Fatalf("flatten %s: %v", raw, err)
	}
	return leaves
}
