package outputs

import (
	"encoding/base64"
	"image"
)

// ArtifactKind identifies what a slot receives.
type ArtifactKind string

const (
	ArtifactHidden ArtifactKind = "hidden"
	ArtifactValue  ArtifactKind = "value"
	ArtifactImage  ArtifactKind = "image"
	ArtifactAudio  ArtifactKind = "audio"
	ArtifactVideo  ArtifactKind = "video"
	ArtifactJSON   ArtifactKind = "json"
)

// Artifact is a decoded leaf ready for rendering.
type Artifact struct {
	Kind ArtifactKind
	// Value holds passthrough primitives, nested lists and whole-output JSON.
	Value any
	// Image is set for decodable image payloads.
	Image image.Image
	// Data and MIME carry media bytes.
	Data []byte
	MIME string
	// Path is set once the artifact has been materialized.
	Path string
}

// Hidden is the marker used to pad missing trailing slots.
func Hidden() Artifact {
	return Artifact{Kind: ArtifactHidden}
}

// IsHidden reports whether the slot should not be shown.
func (a Artifact) IsHidden() bool {
	return a.Kind == ArtifactHidden
}

// IsMedia reports whether the artifact carries binary media.
func (a Artifact) IsMedia() bool {
	switch a.Kind {
	case ArtifactImage, ArtifactAudio, ArtifactVideo:
		return true
	default:
		return false
	}
}

// DataURI re-encodes media bytes for inline display. It returns "" for
// non-media artifacts.
func (a Artifact) DataURI() string {
	if !a.IsMedia() || len(a.Data) == 0 {
		return ""
	}
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
