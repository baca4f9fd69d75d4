package outputs

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"net/http"
	"strings"

	// Registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

// Decode converts flattened leaves into artifacts without touching storage.
// Falsy leaves are dropped. Image payloads in a format the process cannot
// decode keep their bytes with a nil Image; corrupt or empty payloads fail
// with a *DecodeError.
func Decode(leaves []Leaf) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(leaves))
	for i, leaf := range leaves {
		if leaf.falsy() {
			continue
		}
		switch leaf.Kind {
		case LeafImageData:
			data, mime, err := decodeDataURI(leaf.Text)
			if err != nil {
				return nil, &DecodeError{Index: i, Kind: leaf.Kind, Err: err}
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil && !errors.Is(err, image.ErrFormat) {
				return nil, &DecodeError{Index: i, Kind: leaf.Kind, Err: err}
			}
			artifacts = append(artifacts, Artifact{Kind: ArtifactImage, Image: img, Data: data, MIME: mime})
		case LeafAudioData, LeafVideoData:
			data, mime, err := decodeDataURI(leaf.Text)
			if err != nil {
				return nil, &DecodeError{Index: i, Kind: leaf.Kind, Err: err}
			}
			kind := ArtifactAudio
			if leaf.Kind == LeafVideoData {
				kind = ArtifactVideo
			}
			artifacts = append(artifacts, Artifact{Kind: kind, Data: data, MIME: mime})
		default:
			artifacts = append(artifacts, Artifact{Kind: ArtifactValue, Value: leaf.Value()})
		}
	}
	return artifacts, nil
}

// decodeDataURI splits "data:<mime>;base64,<payload>" and decodes the
// payload. The declared MIME type wins unless it is missing or generic, in
// which case the bytes are sniffed.
func decodeDataURI(uri string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, "", errors.New("data URI has no payload separator")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, "", err
		}
	}
	if len(data) == 0 {
		return nil, "", errors.New("data URI has an empty payload")
	}

	mime := strings.TrimPrefix(header, "data:")
	mime, _, _ = strings.Cut(mime, ";")
	if !strings.Contains(mime, "/") {
		mime = detectMIME(data)
	}
	return data, mime, nil
}

func detectMIME(head []byte) string {
	if len(head) == 0 {
		return "application/octet-stream"
	}
	if mt := http.DetectContentType(head); mt != "application/octet-stream" {
		return mt
	}
	return mimetype.Detect(head).String()
}
