package model

import (
	"net/url"
	"path"
	"strings"
)

var (
	audioExtensions = map[string]struct{}{
		"mp3": {}, "wav": {}, "flac": {}, "aac": {}, "ogg": {}, "m4a": {},
	}
	imageExtensions = map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {}, "tiff": {}, "svg": {}, "webp": {},
	}
	videoExtensions = map[string]struct{}{
		"mp4": {}, "mov": {}, "wmv": {}, "flv": {}, "avi": {}, "avchd": {}, "mkv": {}, "webm": {},
	}
)

// DetectFileType returns the coarse tag for an example value: strings are
// sniffed by extension, lists map to "list", objects to "json" and every
// other scalar to "string".
func DetectFileType(value any) string {
	switch v := value.(type) {
	case string:
		return detectPathType(v)
	case []any, []string:
		return TagList
	case map[string]any:
		return TagJSON
	default:
		return TagString
	}
}

func detectPathType(value string) string {
	switch ext := extension(value); {
	case has(audioExtensions, ext):
		return TagAudio
	case has(imageExtensions, ext):
		return TagImage
	case has(videoExtensions, ext):
		return TagVideo
	default:
		return TagString
	}
}

// extension returns the lowercased extension of a URL path or plain file
// path, without the leading dot.
func extension(value string) string {
	target := value
	if parsed, err := url.Parse(value); err == nil && parsed.Path != "" {
		target = parsed.Path
	}
	ext := path.Ext(target)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func has(set map[string]struct{}, key string) bool {
	if key == "" {
		return false
	}
	_, ok := set[key]
	return ok
}
