package outputs

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestMaterializeWritesMediaAndCleansUp(t *testing.T) {
	t.Parallel()

	files := afero.NewMemMapFs()
	m := NewMaterializer(files, "/media")
	artifacts := []Artifact{
		{Kind: ArtifactValue, Value: "text"},
		{Kind: ArtifactAudio, Data: []byte("audio"), MIME: "audio/wav"},
		{Kind: ArtifactVideo, Data: []byte("video"), MIME: "video/mp4"},
		{Kind: ArtifactImage, Data: []byte("image"), MIME: "image/png"},
	}

	batch, err := m.Materialize(context.Background(), artifacts)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	paths := batch.Paths()
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want 2 files", paths)
	}
	if !strings.HasSuffix(artifacts[1].Path, ".wav") || !strings.HasSuffix(artifacts[2].Path, ".mp4") {
		t.Fatalf("unexpected extensions %q %q", artifacts[1].Path, artifacts[2].Path)
	}
	if artifacts[0].Path != "" || artifacts[3].Path != "" {
		t.Fatalf("only audio and video should be written")
	}
	if filepath.Dir(artifacts[1].Path) != "/media" {
		t.Fatalf("file written outside media dir: %s", artifacts[1].Path)
	}
	data, err := afero.ReadFile(files, artifacts[1].Path)
	if err != nil || string(data) != "audio" {
		t.Fatalf("read back audio: %q %v", data, err)
	}

	if err := batch.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, path := range paths {
		if exists, _ := afero.Exists(files, path); exists {
			t.Fatalf("expected %s to be removed", path)
		}
	}
	if err := batch.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestMaterializeUsesUniqueNames(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(afero.NewMemMapFs(), "/media")
	first := []Artifact{{Kind: ArtifactAudio, Data: []byte("a")}}
	second := []Artifact{{Kind: ArtifactAudio, Data: []byte("b")}}
	if _, err := m.Materialize(context.Background(), first); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if _, err := m.Materialize(context.Background(), second); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if first[0].Path == second[0].Path {
		t.Fatalf("expected distinct file names")
	}
}

func TestMaterializeCleansUpOnFailure(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	m := NewMaterializer(base, "/media")
	ctx, cancel := context.WithCancel(context.Background())
	artifacts := []Artifact{{Kind: ArtifactAudio, Data: []byte("a")}, {Kind: ArtifactVideo, Data: []byte("v")}}
	cancel()

	if _, err := m.Materialize(ctx, artifacts); err == nil {
		t.Fatalf("expected cancellation error")
	}
	entries, err := afero.ReadDir(base, "/media")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files after failure, found %d", len(entries))
	}
}
