package outputs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Materializer writes audio and video artifacts to storage under uniquely
// generated names. Images stay in memory.
type Materializer struct {
	fs  afero.Fs
	dir string
}

// NewMaterializer returns a Materializer rooted at dir on files. A nil files
// selects the operating system filesystem.
func NewMaterializer(files afero.Fs, dir string) *Materializer {
	if files == nil {
		files = afero.NewOsFs()
	}
	return &Materializer{fs: files, dir: dir}
}

// Dir returns the directory files are written to.
func (m *Materializer) Dir() string {
	return m.dir
}

// Materialize writes every audio/video artifact and records its Path. On any
// failure the files written so far are removed before returning.
func (m *Materializer) Materialize(ctx context.Context, artifacts []Artifact) (*Batch, error) {
	batch := &Batch{fs: m.fs}
	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("outputs: create media dir: %w", err)
	}
	for i := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(err, batch.Close())
		}
		ext := mediaExtension(artifacts[i].Kind)
		if ext == "" {
			continue
		}
		path := filepath.Join(m.dir, uuid.NewString()+ext)
		if err := afero.WriteFile(m.fs, path, artifacts[i].Data, 0o644); err != nil {
			return nil, errors.Join(fmt.Errorf("outputs: write %s: %w", path, err), batch.Close())
		}
		batch.paths = append(batch.paths, path)
		artifacts[i].Path = path
	}
	return batch, nil
}

func mediaExtension(kind ArtifactKind) string {
	switch kind {
	case ArtifactAudio:
		return ".wav"
	case ArtifactVideo:
		return ".mp4"
	default:
		return ""
	}
}

// Batch owns the files written for one submission.
type Batch struct {
	fs    afero.Fs
	paths []string
	once  sync.Once
	err   error
}

// Paths lists the files written, in artifact order.
func (b *Batch) Paths() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.paths...)
}

// Close removes every file in the batch. It is safe to call more than once.
func (b *Batch) Close() error {
	if b == nil {
		return nil
	}
	b.once.Do(func() {
		var errs []error
		for _, path := range b.paths {
			if err := b.fs.Remove(path); err != nil && !errors.Is(err, afero.ErrFileNotFound) {
				errs = append(errs, err)
			}
		}
		b.err = errors.Join(errs...)
	})
	return b.err
}
