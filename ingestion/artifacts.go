package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
)

const artifactExt = ".json"

var artifactNameCleaner = strings.NewReplacer(
	"?", "", ":", "", "'", "", "|", "", "/", "", `\`, "",
)

// ArtifactName returns the file name a chunk is written to:
// chunk_<row>_<source base name without extension>.json, with characters
// that are unsafe in file names removed.
func ArtifactName(chunk *core.ChunkRecord) string {
	base := filepath.Base(chunk.Source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if chunk.Source == "" {
		base = chunk.ID
	}
	return artifactNameCleaner.Replace(fmt.Sprintf("chunk_%d_%s", chunk.Row, base)) + artifactExt
}

// ArtifactPath returns where a chunk is written under dir.
func ArtifactPath(dir string, chunk *core.ChunkRecord) string {
	return filepath.Join(dir, chunk.Kind.ArtifactDir(), ArtifactName(chunk))
}

// WriteArtifact writes chunk as JSON under dir and returns the file path.
func WriteArtifact(dir string, chunk *core.ChunkRecord) (string, error) {
	path := ArtifactPath(dir, chunk)
	data, err := json.Marshal(chunk)
	if err != nil {
		return "", fmt.Errorf("encoding chunk %s: %w", chunk.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadArtifact loads one chunk file. Integer fields keep their integer type.
// A file without a kind takes it from its parent directory name.
func ReadArtifact(path string) (*core.ChunkRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var chunk core.ChunkRecord
	if err := dec.Decode(&chunk); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, path, err)
	}
	for k, v := range chunk.Fields {
		chunk.Fields[k] = storage.NormalizeNumber(v)
	}
	if chunk.Kind == 0 {
		chunk.Kind = kindFromArtifactDir(filepath.Base(filepath.Dir(path)))
	}
	if chunk.Source == "" {
		chunk.Source = path
	}
	return &chunk, nil
}

func kindFromArtifactDir(dir string) core.Kind {
	for _, kind := range core.Kinds {
		if dir == kind.ArtifactDir() {
			return kind
		}
	}
	return 0
}

// ReadArtifacts loads every chunk file below dir. Files that cannot be read
// are returned as failures; only a walk error fails the call.
func ReadArtifacts(dir string) ([]*core.ChunkRecord, []ChunkFailure, error) {
	var (
		chunks   []*core.ChunkRecord
		failures []ChunkFailure
	)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), artifactExt) {
			return nil
		}
		chunk, readErr := ReadArtifact(path)
		if readErr != nil {
			failures = append(failures, ChunkFailure{Source: path, Err: readErr})
			return nil
		}
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return chunks, failures, nil
}
