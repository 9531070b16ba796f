// Package publish stores finished export bundles: the emitted script plus
// its config artifacts, either on the local filesystem or in an S3 bucket.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
)

// Bundle is one publishable export result.
type Bundle struct {
	// Name keys the bundle in the store, e.g. the topology name.
	Name string
	// Script is the emitted emulation script.
	Script []byte
	// Artifacts maps relative paths (e.g. "5g-configs/amf.yaml") to content.
	Artifacts map[string][]byte
}

// Publisher persists a bundle somewhere durable.
type Publisher interface {
	Publish(ctx context.Context, b *Bundle) (location string, err error)
}

// LocalStore writes bundles below a base directory, one subdirectory per
// bundle name.
type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

func (s *LocalStore) Publish(ctx context.Context, b *Bundle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(s.BaseDir, b.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create bundle dir: %w", err)
	}

	scriptPath := filepath.Join(dir, "topology.py")
	if err := os.WriteFile(scriptPath, b.Script, 0755); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}

	// Write artifacts in sorted order so retries touch files in the same
	// sequence.
	rels := maps.Keys(b.Artifacts)
	slices.Sort(rels)
	for _, rel := range rels {
		content := b.Artifacts[rel]
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return "", fmt.Errorf("create artifact dir: %w", err)
		}
		if err := os.WriteFile(p, content, 0644); err != nil {
			return "", fmt.Errorf("write artifact %s: %w", rel, err)
		}
	}

	logging.Info("bundle published",
		logging.Path(dir), logging.Int("artifacts", len(b.Artifacts)))
	return dir, nil
}
