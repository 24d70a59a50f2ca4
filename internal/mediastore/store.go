// Package mediastore manages exhibit-scoped storage directories on the local
// filesystem. The core only handles filename strings; upload and streaming
// mechanics live elsewhere.
package mediastore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const previewManifest = "manifest.json"

// Store maps exhibit UUIDs to directories under a root. Intentionally simple
// and not concurrent-writer safe beyond what the filesystem provides.
type Store struct {
	root string
}

// New returns a media store rooted at path, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./media"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// sanitizeUUID rejects identifiers that could escape the root.
func sanitizeUUID(uuid string) error {
	if strings.TrimSpace(uuid) == "" {
		return fmt.Errorf("mediastore: empty exhibit id")
	}
	if strings.ContainsAny(uuid, `/\`) || strings.Contains(uuid, "..") {
		return fmt.Errorf("mediastore: invalid exhibit id %q", uuid)
	}
	return nil
}

func (s *Store) dirFor(uuid string) (string, error) {
	if err := sanitizeUUID(uuid); err != nil {
		return "", err
	}
	return filepath.Join(s.root, uuid), nil
}

// Provision creates the storage directory for an exhibit and returns its
// path. Provisioning an existing directory is a no-op.
func (s *Store) Provision(uuid string) (string, error) {
	dir, err := s.dirFor(uuid)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mediastore: provision %s: %w", uuid, err)
	}
	return dir, nil
}

// Remove deletes an exhibit's storage directory and everything under it.
func (s *Store) Remove(uuid string) error {
	dir, err := s.dirFor(uuid)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

func (s *Store) previewDir(uuid string) (string, error) {
	dir, err := s.dirFor(uuid)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preview"), nil
}

// PreviewExists reports whether a preview artifact has been built.
func (s *Store) PreviewExists(uuid string) bool {
	dir, err := s.previewDir(uuid)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, previewManifest))
	return err == nil
}

// TearDownPreview removes the preview artifact.
func (s *Store) TearDownPreview(uuid string) error {
	dir, err := s.previewDir(uuid)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// WritePreview builds the preview artifact: a manifest snapshot of the
// exhibit's live content.
func (s *Store) WritePreview(uuid string, manifest any) error {
	dir, err := s.previewDir(uuid)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mediastore: build preview %s: %w", uuid, err)
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("mediastore: encode preview %s: %w", uuid, err)
	}
	if err := os.WriteFile(filepath.Join(dir, previewManifest), raw, 0o644); err != nil {
		return fmt.Errorf("mediastore: write preview %s: %w", uuid, err)
	}
	return nil
}
