// Package project inspects a front-end project on disk: it reads the
// package.json manifest, classifies the framework the project uses and
// decides which distribution formats a library build has to produce.
//
// Every function takes the project root explicitly; nothing in this package
// consults the process working directory.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	zglerrors "github.com/conneroisu/zgl/internal/errors"
)

// ManifestFileName is the name of the project manifest.
const ManifestFileName = "package.json"

// Manifest is the subset of package.json zgl reads. Dependency versions are
// only used for presence checks.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	// Exports is kept as decoded JSON since it may be a string, an array or
	// a nested conditions object.
	Exports interface{} `json:"exports"`
}

// HasDependency reports whether name is declared in dependencies or
// devDependencies.
func (m *Manifest) HasDependency(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// ManifestPath returns the manifest location for a project root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}

// ParseManifest decodes manifest bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// ReadManifest reads and parses the manifest at path. A missing file yields
// (nil, err) with an I/O error; callers treat both cases as "no information".
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zglerrors.NewIOError(zglerrors.ErrCodeManifestUnreadable, "failed to read manifest", err).
			WithFile(path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, zglerrors.NewValidationError(zglerrors.ErrCodeManifestInvalid, err.Error()).
			WithFile(path)
	}
	return m, nil
}
