package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Build records one successful build of a source file
type Build struct {
	BuildID string    `json:"build_id"`
	Output  string    `json:"output"`
	Format  string    `json:"format"`
	Hash    string    `json:"hash"`
	MTime   int64     `json:"mtime"`
	BuiltAt time.Time `json:"built_at"`
}

// Manifest tracks the last build per source file
type Manifest struct {
	Builds map[string]*Build `json:"builds"` // source path -> last build
}

// NewManifest creates a new empty manifest
func NewManifest() *Manifest {
	return &Manifest{
		Builds: make(map[string]*Build),
	}
}

// Load reads a manifest from the manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	if m.Builds == nil {
		m.Builds = make(map[string]*Build)
	}

	return &m, nil
}

// Save writes the manifest to the manifest file
func (m *Manifest) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a source file has changed since its last build
// Uses hybrid mtime + hash approach
func (m *Manifest) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	build, exists := m.Builds[path]
	if !exists {
		// Never built
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == build.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != build.Hash, nil
}

// Record stores a finished build for a source file
func (m *Manifest) Record(source, output, format string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(source)
	if err != nil {
		return err
	}

	m.Builds[source] = &Build{
		BuildID: uuid.New().String(),
		Output:  output,
		Format:  format,
		Hash:    hash,
		MTime:   info.ModTime().Unix(),
		BuiltAt: time.Now().UTC(),
	}

	return nil
}
