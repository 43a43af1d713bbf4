package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidName is returned when an untrusted file name fails validation.
var ErrInvalidName = errors.New("invalid file name")

// Store manages the flat artifact directory. Files named
// {artifactId}.mp4 and {artifactId}_thumbnail.jpg live directly under
// the root; existence and mtime on disk are the only source of truth.
type Store struct {
	Dir string
}

// NewStore creates the filesystem adapter with the configured root.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// EnsureDir creates the artifact root.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// ArtifactPath returns the absolute path for a known-good artifact name.
func (s *Store) ArtifactPath(name string) string {
	return filepath.Join(s.Dir, name)
}

// Resolve validates an untrusted file name and returns its path inside
// the store. Path-traversal sequences are rejected before any
// filesystem access.
func (s *Store) Resolve(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", ErrInvalidName
	}
	full := filepath.Join(s.Dir, name)
	if !isWithinDir(s.Dir, full) {
		return "", ErrInvalidName
	}
	return full, nil
}

// Remove deletes an artifact by name. Missing files are not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.ArtifactPath(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Replace swaps a finished temporary artifact into the final name,
// deleting the previous file first.
func (s *Store) Replace(tempName, finalName string) error {
	if err := s.Remove(finalName); err != nil {
		return err
	}
	return os.Rename(s.ArtifactPath(tempName), s.ArtifactPath(finalName))
}

// ListOlderThan returns the names of regular files whose last-modified
// time is before cutoff.
func (s *Store) ListOlderThan(cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func isWithinDir(basePath, targetPath string) bool {
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return false
	}
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return false
	}
	sep := string(os.PathSeparator)
	if rel == ".." || strings.HasPrefix(rel, ".."+sep) {
		return false
	}
	return true
}
