// Package storage provides the file store port used for generated artifacts.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dealerhub/seo-engine/internal/models"
)

// FileStore abstracts where generated sitemap and robots artifacts live, so
// generation can be tested and redirected without touching the filesystem.
type FileStore interface {
	// Write stores data at path, replacing any previous content. Readers
	// must never observe a partially written file.
	Write(path string, data []byte) error

	// Read returns the content at path, or models.ErrNotFound.
	Read(path string) ([]byte, error)

	// ModTime returns the last modification time of path, or
	// models.ErrNotFound when the file does not exist.
	ModTime(path string) (time.Time, error)

	// List returns the paths under prefix, sorted.
	List(prefix string) ([]string, error)

	// Remove deletes the file at path. Removing a missing file is not an
	// error.
	Remove(path string) error
}

// LocalStore is a FileStore rooted at a directory on the local filesystem.
// Writes go to a temp file in the target directory followed by a rename, so
// concurrent readers always see either the old or the new content.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

func (s *LocalStore) fullPath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Write atomically replaces the file at path.
func (s *LocalStore) Write(path string, data []byte) error {
	full := s.fullPath(path)
	dir := filepath.Dir(full)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(full)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Read returns the content at path.
func (s *LocalStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(s.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ModTime returns the modification time of path.
func (s *LocalStore) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(s.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, models.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// List returns the file paths under prefix, relative to the store root.
func (s *LocalStore) List(prefix string) ([]string, error) {
	root := s.fullPath(prefix)
	var paths []string

	err := filepath.Walk(root, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Remove deletes the file at path.
func (s *LocalStore) Remove(path string) error {
	err := os.Remove(s.fullPath(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

type memFile struct {
	data    []byte
	modTime time.Time
}

// MemStore is an in-memory FileStore for tests and dry runs.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]memFile

	// Clock lets tests control modification timestamps. Defaults to
	// time.Now.
	Clock func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		files: make(map[string]memFile),
		Clock: time.Now,
	}
}

// Write stores data at path.
func (s *MemStore) Write(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.files[path] = memFile{data: buf, modTime: s.Clock()}
	return nil
}

// Read returns the content at path.
func (s *MemStore) Read(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[path]
	if !ok {
		return nil, models.ErrNotFound
	}
	return f.data, nil
}

// ModTime returns the modification time of path.
func (s *MemStore) ModTime(path string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[path]
	if !ok {
		return time.Time{}, models.ErrNotFound
	}
	return f.modTime, nil
}

// List returns the paths under prefix, sorted.
func (s *MemStore) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for path := range s.files {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Remove deletes the file at path.
func (s *MemStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

// SetModTime overrides a file's modification time. Test helper.
func (s *MemStore) SetModTime(path string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[path]; ok {
		f.modTime = t
		s.files[path] = f
	}
}
