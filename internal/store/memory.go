package store

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/liamg/memoryfs"
)

// Memory keeps files in memory. Paths are mapped onto a memoryfs tree, so
// absolute and relative names both work.
type Memory struct {
	mu     sync.Mutex
	fs     *memoryfs.FS
	locked map[string]bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{fs: memoryfs.New(), locked: make(map[string]bool)}
}

// key turns a host path into a valid io/fs path.
func key(name string) string {
	p := path.Clean(filepath.ToSlash(name))
	p = strings.TrimLeft(p, "/")

	parts := strings.Split(p, "/")
	for i, part := range parts {
		if part == ".." {
			parts[i] = "_parent"
		}
	}

	p = strings.Join(parts, "/")
	if p == "" {
		return "."
	}

	return p
}

func (m *Memory) Reset(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(dir)

	entries, err := fs.ReadDir(m.fs, k)
	if err == nil && !owned(entries) {
		return fmt.Errorf("%w: %s", ErrNotOwned, dir)
	}

	if err := m.removeAll(k); err != nil {
		return err
	}

	if err := m.mkdirAll(k); err != nil {
		return err
	}

	return m.fs.WriteFile(path.Join(k, Marker), nil, fileMode)
}

func (m *Memory) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := key(name)

	if err := m.mkdirAll(path.Dir(p)); err != nil {
		return err
	}

	return m.fs.WriteFile(p, data, fileMode)
}

func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fs.ReadFile(m.fs, key(name))
}

func (m *Memory) List(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := fs.ReadDir(m.fs, key(dir))
	if err != nil {
		return nil, err
	}

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() != Marker {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

func (m *Memory) RemoveAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.removeAll(key(dir))
}

func (m *Memory) Lock(dir string) (func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(dir)
	if m.locked[k] {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}

	m.locked[k] = true

	return func() error {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.locked, k)

		return nil
	}, nil
}

func (m *Memory) mkdirAll(p string) error {
	if p == "." {
		return nil
	}

	return m.fs.MkdirAll(p, dirMode)
}

// removeAll rebuilds the tree without p, since memoryfs has no recursive
// removal.
func (m *Memory) removeAll(p string) error {
	if p == "." {
		m.fs = memoryfs.New()

		return nil
	}

	if _, err := fs.Stat(m.fs, p); err != nil {
		return nil
	}

	next := memoryfs.New()

	err := fs.WalkDir(m.fs, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if name == p || strings.HasPrefix(name, p+"/") {
			if entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if name == "." {
			return nil
		}

		if entry.IsDir() {
			return next.MkdirAll(name, dirMode)
		}

		data, err := fs.ReadFile(m.fs, name)
		if err != nil {
			return err
		}

		return next.WriteFile(name, data, fileMode)
	})
	if err != nil {
		return err
	}

	m.fs = next

	return nil
}
