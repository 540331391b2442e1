package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
)

// OS stores files on disk.
type OS struct{}

var _ Store = OS{}

func (OS) Reset(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if !owned(entries) {
		return fmt.Errorf("%w: %s", ErrNotOwned, dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, Marker), nil, fileMode)
}

func (OS) WriteFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), dirMode); err != nil {
		return err
	}

	return os.WriteFile(name, data, fileMode)
}

func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, entry := range entries {
		if entry.Type().IsRegular() && entry.Name() != Marker {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

func (OS) RemoveAll(dir string) error {
	return os.RemoveAll(dir)
}

// Lock holds a flock on a sibling "<dir>.lock" file until the returned
// function is called. The lock file stays in place: removing it would let
// two runs lock different inodes.
func (OS) Lock(dir string) (func() error, error) {
	path := filepath.Clean(dir) + ".lock"

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, err
	}

	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}

	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("unlock %s: %w", path, err)
		}

		return nil
	}, nil
}
