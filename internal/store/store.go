// Package store holds the files extracted from a Markdown document between
// extraction and execution.
package store

import (
	"errors"
	"io/fs"
)

// Store is the extraction directory backend.
type Store interface {
	// Reset empties dir, creating it when needed. It refuses a non-empty
	// directory that holds no Marker, so user files are never deleted.
	Reset(dir string) error
	// WriteFile writes a file, creating parent directories.
	WriteFile(name string, data []byte) error
	// ReadFile returns the content of a file.
	ReadFile(name string) ([]byte, error)
	// List returns the names of the regular files directly inside dir,
	// sorted, without the Marker.
	List(dir string) ([]string, error)
	// RemoveAll deletes dir and everything below it.
	RemoveAll(dir string) error
	// Lock takes exclusive ownership of dir for one run.
	Lock(dir string) (func() error, error)
}

// Marker is the file Reset leaves in every directory it creates.
const Marker = ".mdcheck"

// ErrNotOwned is returned by Reset for a directory it did not create.
var ErrNotOwned = errors.New("directory is not empty and was not created by mdcheck")

// owned reports whether a directory with these entries may be emptied.
func owned(entries []fs.DirEntry) bool {
	if len(entries) == 0 {
		return true
	}

	for _, entry := range entries {
		if entry.Name() == Marker && !entry.IsDir() {
			return true
		}
	}

	return false
}

// ErrLocked is returned by Lock when another run owns the directory.
var ErrLocked = errors.New("extraction directory is used by another run")

const (
	dirMode  = 0o755
	fileMode = 0o644
)
