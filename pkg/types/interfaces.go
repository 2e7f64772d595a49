package types

import (
	"io/fs"
)

// FS is the filesystem interface required for sprout operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// WriteFileExclusive creates the file and writes data, failing if the
	// file already exists. Used for the run lock.
	WriteFileExclusive(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides paths for sprout operations
type Pather interface {
	// DataDir returns the XDG data directory for sprout
	DataDir() string

	// ConfigDir returns the XDG config directory for sprout
	ConfigDir() string

	// CacheDir returns the XDG cache directory for sprout
	CacheDir() string

	// StateDir returns the XDG state directory for sprout
	StateDir() string

	// BackupsDir returns the directory holding per-run heavyweight backups
	BackupsDir() string
}
