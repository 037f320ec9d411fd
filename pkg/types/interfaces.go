package types

import (
	"io/fs"
)

// FS is the filesystem surface used by the template store, the engine and
// the test harness. Implementations live in pkg/filesystem.
type FS interface {
	// File operations
	Open(name string) (fs.File, error)
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirTemp(dir, pattern string) (string, error)

	// Symlink operations. Filesystems without link support return an error.
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}
