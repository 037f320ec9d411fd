package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"

	"github.com/arthur-debert/dockplate/pkg/types"
)

// synthBridge exposes a types.FS to synthfs pipelines. Relative names are
// resolved against root.
type synthBridge struct {
	fs   types.FS
	root string
}

// ForSynthfs returns a synthfs filesystem that reads and writes through
// fsys and accepts absolute paths
func ForSynthfs(fsys types.FS) filesystem.FullFileSystem {
	base := &synthBridge{fs: fsys, root: string(filepath.Separator)}
	return synthfs.NewPathAwareFileSystem(base, "/").WithAbsolutePaths()
}

func (b *synthBridge) path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(b.root, filepath.FromSlash(name))
}

func (b *synthBridge) Open(name string) (fs.File, error)      { return b.fs.Open(b.path(name)) }
func (b *synthBridge) Stat(name string) (fs.FileInfo, error)  { return b.fs.Stat(b.path(name)) }
func (b *synthBridge) Lstat(name string) (fs.FileInfo, error) { return b.fs.Lstat(b.path(name)) }
func (b *synthBridge) ReadFile(name string) ([]byte, error)   { return b.fs.ReadFile(b.path(name)) }
func (b *synthBridge) ReadDir(name string) ([]fs.DirEntry, error) {
	return b.fs.ReadDir(b.path(name))
}

func (b *synthBridge) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return b.fs.WriteFile(b.path(name), data, perm)
}

func (b *synthBridge) MkdirAll(name string, perm fs.FileMode) error {
	return b.fs.MkdirAll(b.path(name), perm)
}

func (b *synthBridge) Remove(name string) error    { return b.fs.Remove(b.path(name)) }
func (b *synthBridge) RemoveAll(name string) error { return b.fs.RemoveAll(b.path(name)) }

func (b *synthBridge) Rename(oldpath, newpath string) error {
	return b.fs.Rename(b.path(oldpath), b.path(newpath))
}

func (b *synthBridge) Symlink(oldname, newname string) error {
	return b.fs.Symlink(oldname, b.path(newname))
}

func (b *synthBridge) Readlink(name string) (string, error) {
	return b.fs.Readlink(b.path(name))
}
