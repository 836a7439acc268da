package filesystem

import (
	"io"
	"io/fs"
	"path/filepath"
)

// FS is the set of filesystem operations the scaffolding pipeline needs.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error

	// Walk visits root and everything below it in lexical order,
	// parents before children.
	Walk(root string, fn filepath.WalkFunc) error

	CreateTemp(dir, pattern string) (string, io.WriteCloser, error)
	Chmod(name string, mode fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}
