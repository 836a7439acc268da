package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infraguys/genesis-templates/pkg/filesystem"
)

// WriteTree creates every file in files, keyed by path, with its parents.
func WriteTree(t *testing.T, fsys filesystem.FS, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
}

// ReadString returns the content of path.
func ReadString(t *testing.T, fsys filesystem.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// ListFiles returns the sorted regular files below root. A missing root
// has no files.
func ListFiles(t *testing.T, fsys filesystem.FS, root string) []string {
	t.Helper()
	if _, err := fsys.Stat(root); err != nil {
		return nil
	}

	var files []string
	err := fsys.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}
