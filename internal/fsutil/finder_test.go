package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.yaml")
	touch(t, dir, "sub/b.hcl")
	touch(t, dir, "notes.txt")

	files, err := FindFilesByExtension(dir, ".yaml", ".hcl")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.yaml", filepath.Base(files[0]))
	assert.Equal(t, "b.hcl", filepath.Base(files[1]))
}

func TestResolveProjectFile(t *testing.T) {
	t.Run("plain file passes through", func(t *testing.T) {
		dir := t.TempDir()
		path := touch(t, dir, "project.yaml")
		got, err := ResolveProjectFile(path, ".yaml")
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("directory with one document", func(t *testing.T) {
		dir := t.TempDir()
		path := touch(t, dir, "project.hcl")
		touch(t, dir, "README.md")
		got, err := ResolveProjectFile(dir, ".hcl", ".yaml")
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := ResolveProjectFile(t.TempDir(), ".hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no project document")
	})

	t.Run("ambiguous directory", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "a.yaml")
		touch(t, dir, "b.yaml")
		_, err := ResolveProjectFile(dir, ".yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pass one explicitly")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ResolveProjectFile(filepath.Join(t.TempDir(), "nope"), ".yaml")
		require.Error(t, err)
	})
}
