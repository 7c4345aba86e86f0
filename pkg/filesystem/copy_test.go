package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/east825/pot/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0600))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, filesystem.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permission bits are preserved")
}

func TestCopyFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(dst, []byte("old content that is longer"), 0644))

	require.NoError(t, filesystem.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "destination is truncated before writing")
}

func TestCopyTree(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top"), []byte("top"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "leaf"), []byte("leaf"), 0644))
	require.NoError(t, os.Symlink("top", filepath.Join(src, "alias")))

	dst := filepath.Join(dir, "copy")
	require.NoError(t, filesystem.CopyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "top"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(data))

	data, err = os.ReadFile(filepath.Join(dst, "sub", "leaf"))
	require.NoError(t, err)
	assert.Equal(t, "leaf", string(data))

	target, err := os.Readlink(filepath.Join(dst, "alias"))
	require.NoError(t, err)
	assert.Equal(t, "top", target, "symlinks inside the tree stay symlinks")

	assert.False(t, filesystem.IsSymlink(dst), "copied tree is independent, not linked")
}

func TestCopyDispatch(t *testing.T) {
	dir := t.TempDir()

	srcDir := filepath.Join(dir, "d")
	require.NoError(t, os.Mkdir(srcDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "f"), []byte("x"), 0644))

	dstDir := filepath.Join(dir, "dcopy")
	require.NoError(t, filesystem.Copy(srcDir, dstDir))
	assert.True(t, filesystem.IsRealDir(dstDir))

	srcFile := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(srcFile, []byte("x"), 0644))

	dstFile := filepath.Join(dir, "fcopy")
	require.NoError(t, filesystem.Copy(srcFile, dstFile))
	assert.False(t, filesystem.IsRealDir(dstFile))
}

func TestMoveOverwritesTarget(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("moved"), 0644))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, filesystem.Move(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "moved", string(data))
	assert.False(t, filesystem.LExists(src), "source is gone after move")
}
