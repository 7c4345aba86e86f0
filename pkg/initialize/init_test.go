package initialize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east825/pot/pkg/initialize"
	"github.com/east825/pot/pkg/manifest"
	"github.com/east825/pot/pkg/paths"
	"github.com/east825/pot/pkg/testutil"
)

func TestRunCreatesRepositoryLayout(t *testing.T) {
	location := filepath.Join(t.TempDir(), "repo")

	reporter, _, _ := testutil.Reporter(false)
	m, err := initialize.Run(initialize.Options{Location: location, Reporter: reporter})
	require.NoError(t, err)
	assert.Empty(t, m.Dotfiles)

	info, err := os.Stat(paths.StorageDir(location))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(paths.ManifestPath(location))
	assert.NoError(t, err, "manifest written")
}

func TestRunScansHiddenEntries(t *testing.T) {
	location := t.TempDir()
	storage := paths.StorageDir(location)
	require.NoError(t, os.MkdirAll(storage, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(storage, ".vimrc"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(storage, ".vim"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(storage, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(storage, "README"), []byte("visible"), 0644))

	reporter, _, _ := testutil.Reporter(false)
	m, err := initialize.Run(initialize.Options{Location: location, Reporter: reporter})
	require.NoError(t, err)

	require.Len(t, m.Dotfiles, 2, "only hidden entries, minus .git")
	assert.Equal(t, ".vim", m.Dotfiles[0].Name)
	assert.Equal(t, ".vimrc", m.Dotfiles[1].Name)
	assert.Equal(t, manifest.ActionSymlink, m.Dotfiles[0].Action)
	assert.Equal(t, filepath.Join("~", ".vimrc"), m.Dotfiles[1].Target)

	reloaded, err := manifest.Load(paths.ManifestPath(location))
	require.NoError(t, err)
	assert.True(t, m.Equal(reloaded))
}

func TestRunCloneFailureIsFatal(t *testing.T) {
	location := t.TempDir()

	reporter, _, errOut := testutil.Reporter(false)
	_, err := initialize.Run(initialize.Options{
		Location: location,
		GitURL:   "file:///nonexistent/repo.git",
		Reporter: reporter,
	})
	require.Error(t, err, "clone failures abort initialization")
	assert.Contains(t, errOut.String(), "failed")
}
