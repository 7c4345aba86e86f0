// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Build isolated repository/home fixtures for engine tests

package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/east825/pot/pkg/manifest"
	"github.com/east825/pot/pkg/paths"
	"github.com/east825/pot/pkg/report"
)

// TestEnvironment provides an isolated repository and home directory on a
// real filesystem. The symlink-identity predicates need real inodes, so
// everything runs under t.TempDir.
type TestEnvironment struct {
	// RepoRoot is the repository directory (manifest + storage)
	RepoRoot string

	// Storage is the tracked-file storage subdirectory
	Storage string

	// Home is the fixture home directory; HOME points here for the test
	Home string

	t *testing.T
}

// NewTestEnvironment creates an isolated environment and points HOME at it
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	base := t.TempDir()
	env := &TestEnvironment{
		RepoRoot: filepath.Join(base, "repo"),
		Home:     filepath.Join(base, "home"),
		t:        t,
	}
	env.Storage = paths.StorageDir(env.RepoRoot)

	if err := os.MkdirAll(env.Storage, 0755); err != nil {
		t.Fatalf("failed to create storage dir: %v", err)
	}
	if err := os.MkdirAll(env.Home, 0755); err != nil {
		t.Fatalf("failed to create home dir: %v", err)
	}

	t.Setenv("HOME", env.Home)
	return env
}

// AddFile places a tracked file into the storage subdirectory
func (env *TestEnvironment) AddFile(name, content string) string {
	env.t.Helper()

	path := filepath.Join(env.Storage, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create parent for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// AddDir places a tracked directory tree into the storage subdirectory
func (env *TestEnvironment) AddDir(name string, files map[string]string) string {
	env.t.Helper()

	root := filepath.Join(env.Storage, name)
	if err := os.MkdirAll(root, 0755); err != nil {
		env.t.Fatalf("failed to create dir %s: %v", name, err)
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			env.t.Fatalf("failed to create parent for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			env.t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

// HomePath joins a name onto the fixture home directory
func (env *TestEnvironment) HomePath(name string) string {
	return filepath.Join(env.Home, name)
}

// WriteManifest persists the manifest into the repository root
func (env *TestEnvironment) WriteManifest(m *manifest.Manifest) {
	env.t.Helper()

	if err := m.Save(paths.ManifestPath(env.RepoRoot)); err != nil {
		env.t.Fatalf("failed to save manifest: %v", err)
	}
}

// Reporter returns a quiet reporter capturing output in buffers
func Reporter(failFast bool) (*report.Reporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return report.NewWithWriters(false, failFast, &out, &errOut), &out, &errOut
}
