package testutil

import (
	"os"
	"testing"
)

// AssertSymlinkTo fails the test unless link is a symlink resolving to the
// same file as target
func AssertSymlinkTo(t *testing.T, link, target string) {
	t.Helper()

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("expected symlink at %s: %v", link, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected %s to be a symlink, mode %v", link, info.Mode())
	}

	linkInfo, err := os.Stat(link)
	if err != nil {
		t.Fatalf("symlink %s does not resolve: %v", link, err)
	}
	targetInfo, err := os.Stat(target)
	if err != nil {
		t.Fatalf("symlink target %s does not exist: %v", target, err)
	}
	if !os.SameFile(linkInfo, targetInfo) {
		t.Errorf("symlink %s does not resolve to %s", link, target)
	}
}

// AssertFileContent fails the test unless path holds exactly content
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if string(data) != content {
		t.Errorf("content of %s = %q, want %q", path, string(data), content)
	}
}
