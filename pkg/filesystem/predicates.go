// Package filesystem provides the filesystem classifiers and mutation
// helpers used by the reconciliation engine. The predicates are pure
// boolean classifiers over a path; they never mutate and never log.
package filesystem

import (
	"os"
)

// LExists reports whether something exists at path without following
// symlinks. A broken symlink exists; os.Stat would report otherwise.
func LExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symbolic link
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// IsRealDir reports whether path is a directory and not a symlink to one.
// os.Stat follows symlinks, so the link check has to come first.
func IsRealDir(path string) bool {
	if IsSymlink(path) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsBrokenLink reports whether path is a symbolic link whose target
// does not exist
func IsBrokenLink(path string) bool {
	if !IsSymlink(path) {
		return false
	}
	_, err := os.Stat(path)
	return err != nil
}

// PointsToSameFile reports whether dst is a symbolic link that resolves to
// the same underlying file as src. Identity is device+inode equivalence,
// not string equality of paths.
func PointsToSameFile(dst, src string) bool {
	if !IsSymlink(dst) {
		return false
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	return os.SameFile(dstInfo, srcInfo)
}
