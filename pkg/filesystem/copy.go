package filesystem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/east825/pot/pkg/errors"
)

// Copy duplicates src into dst, dispatching on the source type: a full
// recursive tree copy for directories, a single file copy otherwise.
func Copy(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
	}
	if info.IsDir() {
		return CopyTree(src, dst)
	}
	return CopyFile(src, dst)
}

// CopyFile copies a single file's contents and permission bits
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", dst)
	}
	return nil
}

// CopyTree recursively copies the directory tree rooted at src to dst,
// producing an independent, non-linked tree. Symlinks inside the tree are
// reproduced as symlinks with the same destination.
func CopyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Lstat(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", srcPath)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to read link %s", srcPath)
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", dstPath)
			}
		case info.IsDir():
			if err := CopyTree(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := CopyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// Move renames src to dst, falling back to copy-and-remove when the rename
// crosses devices. An existing dst is overwritten, matching rename semantics.
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s after copy", src)
	}
	return nil
}
