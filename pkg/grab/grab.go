// Package grab captures a live file into the pot repository: the file is
// moved into the storage subdirectory and a symlink is left in its place.
package grab

import (
	"os"
	"path/filepath"

	"github.com/east825/pot/pkg/errors"
	"github.com/east825/pot/pkg/filesystem"
	"github.com/east825/pot/pkg/logging"
	"github.com/east825/pot/pkg/paths"
	"github.com/east825/pot/pkg/report"
)

// Grab moves path into the repository designated by POT_HOME (or the
// default location) and symlinks it back. Both steps are fatal on failure:
// a half-captured file is worse than an error.
func Grab(path string, reporter *report.Reporter) error {
	logger := logging.GetLogger("grab")

	if reporter == nil {
		reporter = report.New(false, false)
	}

	repo := paths.GrabRepo()
	logger.Debug().Str("repo", repo).Msg("Using global repository")

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", path)
	}
	if !filesystem.LExists(absPath) {
		return errors.Newf(errors.ErrFileNotFound, "file %q does not exist", absPath)
	}

	storage := paths.StorageDir(repo)
	if err := os.MkdirAll(storage, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create storage directory %s", storage)
	}

	dst := filepath.Join(storage, filepath.Base(absPath))

	// A move always overwrites its target
	err = reporter.StepFatal("Moving "+absPath+" to "+dst, func() error {
		return filesystem.Move(absPath, dst)
	})
	if err != nil {
		return err
	}

	return reporter.StepFatal("Symlinking "+dst+" -> "+absPath, func() error {
		return os.Symlink(dst, absPath)
	})
}
