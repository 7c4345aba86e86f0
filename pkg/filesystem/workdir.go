package filesystem

import (
	"os"

	"github.com/east825/pot/pkg/logging"
)

// WithWorkingDir runs fn with the process working directory changed to dir,
// restoring the previous working directory on every exit path. The working
// directory is process-wide state, so callers must not run this concurrently.
func WithWorkingDir(dir string, fn func() error) error {
	logger := logging.GetLogger("filesystem")

	oldCwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	logger.Debug().Str("dir", dir).Msg("Changed working directory")

	defer func() {
		if err := os.Chdir(oldCwd); err != nil {
			logger.Error().Err(err).Str("dir", oldCwd).Msg("Failed to restore working directory")
			return
		}
		logger.Debug().Str("dir", oldCwd).Msg("Restored working directory")
	}()

	return fn()
}
