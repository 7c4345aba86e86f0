// Package paths provides centralized path handling for pot.
// It resolves the repository location, the home-relative shorthand used by
// manifest targets, and file locations inside a repository.
package paths

import (
	"os"
	"path/filepath"

	"github.com/east825/pot/pkg/errors"
)

// Environment variable names
const (
	// EnvPotHome designates the repository used by the grab command
	EnvPotHome = "POT_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Repository layout constants.
// These define pot's repository structure and are not user-configurable
// beyond the settings file override for the storage directory name.
const (
	// ManifestFileName is the name of the manifest file in the repository root
	ManifestFileName = "config.yaml"

	// DotfilesDirName is the default storage subdirectory for tracked files
	DotfilesDirName = "dotfiles"

	// SettingsFileName is the name of the optional repository settings file
	SettingsFileName = "pot.toml"

	// DefaultRepo is the default repository location for the grab command
	DefaultRepo = "~/.pot"
)

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// ExpandHome expands a leading ~ to the user's home directory.
// Paths that cannot be expanded are returned as-is.
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path == "~" {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return path
		}
		return homeDir
	}

	if len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// HomeRelative returns the home-relative shorthand for a name, the default
// target form used for manifest entries (`~/<name>`). Expansion happens at
// install time, not here.
func HomeRelative(name string) string {
	return filepath.Join("~", name)
}

// ManifestPath returns the manifest file location inside a repository
func ManifestPath(repoRoot string) string {
	return filepath.Join(repoRoot, ManifestFileName)
}

// StorageDir returns the tracked-file storage directory inside a repository
func StorageDir(repoRoot string) string {
	return filepath.Join(repoRoot, DotfilesDirName)
}

// SettingsPath returns the optional settings file location inside a repository
func SettingsPath(repoRoot string) string {
	return filepath.Join(repoRoot, SettingsFileName)
}

// GrabRepo resolves the repository used by the grab command: the POT_HOME
// environment variable when set, the default location otherwise. The result
// has the home shorthand expanded.
func GrabRepo() string {
	repo := os.Getenv(EnvPotHome)
	if repo == "" {
		repo = DefaultRepo
	}
	return ExpandHome(repo)
}
