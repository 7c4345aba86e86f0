// Package config loads the optional per-repository settings file.
// Settings layer over built-in defaults; the CLI's flags take precedence
// over both. The file's absence is not an error.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/east825/pot/pkg/errors"
	"github.com/east825/pot/pkg/paths"
)

// Settings holds the repository-level options
type Settings struct {
	// DotfilesDir is the storage subdirectory name inside the repository
	DotfilesDir string

	// FailFast makes any entry-scoped failure abort the run
	FailFast bool

	// Quiet suppresses progress narration
	Quiet bool
}

// Default returns the built-in settings
func Default() Settings {
	return Settings{
		DotfilesDir: paths.DotfilesDirName,
		FailFast:    false,
		Quiet:       false,
	}
}

// Load reads settings for the repository at repoRoot: built-in defaults,
// overlaid with pot.toml from the repository root when it exists.
func Load(repoRoot string) (Settings, error) {
	k := koanf.New(".")

	defaults := Default()
	err := k.Load(confmap.Provider(map[string]interface{}{
		"dotfiles_dir": defaults.DotfilesDir,
		"failfast":     defaults.FailFast,
		"quiet":        defaults.Quiet,
	}, "."), nil)
	if err != nil {
		return defaults, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	settingsPath := paths.SettingsPath(repoRoot)
	_, statErr := os.Stat(settingsPath)
	switch {
	case statErr == nil:
		if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
			return defaults, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", settingsPath)
		}
	case !os.IsNotExist(statErr):
		return defaults, errors.Wrapf(statErr, errors.ErrConfigLoad, "failed to read settings from %s", settingsPath)
	}

	return Settings{
		DotfilesDir: k.String("dotfiles_dir"),
		FailFast:    k.Bool("failfast"),
		Quiet:       k.Bool("quiet"),
	}, nil
}
