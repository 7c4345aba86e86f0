// Package initialize seeds a pot repository: it creates the storage layout,
// optionally clones tracked files from a git repository, scans the storage
// directory for hidden entries and writes a fresh manifest.
package initialize

import (
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/east825/pot/pkg/errors"
	"github.com/east825/pot/pkg/filesystem"
	"github.com/east825/pot/pkg/logging"
	"github.com/east825/pot/pkg/manifest"
	"github.com/east825/pot/pkg/paths"
	"github.com/east825/pot/pkg/report"
)

// Options holds the options for Run
type Options struct {
	// Location is the repository directory to create or populate
	Location string

	// GitURL, when set, seeds the storage subdirectory from a git clone
	GitURL string

	// Reporter narrates the steps
	Reporter *report.Reporter
}

// Run initializes the repository and returns the manifest it wrote.
// Clone failures are fatal; a repository without its tracked files is not
// worth a manifest.
func Run(opts Options) (*manifest.Manifest, error) {
	logger := logging.GetLogger("initialize")

	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.New(false, false)
	}

	if !filesystem.LExists(opts.Location) {
		if err := os.MkdirAll(opts.Location, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create repository %s", opts.Location)
		}
	}

	if opts.GitURL != "" {
		err := reporter.StepFatal("Cloning "+opts.GitURL, func() error {
			return filesystem.WithWorkingDir(opts.Location, func() error {
				return cloneDotfiles(opts.GitURL)
			})
		})
		if err != nil {
			return nil, err
		}
	}

	storage := paths.StorageDir(opts.Location)
	if !filesystem.LExists(storage) {
		logger.Debug().Str("path", storage).Msg("Creating storage directory")
		if err := os.Mkdir(storage, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create storage directory %s", storage)
		}
	}

	entries, err := scanHidden(storage)
	if err != nil {
		return nil, err
	}

	m, err := manifest.New(entries)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("entries", len(entries)).Msg("New manifest built")

	manifestPath := paths.ManifestPath(opts.Location)
	reporter.Infof("Writing manifest with %d entries to %s", len(entries), manifestPath)
	if err := m.Save(manifestPath); err != nil {
		return nil, err
	}
	return m, nil
}

// cloneDotfiles clones url into the storage subdirectory and initializes
// submodules when the clone carries any. Runs with the working directory
// set to the repository root.
func cloneDotfiles(url string) error {
	if err := runGit("clone", url, paths.DotfilesDirName); err != nil {
		return err
	}
	if !filesystem.LExists(paths.DotfilesDirName + "/.gitmodules") {
		return nil
	}
	return filesystem.WithWorkingDir(paths.DotfilesDirName, func() error {
		if err := runGit("submodule", "init"); err != nil {
			return err
		}
		return runGit("submodule", "update")
	})
}

func runGit(args ...string) error {
	logger := logging.GetLogger("initialize")
	logger.Debug().Strs("args", args).Msg("Running git")

	cmd := exec.Command("git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrGitClone, "git %s failed", strings.Join(args, " "))
	}
	return nil
}

// scanHidden lists the hidden entries of the storage directory, the files
// the fresh manifest will track. The clone's own .git directory is not a
// dotfile.
func scanHidden(storage string) ([]manifest.Entry, error) {
	dirEntries, err := os.ReadDir(storage)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read storage directory %s", storage)
	}

	var entries []manifest.Entry
	for _, de := range dirEntries {
		name := de.Name()
		if !strings.HasPrefix(name, ".") || name == ".git" {
			continue
		}
		entries = append(entries, manifest.NewEntry(name))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
