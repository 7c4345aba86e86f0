// Package install implements the reconciliation engine: it compares the
// manifest's declared state against the actual filesystem and performs the
// minimal safe mutation for each entry. Failures are entry-scoped and
// non-fatal by default; fail-fast escalation is the caller's opt-in.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/east825/pot/pkg/config"
	"github.com/east825/pot/pkg/errors"
	"github.com/east825/pot/pkg/filesystem"
	"github.com/east825/pot/pkg/logging"
	"github.com/east825/pot/pkg/manifest"
	"github.com/east825/pot/pkg/paths"
	"github.com/east825/pot/pkg/report"
)

// InclusionFormat is the template for the line appended by the include
// action. The format is bit-exact: changing it breaks idempotence detection
// against previously installed lines.
const InclusionFormat = ". %s"

// Status describes the outcome of one entry's installation
type Status string

// Entry outcomes
const (
	StatusInstalled     Status = "installed"
	StatusAlreadyOk     Status = "already-ok"
	StatusConflict      Status = "conflict"
	StatusSourceMissing Status = "source-missing"
	StatusNotFound      Status = "not-found"
	StatusFailed        Status = "failed"
)

// Options holds the options for Install
type Options struct {
	// RepoRoot is the repository directory holding the manifest and storage
	RepoRoot string

	// Names selects a subset of manifest entries. Empty means all entries.
	Names []string

	// Force makes any existing destination object eligible for removal
	Force bool

	// FailFast aborts the run on the first entry-scoped failure
	FailFast bool

	// Quiet suppresses progress narration
	Quiet bool

	// Reporter overrides the default stdout/stderr reporter. The merged
	// flag and settings policy is applied to whichever reporter is used.
	Reporter *report.Reporter
}

// EntryResult records one entry's outcome
type EntryResult struct {
	Name   string
	Status Status
	Err    error
}

// Result collects per-entry outcomes of a run
type Result struct {
	Entries []EntryResult
}

// Failed counts the entries that did not reach their target state
func (r *Result) Failed() int {
	n := 0
	for _, e := range r.Entries {
		switch e.Status {
		case StatusInstalled, StatusAlreadyOk:
		default:
			n++
		}
	}
	return n
}

// Install reconciles the requested manifest entries against the filesystem.
// The manifest is read once and never mutated. A missing or unparseable
// manifest is fatal; everything downstream is entry-scoped unless FailFast
// is set. The returned error is non-nil only for fatal conditions.
func Install(opts Options) (*Result, error) {
	logger := logging.GetLogger("install")

	settings, err := config.Load(opts.RepoRoot)
	if err != nil {
		return nil, err
	}
	failFast := opts.FailFast || settings.FailFast
	quiet := opts.Quiet || settings.Quiet

	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.New(quiet, failFast)
	} else {
		// pot.toml may tighten the policy of a caller-supplied reporter
		reporter.Quiet = reporter.Quiet || quiet
		reporter.FailFast = reporter.FailFast || failFast
	}

	m, err := manifest.Load(paths.ManifestPath(opts.RepoRoot))
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("entries", len(m.Dotfiles)).Str("repo", opts.RepoRoot).Msg("Manifest loaded")

	storageDir, err := filepath.Abs(filepath.Join(opts.RepoRoot, settings.DotfilesDir))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to resolve storage directory")
	}

	entries, result, fatal := selectEntries(m, opts.Names, failFast, reporter)
	if fatal != nil {
		return result, fatal
	}

	for _, entry := range entries {
		res, fatal := installEntry(entry, storageDir, opts.Force, failFast, reporter, logger)
		result.Entries = append(result.Entries, res)
		if fatal != nil {
			return result, fatal
		}
	}

	return result, nil
}

// selectEntries resolves the requested subset. An unknown requested name is
// an entry-scoped error: it is reported, recorded, and does not abort the
// rest of the batch unless failFast is set.
func selectEntries(m *manifest.Manifest, names []string, failFast bool, reporter *report.Reporter) ([]manifest.Entry, *Result, error) {
	result := &Result{}

	if len(names) == 0 {
		return m.Dotfiles, result, nil
	}

	var entries []manifest.Entry
	for _, name := range names {
		entry, ok := m.Lookup(name)
		if !ok {
			err := errors.Newf(errors.ErrEntryNotFound, "no manifest entry named %q", name)
			reporter.Errorf("No entry named %q in the manifest. Check your configuration.", name)
			result.Entries = append(result.Entries, EntryResult{Name: name, Status: StatusNotFound, Err: err})
			if failFast {
				return nil, result, err
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, result, nil
}

// installEntry reconciles a single entry. The second return value is non-nil
// only when the failure must abort the whole run.
func installEntry(entry manifest.Entry, storageDir string, force, failFast bool, reporter *report.Reporter, logger zerolog.Logger) (EntryResult, error) {
	src := filepath.Join(storageDir, entry.Name)
	if !filesystem.LExists(src) {
		err := errors.Newf(errors.ErrSourceMissing, "dotfile %q does not exist", src)
		reporter.Errorf("Dotfile %q doesn't exist. Check your configuration.", src)
		if failFast {
			return EntryResult{Name: entry.Name, Status: StatusSourceMissing, Err: err}, err
		}
		return EntryResult{Name: entry.Name, Status: StatusSourceMissing, Err: err}, nil
	}

	dst := paths.ExpandHome(entry.Target)
	logger.Debug().Str("name", entry.Name).Str("src", src).Str("dst", dst).
		Str("action", string(entry.Action)).Msg("Reconciling entry")

	// Removal phase. The include action appends in place and never removes.
	// os.Stat follows links and reports broken symlinks as absent, so the
	// existence test has to be link-aware.
	if entry.Action != manifest.ActionInclude && filesystem.LExists(dst) {
		if force || filesystem.IsBrokenLink(dst) || filesystem.PointsToSameFile(dst, src) {
			var removeErr error
			if fatal := reporter.Step("Removing "+dst, func() error {
				removeErr = remove(dst)
				return removeErr
			}); fatal != nil {
				return EntryResult{Name: entry.Name, Status: StatusFailed, Err: fatal}, fatal
			}
			if removeErr != nil {
				return EntryResult{Name: entry.Name, Status: StatusFailed, Err: removeErr}, nil
			}
		} else {
			err := errors.Newf(errors.ErrDestConflict, "destination %q exists", dst).WithDetail("path", dst)
			reporter.Errorf("File %q exists. Delete it manually or use force mode to override it", dst)
			if failFast {
				return EntryResult{Name: entry.Name, Status: StatusConflict, Err: err}, err
			}
			return EntryResult{Name: entry.Name, Status: StatusConflict, Err: err}, nil
		}
	}

	// Placement phase
	var placeErr error
	var status Status
	var fatal error
	switch entry.Action {
	case manifest.ActionSymlink:
		status = StatusInstalled
		fatal = reporter.Step(fmt.Sprintf("Symlinking %q -> %q", src, dst), func() error {
			placeErr = os.Symlink(src, dst)
			return placeErr
		})
	case manifest.ActionCopy:
		status = StatusInstalled
		fatal = reporter.Step(fmt.Sprintf("Copying %q -> %q", src, dst), func() error {
			placeErr = filesystem.Copy(src, dst)
			return placeErr
		})
	case manifest.ActionInclude:
		fatal = reporter.Step(fmt.Sprintf("Including %q in %q", src, dst), func() error {
			status, placeErr = include(src, dst, reporter)
			return placeErr
		})
	default:
		// Unknown actions are rejected at manifest parse time
		placeErr = errors.Newf(errors.ErrInternal, "unhandled action %q", entry.Action)
	}

	if fatal != nil {
		return EntryResult{Name: entry.Name, Status: StatusFailed, Err: fatal}, fatal
	}
	if placeErr != nil {
		return EntryResult{Name: entry.Name, Status: StatusFailed, Err: placeErr}, nil
	}
	return EntryResult{Name: entry.Name, Status: status}, nil
}

// remove deletes the object at path. Recursive removal is used only for a
// real directory; a symlink to a directory is removed as a single object so
// the link target's contents survive.
func remove(path string) error {
	if filesystem.IsRealDir(path) {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// include appends the inclusion line for src to dst unless an equal line is
// already present. The match is anchored to line boundaries: each existing
// line is compared whole, after trimming surrounding whitespace. Repeated
// invocations never duplicate the line.
func include(src, dst string, reporter *report.Reporter) (Status, error) {
	line := fmt.Sprintf(InclusionFormat, src)

	data, err := os.ReadFile(dst)
	if err != nil && !os.IsNotExist(err) {
		return StatusFailed, err
	}

	reporter.Infof("Checking for previous inclusion in %q...", dst)
	for _, existing := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(existing) == line {
			reporter.Info("Found. Skipping")
			return StatusAlreadyOk, nil
		}
	}
	reporter.Info("Not found")

	// Keep the appended statement on its own line even when the file does
	// not end with a newline
	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return StatusFailed, err
	}
	reporter.Infof("Appending %q to %s", line, dst)
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		_ = f.Close()
		return StatusFailed, err
	}
	if err := f.Close(); err != nil {
		return StatusFailed, err
	}
	return StatusInstalled, nil
}
