// Package report narrates mutating steps to the user and converts expected
// failures into reported, non-fatal results. It is the boundary between the
// reconciliation engine and the terminal: the engine wraps each mutation in
// Step and never prints on its own.
package report

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/east825/pot/pkg/errors"
	"github.com/east825/pot/pkg/logging"
)

// Reporter wraps each mutating step with a human-readable announcement.
// It is an explicit value threaded into the engine's entry points, not
// ambient process state.
type Reporter struct {
	// Quiet suppresses progress announcements (errors still print)
	Quiet bool

	// FailFast escalates every failure instead of skipping the entry
	FailFast bool

	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger
}

// New creates a reporter writing to stdout/stderr. Color is disabled when
// stderr is not a terminal.
func New(quiet, failFast bool) *Reporter {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		pterm.DisableColor()
	}
	return &Reporter{
		Quiet:    quiet,
		FailFast: failFast,
		out:      os.Stdout,
		errOut:   os.Stderr,
		logger:   logging.GetLogger("report"),
	}
}

// NewWithWriters creates a reporter with explicit writers, used by tests
func NewWithWriters(quiet, failFast bool, out, errOut io.Writer) *Reporter {
	return &Reporter{
		Quiet:    quiet,
		FailFast: failFast,
		out:      out,
		errOut:   errOut,
		logger:   logging.GetLogger("report"),
	}
}

// Step announces msg, runs fn, and reports any failure with the underlying
// OS error text. Expected failures (coded errors and OS-level errors) are
// swallowed so the caller can continue with the next entry; unexpected
// error classes, or any error under FailFast, escalate to the caller.
func (r *Reporter) Step(msg string, fn func() error) error {
	r.Info(msg)

	err := fn()
	if err == nil {
		return nil
	}

	r.logger.Error().Err(err).Str("step", msg).Msg("Step failed")
	pterm.Error.WithWriter(r.errOut).Printfln("%q failed: %v", msg, err)

	if r.FailFast || !expected(err) {
		return err
	}
	return nil
}

// StepFatal behaves like Step but always escalates the failure, regardless
// of the FailFast policy. Used for steps the run cannot continue without.
func (r *Reporter) StepFatal(msg string, fn func() error) error {
	r.Info(msg)

	err := fn()
	if err == nil {
		return nil
	}

	r.logger.Error().Err(err).Str("step", msg).Msg("Step failed")
	pterm.Error.WithWriter(r.errOut).Printfln("%q failed: %v", msg, err)
	return err
}

// Info prints a progress line unless the reporter is quiet
func (r *Reporter) Info(msg string) {
	if r.Quiet {
		return
	}
	pterm.Info.WithWriter(r.out).Println(msg)
}

// Infof prints a formatted progress line unless the reporter is quiet
func (r *Reporter) Infof(format string, args ...interface{}) {
	if r.Quiet {
		return
	}
	pterm.Info.WithWriter(r.out).Printfln(format, args...)
}

// Error prints an error line; quiet mode does not suppress errors
func (r *Reporter) Error(msg string) {
	pterm.Error.WithWriter(r.errOut).Println(msg)
}

// Errorf prints a formatted error line
func (r *Reporter) Errorf(format string, args ...interface{}) {
	pterm.Error.WithWriter(r.errOut).Printfln(format, args...)
}

// expected reports whether err belongs to the anticipated failure taxonomy:
// pot's coded errors and OS-level path/link errors. Anything else is an
// unexpected class and must propagate.
func expected(err error) bool {
	var potErr *errors.PotError
	if stderrors.As(err, &potErr) {
		return true
	}
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return true
	}
	var linkErr *os.LinkError
	return stderrors.As(err, &linkErr)
}
