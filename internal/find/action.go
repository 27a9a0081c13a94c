package trawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Match describes one entry that satisfied every criterion.
type Match struct {
	Path string // full path, parent path + separator + name
	Name string // base name of the entry
}

// Handler consumes one match. The walker reports a returned error on the
// diagnostic channel and keeps going; no handler error stops traversal.
type Handler func(ctx context.Context, m Match) error

// PrintHandler returns the default action: write the matched path and a
// newline to w.
func PrintHandler(w io.Writer) Handler {
	return func(_ context.Context, m Match) error {
		_, err := fmt.Fprintln(w, m.Path)
		return err
	}
}

// ExecHandler returns the exec action: run exe with the matched path as
// its single argument and block until the child exits. The child inherits
// this process's environment and writes to stdout/stderr directly. A
// non-zero child exit is observed but never treated as an error; a
// failure to start or await the child is returned for the walker to
// report.
func ExecHandler(exe string, stdout, stderr io.Writer) Handler {
	return func(ctx context.Context, m Match) error {
		cmd := exec.CommandContext(ctx, exe, m.Path)
		// Env stays nil so the child sees the parent environment as-is.
		cmd.Stdout = stdout
		cmd.Stderr = stderr

		err := cmd.Run()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The child ran to completion; its exit status is not ours
			// to propagate.
			return nil
		}
		return err
	}
}

// defaultHandler picks the action for a run: exec when an executable is
// configured, otherwise print.
func defaultHandler(opts Options) Handler {
	if opts.Exec != "" {
		return ExecHandler(opts.Exec, opts.Stdout, opts.Stderr)
	}
	return PrintHandler(opts.Stdout)
}
