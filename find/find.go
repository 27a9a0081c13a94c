package find

import (
	"context"
	"io"

	internal "github.com/avelano/trawl/internal/find"
)

// Re-export the types from the internal package
type (
	// Criteria is the conjunction of optional predicates a file must satisfy.
	Criteria = internal.Criteria

	// SizeSpec is a size constraint with a comparison mode.
	SizeSpec = internal.SizeSpec

	// SizeMode selects how a size constraint compares against a file size.
	SizeMode = internal.SizeMode

	// Match describes a file that satisfied the criteria.
	Match = internal.Match

	// Handler processes one match.
	Handler = internal.Handler

	// Options configures a search.
	Options = internal.Options

	// Stats holds counters describing one finished search.
	Stats = internal.Stats

	// LogLevel defines the verbosity of diagnostics.
	LogLevel = internal.LogLevel
)

// Re-export the constants
const (
	// Size comparison modes
	SizeEqual   = internal.SizeEqual
	SizeLess    = internal.SizeLess
	SizeGreater = internal.SizeGreater

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug
)

// ParseSizeSpec parses a size constraint of the form [=|-|+]N, where N is
// a size in bytes. A missing comparator means exact equality.
func ParseSizeSpec(s string) (SizeSpec, error) {
	return internal.ParseSizeSpec(s)
}

// Find walks the tree rooted at root and applies handler to every file
// that satisfies the criteria. A nil handler prints matched paths, or
// runs the configured executable when Options.Exec is set.
func Find(ctx context.Context, root string, opts Options, handler Handler) error {
	return internal.Find(ctx, root, opts, handler)
}

// FindExec walks the tree rooted at root and runs exe once per match,
// with the matched path as the only argument.
func FindExec(ctx context.Context, root string, opts Options, exe string) error {
	return internal.FindExec(ctx, root, opts, exe)
}

// PrintHandler returns a handler that writes each matched path to w,
// one per line.
func PrintHandler(w io.Writer) Handler {
	return internal.PrintHandler(w)
}

// ExecHandler returns a handler that runs exe with the matched path as
// its only argument, forwarding the child's output to stdout and stderr.
func ExecHandler(exe string, stdout, stderr io.Writer) Handler {
	return internal.ExecHandler(exe, stdout, stderr)
}
