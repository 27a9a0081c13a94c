package trawl

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Options configures one search run. It is built once before traversal
// starts and never mutated afterwards.
type Options struct {
	// Criteria every non-directory entry is tested against.
	Criteria Criteria

	// Exec is the executable to run once per match, with the matched path
	// as its single argument. Empty means print paths instead.
	Exec string

	// Stdout receives matched paths, or child stdout when Exec is set.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives child stderr when Exec is set. Defaults to
	// os.Stderr.
	Stderr io.Writer

	// Logger carries traversal diagnostics. Built from LogLevel when nil.
	Logger   *zap.Logger
	LogLevel LogLevel

	// Stats, when non-nil, is filled with counters for the run.
	Stats *Stats
}

// Find walks the tree rooted at root depth-first in platform directory
// order, evaluates every non-directory entry against the criteria and
// hands each match to handler. A nil handler prints matched paths to
// opts.Stdout, or runs opts.Exec when that is set.
//
// Traversal-time failures are contained: unreadable directories are
// skipped, stat races make the entry a non-match, handler errors are
// reported and the walk moves on. All of them surface as diagnostics on
// the logger. The only error Find returns is ctx cancellation.
func Find(ctx context.Context, root string, opts Options, handler Handler) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = newLogger(opts.LogLevel)
		defer logger.Sync()
	}
	if handler == nil {
		handler = defaultHandler(opts)
	}
	stats := opts.Stats
	if stats == nil {
		stats = &Stats{}
	}
	start := time.Now()
	defer func() { stats.Elapsed = time.Since(start) }()

	// The root must name a directory; anything else is a diagnostic, not
	// a failed run. Lstat, because the walk below does not traverse
	// symlinked roots either.
	info, err := os.Lstat(root)
	if err != nil {
		logger.Warn("cannot read search root", zap.String("path", root), zap.Error(err))
		stats.DirErrors++
		return nil
	}
	if !info.IsDir() {
		logger.Warn("search root is not a directory", zap.String("path", root))
		stats.DirErrors++
		return nil
	}

	logger.Debug("starting search",
		zap.String("root", root),
		zap.Bool("exec", opts.Exec != ""),
	)

	walkErr := godirwalk.Walk(root, &godirwalk.Options{
		// Platform directory order, like readdir. Matches stream out in
		// traversal order.
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.IsDir() {
				stats.DirsVisited++
				return nil
			}

			stats.Evaluated++
			matched, err := opts.Criteria.Matches(de.Name(), path)
			if err != nil {
				logger.Warn("cannot stat entry", zap.String("path", path), zap.Error(err))
				stats.MetaErrors++
				return nil
			}
			if !matched {
				return nil
			}

			stats.Matches++
			if err := handler(ctx, Match{Path: path, Name: de.Name()}); err != nil {
				logger.Error("action failed", zap.String("path", path), zap.Error(err))
				stats.ExecErrors++
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			logger.Warn("skipping unreadable directory", zap.String("path", path), zap.Error(err))
			stats.DirErrors++
			return godirwalk.SkipNode
		},
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Sub-root failures were already answered with SkipNode; what is
		// left is root-level, such as the root vanishing mid-walk.
		logger.Warn("walk ended early", zap.String("root", root), zap.Error(walkErr))
		stats.DirErrors++
	}

	logger.Debug("search finished",
		zap.Int64("evaluated", stats.Evaluated),
		zap.Int64("matches", stats.Matches),
	)
	return nil
}

// FindExec is Find with the exec action installed: exe runs once per
// match with the matched path as its only argument.
func FindExec(ctx context.Context, root string, opts Options, exe string) error {
	opts.Exec = exe
	return Find(ctx, root, opts, nil)
}
