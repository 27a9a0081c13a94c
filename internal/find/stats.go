package trawl

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Stats accumulates counters for one traversal. The walker runs on a
// single goroutine, so plain fields suffice.
type Stats struct {
	DirsVisited int64         // directories entered, root included
	Evaluated   int64         // non-directory entries tested against the criteria
	Matches     int64         // entries that satisfied every criterion
	MetaErrors  int64         // stat failures on candidate entries
	DirErrors   int64         // unreadable directories, skipped subtrees
	ExecErrors  int64         // actions that failed to run
	Elapsed     time.Duration // wall time of the walk
}

// Render writes a summary table to w.
func (s *Stats) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Directories visited", s.DirsVisited},
		{"Entries evaluated", s.Evaluated},
		{"Matches", s.Matches},
		{"Metadata errors", s.MetaErrors},
		{"Directory errors", s.DirErrors},
		{"Action errors", s.ExecErrors},
		{"Elapsed", s.Elapsed.Round(time.Millisecond)},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}
