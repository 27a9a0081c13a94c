// Package find provides recursive file search with composable criteria
// and a configurable per-match action.
//
// This package is the programmatic surface of the `trawl` command. A
// search walks the tree rooted at a path, evaluates every non-directory
// entry against the criteria, and applies an action to each match.
//
//	// Print every file named config.yaml under /etc.
//	name := "config.yaml"
//	opts := find.Options{Criteria: find.Criteria{Name: &name}}
//	err := find.Find(context.Background(), "/etc", opts, nil)
//
//	// Run a program once per empty file.
//	size, _ := find.ParseSizeSpec("=0")
//	opts := find.Options{Criteria: find.Criteria{Size: &size}}
//	err := find.FindExec(context.Background(), "/tmp/scratch", opts, "/usr/bin/shred")
//
//	// Collect matches with a custom handler.
//	err := find.Find(context.Background(), root, find.Options{}, func(ctx context.Context, m find.Match) error {
//		fmt.Printf("%s (%s)\n", m.Path, m.Name)
//		return nil
//	})
//
// # Watch functionality
//
// Watch applies the same criteria and actions to filesystem events
// instead of a batch walk:
//
//	opts := find.WatchOptions{
//		Events: []find.WatchEvent{find.EventCreate, find.EventWrite},
//	}
//	err := find.Watch(ctx, "/var/spool/incoming", opts, nil)
package find
