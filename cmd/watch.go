package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	trawl "github.com/avelano/trawl/internal/find"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [options] <path>",
	Short: "Watch a directory tree and react to matching files",
	Long: `Watch a directory tree for filesystem changes and apply the search
criteria to every affected file. Matching paths are printed, or handed
to an executable, exactly as in a batch search.

Examples:
  trawl watch /var/spool/incoming
  trawl watch --name=upload.done --exec=/usr/local/bin/ingest /var/spool/incoming
  trawl watch --events=create,remove /etc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return runWatch(path)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// The watch command takes the same criteria as a batch search.
	watchCmd.Flags().String("inum", "", "Match by inode number")
	watchCmd.Flags().StringP("name", "n", "", "Match by exact file name")
	watchCmd.Flags().String("iname", "", "Match by file name, ignoring case")
	watchCmd.Flags().StringP("size", "s", "", "Match by size in bytes ([=|-|+]N)")
	watchCmd.Flags().StringP("nlinks", "l", "", "Match by hard link count")
	watchCmd.Flags().StringP("exec", "e", "", "Executable to run once per match")
	watchCmd.Flags().StringSlice("events", []string{"create", "write"}, "Events to react to (create, write, remove, rename, chmod)")
	watchCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	watchCmd.Flags().Bool("silent", false, "Disable all output except errors")

	// Bind flags to viper
	viper.BindPFlag("watch.inum", watchCmd.Flags().Lookup("inum"))
	viper.BindPFlag("watch.name", watchCmd.Flags().Lookup("name"))
	viper.BindPFlag("watch.iname", watchCmd.Flags().Lookup("iname"))
	viper.BindPFlag("watch.size", watchCmd.Flags().Lookup("size"))
	viper.BindPFlag("watch.nlinks", watchCmd.Flags().Lookup("nlinks"))
	viper.BindPFlag("watch.exec", watchCmd.Flags().Lookup("exec"))
	viper.BindPFlag("watch.events", watchCmd.Flags().Lookup("events"))
	viper.BindPFlag("watch.verbose", watchCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("watch.silent", watchCmd.Flags().Lookup("silent"))
}

func runWatch(root string) error {
	criteria, err := criteriaFromFlags("watch.")
	if err != nil {
		return err
	}

	var events []trawl.WatchEvent
	for _, e := range viper.GetStringSlice("watch.events") {
		event, err := trawl.ParseWatchEvent(e)
		if err != nil {
			return err
		}
		events = append(events, event)
	}

	opts := trawl.WatchOptions{
		Options: trawl.Options{
			Criteria: criteria,
			Exec:     viper.GetString("watch.exec"),
			LogLevel: logLevelFromFlags("watch."),
		},
		Events: events,
	}

	// Watch until interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %s; press Ctrl+C to stop.\n", root)

	if err := trawl.Watch(ctx, root, opts, nil); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
