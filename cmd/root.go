package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	trawl "github.com/avelano/trawl/internal/find"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trawl [options] <path>",
	Short: "Search a directory tree for files matching criteria",
	Long: `trawl recursively searches a directory tree and prints the path of
every file that satisfies the given criteria. Without criteria, every
file under the root is reported. An executable can be configured to run
once per match instead of printing the path.

Examples:
  trawl /var/log
  trawl --name=config.yaml /etc
  trawl --size=+1048576 --nlinks=1 /data
  trawl --exec=/usr/bin/shred --size=0 /tmp/scratch`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return runSearch(path)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trawl.yaml)")

	// Criteria flags. Numeric values stay strings so an absent flag is
	// distinguishable from zero.
	rootCmd.Flags().String("inum", "", "Match by inode number")
	rootCmd.Flags().StringP("name", "n", "", "Match by exact file name")
	rootCmd.Flags().String("iname", "", "Match by file name, ignoring case")
	rootCmd.Flags().StringP("size", "s", "", "Match by size in bytes ([=|-|+]N)")
	rootCmd.Flags().StringP("nlinks", "l", "", "Match by hard link count")

	// Action and output flags
	rootCmd.Flags().StringP("exec", "e", "", "Executable to run once per match")
	rootCmd.Flags().Bool("stats", false, "Print traversal statistics to stderr")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Bool("silent", false, "Disable all output except errors")

	// Bind flags to viper
	viper.BindPFlag("inum", rootCmd.Flags().Lookup("inum"))
	viper.BindPFlag("name", rootCmd.Flags().Lookup("name"))
	viper.BindPFlag("iname", rootCmd.Flags().Lookup("iname"))
	viper.BindPFlag("size", rootCmd.Flags().Lookup("size"))
	viper.BindPFlag("nlinks", rootCmd.Flags().Lookup("nlinks"))
	viper.BindPFlag("exec", rootCmd.Flags().Lookup("exec"))
	viper.BindPFlag("stats", rootCmd.Flags().Lookup("stats"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.Flags().Lookup("silent"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".trawl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".trawl")
	}

	viper.SetEnvPrefix("TRAWL")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in. Stdout stays reserved for
	// match paths, so report on stderr.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// criteriaFromFlags builds search criteria from the viper keys under
// prefix: "" for the root command, "watch." for the watch subcommand.
func criteriaFromFlags(prefix string) (trawl.Criteria, error) {
	var criteria trawl.Criteria

	if inumStr := viper.GetString(prefix + "inum"); inumStr != "" {
		inum, err := strconv.ParseUint(inumStr, 10, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid inum value: %s", inumStr)
		}
		criteria.Inode = &inum
	}

	if name := viper.GetString(prefix + "name"); name != "" {
		criteria.Name = &name
	}

	if iname := viper.GetString(prefix + "iname"); iname != "" {
		criteria.FoldName = &iname
	}

	if sizeStr := viper.GetString(prefix + "size"); sizeStr != "" {
		spec, err := trawl.ParseSizeSpec(sizeStr)
		if err != nil {
			return criteria, fmt.Errorf("invalid size value %q: %w", sizeStr, err)
		}
		criteria.Size = &spec
	}

	if nlinksStr := viper.GetString(prefix + "nlinks"); nlinksStr != "" {
		nlinks, err := strconv.ParseUint(nlinksStr, 10, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid nlinks value: %s", nlinksStr)
		}
		criteria.Links = &nlinks
	}

	return criteria, nil
}

// logLevelFromFlags maps the verbose and silent keys under prefix to an
// engine log level.
func logLevelFromFlags(prefix string) trawl.LogLevel {
	if viper.GetBool(prefix + "verbose") {
		return trawl.LogLevelDebug
	}
	if viper.GetBool(prefix + "silent") {
		return trawl.LogLevelError
	}
	return trawl.LogLevelInfo
}

func runSearch(root string) error {
	criteria, err := criteriaFromFlags("")
	if err != nil {
		return err
	}

	opts := trawl.Options{
		Criteria: criteria,
		LogLevel: logLevelFromFlags(""),
	}
	if viper.GetBool("stats") {
		opts.Stats = &trawl.Stats{}
	}

	ctx := context.Background()

	// Traversal diagnostics are contained by the engine; an error here
	// means the search itself could not run.
	if execCmd := viper.GetString("exec"); execCmd != "" {
		err = trawl.FindExec(ctx, root, opts, execCmd)
	} else {
		err = trawl.Find(ctx, root, opts, nil)
	}
	if err != nil {
		return err
	}

	if opts.Stats != nil {
		opts.Stats.Render(os.Stderr)
	}
	return nil
}
