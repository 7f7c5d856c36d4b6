// Package cli wires pagefind's command-line surface: a single,
// subcommand-free root command that either runs one indexing pass or, with
// --service, hands stdin/stdout to the service-mode request loop.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pfconfig "github.com/pagefind-go/pagefind/internal/config"
	"github.com/pagefind-go/pagefind/internal/pipeline"
	"github.com/pagefind-go/pagefind/internal/service"
	"github.com/pagefind-go/pagefind/internal/stem"
)

// Version is stamped into every meta index this run produces; set by the
// build (see cmd/pagefind/main.go).
var Version = "dev"

var flags = viper.New()

var rootCmd = &cobra.Command{
	Use:   "pagefind",
	Short: "Pagefind indexes a static site for client-side full-text search",
	Long: `Pagefind crawls a built site's HTML output and produces a search
bundle: a set of content-addressed index, filter, and fragment files a
static site can load and query client-side, with no external service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	d := pfconfig.Default()

	rootCmd.Flags().String("source", d.Source, "root directory to crawl for HTML files")
	rootCmd.Flags().String("bundle-dir-path", d.BundleDirPath, "output directory for the search bundle")
	rootCmd.Flags().String("glob", d.Glob, "glob pattern selecting files to index, relative to source")
	rootCmd.Flags().String("force-language", d.ForceLanguage, "override the detected language for every page")
	rootCmd.Flags().StringSlice("exclude-selectors", d.ExcludeSelectors, "additional tag names to exclude from the page digest (exact tag match, not CSS selectors)")
	rootCmd.Flags().BoolP("verbose", "v", d.Verbose, "verbose mode; rejected together with --quiet, adds no extra output")
	rootCmd.Flags().BoolP("quiet", "q", d.Quiet, "suppress non-error output")
	rootCmd.Flags().String("logfile", d.LogFile, "write logs to this file instead of stderr")
	rootCmd.Flags().Bool("service", d.Service, "run in service mode, reading requests from stdin")

	// Config keys are underscore_separated (matching the yaml/env layers);
	// flag names stay dash-separated for CLI ergonomics, so each is bound
	// to its config key explicitly rather than relying on BindPFlags, which
	// would key on the literal (dashed) flag name.
	bind := map[string]string{
		"source":            "source",
		"bundle-dir-path":   "bundle_dir_path",
		"glob":              "glob",
		"force-language":    "force_language",
		"exclude-selectors": "exclude_selectors",
		"verbose":           "verbose",
		"quiet":             "quiet",
		"logfile":           "logfile",
		"service":           "service",
	}
	for flagName, key := range bind {
		flags.BindPFlag(key, rootCmd.Flags().Lookup(flagName))
	}
}

// Execute runs the root command, translating errors into the exit-code
// policy from spec.md §7: 0 on success, 1 on any configuration, I/O, or
// empty-corpus failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pagefind: error:", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}

	cfg, err := pfconfig.NewLoader(cwd).Load(flags)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	if cfg.Service {
		server := service.NewServer(stem.Default, Version)
		return server.Run(os.Stdin, os.Stdout)
	}

	pipeline.Version = Version
	progress := pipeline.ProgressReporter(pipeline.NewCLIProgressReporter(cfg.Quiet))
	stats, err := pipeline.Run(context.Background(), cfg, stem.Default, progress)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stdout, "indexed %d pages across %d languages (%d files skipped)\n",
			stats.PageCount, stats.LanguageCount, stats.DroppedFiles)
	}
	return nil
}
