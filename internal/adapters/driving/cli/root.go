// Package cli wires the command-line surface of kbsearch. The root
// command opens the interactive search overlay; subcommands expose
// the query history.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/orbistack/kbsearch/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagVerbose  bool
	flagConfig   string
	flagDocs     string
	flagData     string
	flagIdentity string
)

// rootCmd is the base command. Running it with no subcommand opens
// the search overlay.
var rootCmd = &cobra.Command{
	Use:   "kbsearch",
	Short: "Interactive knowledge base search",
	Long: `kbsearch is an as-you-type search overlay for a directory of
knowledge base articles.

Articles are JSON files with title, categories, tags, author, excerpt
and body fields. Matching is typo tolerant and weighted by field, and
recent queries are remembered between runs.

Controls:
  type     - Search as you type
  ↑/↓      - Navigate results and recent queries
  Enter    - Open result / re-run recent query
  Esc      - Close the overlay`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOverlay,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.kbsearch/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "data directory for query history (default ~/.kbsearch/data)")
	rootCmd.PersistentFlags().StringVar(&flagIdentity, "identity", "", "identity for history partitioning (default anonymous)")
	rootCmd.Flags().StringVarP(&flagDocs, "docs", "d", "", "directory of article JSON files (default ~/.kbsearch/articles)")
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
