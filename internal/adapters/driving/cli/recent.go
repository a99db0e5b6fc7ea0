package cli

import (
	"github.com/spf13/cobra"

	"github.com/orbistack/kbsearch/internal/core/services"
)

var recentClear bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show or clear recent queries",
	Long: `Lists the recent search queries remembered for the current
identity, newest first. Expired entries are pruned on read.`,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().BoolVar(&recentClear, "clear", false, "forget all recent queries")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	kv, closeKV := openHistoryStore()
	defer closeKV()

	history := services.NewHistoryStore(kv, cfg)
	ctx := cmd.Context()

	if recentClear {
		history.Clear(ctx, flagIdentity)
		cmd.Println("Recent queries cleared.")
		return nil
	}

	entries := history.List(ctx, flagIdentity)
	if len(entries) == 0 {
		cmd.Println("No recent queries.")
		return nil
	}

	for _, entry := range entries {
		cmd.Printf("%s  %s\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.QueryText)
	}
	return nil
}
