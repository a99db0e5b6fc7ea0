package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orbistack/kbsearch/internal/adapters/driven/feed/filesystem"
	"github.com/orbistack/kbsearch/internal/adapters/driven/identity"
	"github.com/orbistack/kbsearch/internal/adapters/driving/tui"
	"github.com/orbistack/kbsearch/internal/core/services"
)

// runOverlay builds the search pipeline and opens the interactive
// overlay. When the user picks an article it is printed to stdout
// after the overlay closes.
func runOverlay(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	dir, err := articlesDir()
	if err != nil {
		return err
	}
	feed, err := filesystem.NewFeed(dir)
	if err != nil {
		return fmt.Errorf("opening article directory: %w", err)
	}

	kv, closeKV := openHistoryStore()
	defer closeKV()

	history := services.NewHistoryStore(kv, cfg)
	who := identity.NewStatic(flagIdentity)
	session := services.NewSession(feed, history, who, cfg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("starting search session: %w", err)
	}
	defer session.Close()

	doc, chosen, err := tui.Run(session)
	if err != nil {
		return fmt.Errorf("running search overlay: %w", err)
	}
	if !chosen {
		return nil
	}

	cmd.Println(doc.Title)
	if doc.AuthorName != "" {
		cmd.Printf("by %s\n", doc.AuthorName)
	}
	if len(doc.Categories) > 0 {
		cmd.Printf("categories: %s\n", strings.Join(doc.Categories, ", "))
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	if doc.Body != "" {
		cmd.Println()
		cmd.Println(doc.Body)
	} else if doc.Excerpt != "" {
		cmd.Println()
		cmd.Println(doc.Excerpt)
	}
	return nil
}
