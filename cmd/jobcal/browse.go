package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/inspect"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse saved postings interactively (TUI)",
	Long:  "Shows the posting picker, then a scrollable detail view. esc returns to the picker.",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	for {
		postings, err := st.ListPostings(ctx)
		if err != nil {
			return err
		}

		choice, err := inspect.RunPostingPicker(postings)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}

		wantQuit, err := inspect.RunViewer(inspect.FromPosting(postings[choice]))
		if err != nil {
			return fmt.Errorf("viewer: %w", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
