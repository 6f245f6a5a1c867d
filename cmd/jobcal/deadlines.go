package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/store"
	"github.com/amishk599/jobcal/internal/sweep"
)

var deadlinesDryRun bool

var deadlinesCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "Run one deadline sweep and exit",
	Long: "Announces saved postings whose deadline falls within notification.window.\n" +
		"With --dry-run nothing is recorded, so the same postings are announced again next time.",
	Args: cobra.NoArgs,
	RunE: runDeadlines,
}

func init() {
	deadlinesCmd.Flags().BoolVar(&deadlinesDryRun, "dry-run", false, "announce without recording, ignoring earlier announcements")
	rootCmd.AddCommand(deadlinesCmd)
}

func runDeadlines(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var ds model.DeadlineStore = st
	if deadlinesDryRun {
		logger.Info("dry-run mode enabled, announcements will not be recorded")
		ds = store.NewDryRunStore(st)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sw := sweep.NewSweeper(ds, setupNotifier(cfg, logger), cfg.Notification.Window, logger)
	n, err := sw.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d posting(s) announced\n", n)
	return nil
}
