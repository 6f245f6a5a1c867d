package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/scheduler"
	"github.com/amishk599/jobcal/internal/sweep"
)

const (
	// notificationRetention is how long announcement records outlive their deadline.
	notificationRetention = 30 * 24 * time.Hour
	taskPause             = 2 * time.Second
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the deadline reminder daemon",
	Long:  "Runs a deadline sweep every notification.interval; blocks until SIGINT/SIGTERM.",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("config loaded",
		"interval", cfg.Notification.Interval.String(),
		"window", cfg.Notification.Window.String(),
		"notifier", cfg.Notification.Type,
		"store", cfg.Store.Path,
	)

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	tasks := []scheduler.Task{
		sweep.NewSweeper(st, setupNotifier(cfg, logger), cfg.Notification.Window, logger),
		scheduler.NewTaskFunc("notification cleanup", func(ctx context.Context) error {
			return st.Cleanup(ctx, notificationRetention)
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(tasks, cfg.Notification.Interval, taskPause, logger)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	logger.Info("goodbye")
	return nil
}
