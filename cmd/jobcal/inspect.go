package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/inspect"
	"github.com/amishk599/jobcal/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Parse a posting and browse the result (TUI)",
	Long:  "Shows a spinner while the URL is parsed, then opens a scrollable view of the result. Nothing is stored.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	url := args[0]
	p := buildParser(cfg, silentLogger())

	job, err := inspect.RunLoader(url, parseBudget(cfg), func(ctx context.Context) (model.ParsedJob, error) {
		return p.Parse(ctx, url)
	})
	if errors.Is(err, inspect.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = inspect.RunViewer(inspect.FromParsedJob(url, job))
	return err
}
