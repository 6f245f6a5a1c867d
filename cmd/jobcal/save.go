package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/model"
)

var saveCmd = &cobra.Command{
	Use:   "save <url>",
	Short: "Parse a posting and store it",
	Long: "Parses the URL and upserts the posting keyed by its canonical URL. An existing\n" +
		"posting is only refreshed when the new parse found a deadline. A NOT_APPLIED\n" +
		"application is created for postings that have none.",
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	parseCtx, cancel := context.WithTimeout(ctx, parseBudget(cfg))
	defer cancel()

	url := args[0]
	job, err := buildParser(cfg, logger).Parse(parseCtx, url)
	if err != nil {
		return err
	}
	if msg := job.ParsedData.String("error"); msg != "" {
		logger.Warn("saving placeholder result", "url", url, "error", msg)
	}

	posting, outcome, err := st.UpsertPosting(ctx, url, job)
	if err != nil {
		return fmt.Errorf("save posting: %w", err)
	}

	apps, err := st.ListApplications(ctx, posting.ID)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}
	if len(apps) == 0 {
		app, err := st.CreateApplication(ctx, posting.ID, model.StatusNotApplied)
		if err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		apps = append(apps, app)
	}

	deadline := "상시"
	if posting.Deadline != nil {
		deadline = posting.Deadline.Format("2006-01-02")
	}
	fmt.Printf("%s posting #%d: %s · %s (마감 %s)\n", outcome, posting.ID, posting.CompanyName, posting.JobTitle, deadline)
	fmt.Printf("application #%d: %s\n", apps[0].ID, apps[0].Status)
	return nil
}
