package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/config"
	"github.com/amishk599/jobcal/internal/model"
)

var parseCmd = &cobra.Command{
	Use:   "parse <url>",
	Short: "Parse a posting and print it as JSON",
	Long:  "Fetches the URL, extracts the posting and prints the result. Nothing is stored.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parsedJobJSON is the printed shape of a parse result.
type parsedJobJSON struct {
	URL            string         `json:"url"`
	CompanyName    string         `json:"companyName"`
	JobTitle       string         `json:"jobTitle"`
	Deadline       string         `json:"deadline,omitempty"`
	Location       string         `json:"location,omitempty"`
	Description    string         `json:"description"`
	DescriptionRaw string         `json:"descriptionRaw"`
	ParsedData     model.Metadata `json:"parsedData"`
}

func newParsedJobJSON(url string, job model.ParsedJob) parsedJobJSON {
	out := parsedJobJSON{
		URL:            url,
		CompanyName:    job.CompanyName,
		JobTitle:       job.JobTitle,
		Location:       job.Location,
		Description:    job.Description,
		DescriptionRaw: job.DescriptionRaw,
		ParsedData:     job.ParsedData,
	}
	if job.Deadline != nil {
		out.Deadline = job.Deadline.Format("2006-01-02")
	}
	return out
}

func runParse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, parseBudget(cfg))
	defer cancel()

	url := args[0]
	job, err := buildParser(cfg, logger).Parse(ctx, url)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(newParsedJobJSON(url, job))
}

// parseBudget bounds one parse: the page fetch, one delegated fetch for
// aggregator pages and the reformat call. Configured retries extend each
// fetch by their attempts and the longest backoff they may sleep.
func parseBudget(cfg *config.Config) time.Duration {
	perFetch := cfg.Fetch.Timeout
	if n := cfg.Fetch.MaxRetries; n > 0 {
		perFetch += time.Duration(n) * cfg.Fetch.Timeout
		// Backoff doubles per retry with up to 30% jitter.
		backoff := cfg.Fetch.RetryBaseDelay * time.Duration((1<<n)-1)
		perFetch += backoff + backoff*3/10
	}
	return 2*perFetch + cfg.AI.Timeout + 5*time.Second
}
