package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcal/internal/ai"
	"github.com/amishk599/jobcal/internal/config"
	"github.com/amishk599/jobcal/internal/fetch"
	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/notifier"
	"github.com/amishk599/jobcal/internal/parser"
	"github.com/amishk599/jobcal/internal/ratelimit"
	"github.com/amishk599/jobcal/internal/retry"
	"github.com/amishk599/jobcal/internal/store"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobcal",
	Short: "Save Korean job postings and track their deadlines",
	Long: "jobcal parses job-posting URLs from wanted, jobkorea, inthiswork, zighang\n" +
		"and arbitrary career pages, stores them, and reminds you before they close.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBCAL_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBCAL_CONFIG env var > "./config.yaml".
// A missing ./config.yaml is not an error; built-in defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBCAL_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return config.Default(), nil
			}
		}
	}
	return config.Load(path)
}

// setupLogger writes to stderr so command output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// silentLogger is used by TUI commands; log output before the alt-screen
// starts corrupts the display.
func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildFetcher assembles the fetch chain: HTTP, then per-host rate limiting,
// then retries when configured.
func buildFetcher(cfg *config.Config, logger *slog.Logger) model.Fetcher {
	client := fetch.NewClient(cfg.Fetch.Timeout)
	var f model.Fetcher = fetch.NewHTTPFetcher(client, fetch.Options{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
	f = ratelimit.NewRateLimitedFetcher(f, ratelimit.NewHostLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst))
	if cfg.Fetch.MaxRetries > 0 {
		f = retry.NewRetryFetcher(f, cfg.Fetch.MaxRetries, cfg.Fetch.RetryBaseDelay, logger)
	}
	return f
}

func setupFormatter(cfg *config.Config, logger *slog.Logger) model.DescriptionFormatter {
	if !cfg.AI.Active() {
		if cfg.AI.Enabled {
			logger.Debug("ai reformat disabled: no api key")
		}
		return ai.NewNopDescriptionFormatter()
	}
	provider := ai.NewOpenAIProvider(
		cfg.AI.BaseURL,
		cfg.AI.APIKey,
		cfg.AI.Model,
		ai.GenerationOptions{
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
			Temperature:     cfg.AI.Temperature,
			TopP:            cfg.AI.TopP,
		},
		&http.Client{Timeout: cfg.AI.Timeout},
	)
	logger.Debug("ai reformat enabled", "model", cfg.AI.Model)
	return ai.NewLLMDescriptionFormatter(provider, ai.ReformatTemplate, logger)
}

func buildParser(cfg *config.Config, logger *slog.Logger) *parser.Parser {
	return parser.New(
		buildFetcher(cfg, logger),
		setupFormatter(cfg, logger),
		logger,
		parser.Options{StrictHosts: cfg.Parser.StrictHosts},
	)
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, fetch.NewClient(cfg.Fetch.Timeout), logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Store.Path)
}
