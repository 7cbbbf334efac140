package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"largestbanks/internal/config"
	"largestbanks/internal/fetcher"
	"largestbanks/internal/pipeline"
	"largestbanks/internal/ratelimit"
)

const (
	configFlagName   = "config"
	logLevelFlagName = "log-level"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags holds the flags of the root command.
type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "largestbanks",
		Short: "Scrape the largest banks by market capitalization and load them into CSV and SQL",
		Long: heredoc.Doc(`
			largestbanks downloads the archived "List of largest banks" page, extracts
			every bank with its market capitalization, converts it to EUR, GBP and INR
			using the exchange rate file, then writes the result to a CSV file and
			replaces a table in the relational store with it. Three fixed queries are
			run against the table and printed.

			Every completed stage is appended to the progress log. Configuration comes
			from config.yaml (current directory or $HOME/.largestbanks), a file given
			with --config, and BANKS_* environment variables.
		`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(logLevelFlagName) {
				cfg.LogLevel = flags.logLevel
			}
			if err := setupLogging(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
				return err
			}

			// Cancel the run on interrupt signals
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.configPath, configFlagName, "", "path to a YAML config file")
	cmd.Flags().StringVarP(&flags.logLevel, logLevelFlagName, "v", config.DefaultLogLevel, "diagnostic log level (debug, info, warn, error)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// setupLogging installs the default slog logger at the given level
func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// run wires the HTTP fetcher into the pipeline and executes it once
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	page := fetcher.NewHTTPPageFetcher(cfg.SourceURL, fetcher.Options{
		Retries: cfg.FetchRetries,
		Timeout: cfg.FetchTimeout,
		Limiter: ratelimit.New(cfg.FetchRateLimit),
	})
	defer page.Close()

	_, err := pipeline.New(cfg, page, out).Run(ctx)
	return err
}
