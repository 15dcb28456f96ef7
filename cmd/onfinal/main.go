package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ArtOfDelight/ONfinal/internal/config"
	"github.com/ArtOfDelight/ONfinal/internal/runner"
)

var (
	cfgFile  string
	verbose  bool
	dryRun   bool
	platform string
)

func main() {
	// Secrets (API keys, Mongo URI) come from the environment; a local
	// .env is the development convenience, absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "onfinal",
		Short: "ONfinal — restaurant partner-dashboard scraper",
		Long: `ONfinal scrapes the Swiggy and Zomato partner dashboards and appends
metrics, complaints and reviews to a Google spreadsheet.

Every append passes a dedup gate keyed on the record's natural key, so
re-running after a partial failure never duplicates rows.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "scrape without writing to the spreadsheet")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(unitCmd("metrics", "Scrape dashboard metrics", "metrics"))
	rootCmd.AddCommand(unitCmd("complaints", "Scrape customer complaints", "complaints"))
	rootCmd.AddCommand(unitCmd("reviews", "Scrape customer reviews", "reviews"))
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand: the full six-unit sequence.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every scraper unit in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(nil)
		},
	}
}

// unitCmd creates one category subcommand with a platform filter.
func unitCmd(use, short, category string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := unitsFor(category, platform)
			if err != nil {
				return err
			}
			return execute(units)
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "both", "platform: swiggy, zomato, both")
	return cmd
}

// unitsFor maps a category and platform filter onto unit names.
func unitsFor(category, platform string) ([]string, error) {
	var platforms []string
	switch strings.ToLower(platform) {
	case "swiggy":
		platforms = []string{"swiggy"}
	case "zomato":
		platforms = []string{"zomato"}
	case "both", "":
		platforms = []string{"swiggy", "zomato"}
	default:
		return nil, fmt.Errorf("unknown platform %q (want swiggy, zomato or both)", platform)
	}
	units := make([]string, 0, len(platforms))
	for _, p := range platforms {
		units = append(units, p+"_"+category)
	}
	return units, nil
}

func execute(units []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", "signal", sig)
		cancel()
	}()

	return runner.New(cfg, logger).Run(ctx, runner.Options{
		Units:  units,
		DryRun: dryRun,
	})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ONfinal %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Browser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Navigate Timeout:  %s\n", cfg.Browser.NavigateTimeout)
			fmt.Printf("  Locator Timeout:   %s\n", cfg.Browser.LocatorTimeout)
			fmt.Printf("\nSheets:\n")
			fmt.Printf("  Spreadsheet:       %s\n", cfg.Sheets.Spreadsheet)
			fmt.Printf("  Credentials:       %s\n", cfg.Sheets.CredentialsFile)
			fmt.Printf("\nMirror:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Mirror.Enabled)
			fmt.Printf("  Path:              %s\n", cfg.Mirror.Path)
			fmt.Printf("\nArchive:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Archive.Enabled)
			fmt.Printf("  Database:          %s\n", cfg.Archive.Database)
			fmt.Printf("\nGemini:\n")
			fmt.Printf("  Model:             %s\n", cfg.Gemini.Model)
			fmt.Printf("  Key configured:    %v\n", cfg.Gemini.APIKey != "")
			fmt.Printf("\nSwiggy:\n")
			fmt.Printf("  Outlets:           %d configured\n", len(cfg.Swiggy.OutletIDs))
			fmt.Printf("  Report Lag:        %d days\n", cfg.Swiggy.ReportLagDays)
			fmt.Printf("\nZomato:\n")
			fmt.Printf("  Outlets:           %d configured\n", len(cfg.Zomato.OutletIDs))
			fmt.Printf("  Report Lag:        %d days\n", cfg.Zomato.ReportLagDays)
			return nil
		},
	}
}

// setupLogger creates a structured logger per the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
