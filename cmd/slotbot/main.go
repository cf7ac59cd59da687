// Command slotbot watches a government appointment-booking site for open
// slots and notifies a Discord or Slack webhook.
//
// Usage:
//
//	slotbot watch    poll on an interval and notify the webhook
//	slotbot check    run a single cycle and print to stdout
//	slotbot version  print build information
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"slot_bot/internal/checker"
	"slot_bot/internal/config"
	"slot_bot/internal/geo"
	"slot_bot/internal/locations"
	"slot_bot/internal/model"
	"slot_bot/internal/notify"
	"slot_bot/internal/scheduler"
	"slot_bot/internal/source"
)

var version = "dev"

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "slotbot",
		Short:        "Appointment slot watcher",
		SilenceUsage: true,
	}
	root.AddCommand(watchCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll for appointments and notify the webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.WebhookURL == "" {
				return fmt.Errorf("WEBHOOK_URL is required")
			}

			log := newLogger(cfg.LogLevel)
			for _, w := range cfg.Warnings {
				log.Warn(w)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client := &http.Client{Timeout: cfg.HTTPTimeout}
			chk := checker.New(buildEligibility(ctx, cfg, client, log), cfg.DateFilter, cfg.TimeFilter, log)
			src := source.New(client, cfg.SourceURL)
			sender := notify.NewWebhook(client, cfg.WebhookKind, cfg.WebhookURL, log)
			sched := scheduler.New(src, chk, sender, cfg, log)

			log.Info("starting watcher",
				"type", cfg.AppointmentType,
				"interval", cfg.PollInterval,
				"webhook", string(cfg.WebhookKind))
			sched.Run(ctx)
			log.Info("watcher stopped")
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one scrape cycle and print the notification text",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := newLogger(cfg.LogLevel)
			for _, w := range cfg.Warnings {
				log.Warn(w)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client := &http.Client{Timeout: cfg.HTTPTimeout}
			chk := checker.New(buildEligibility(ctx, cfg, client, log), cfg.DateFilter, cfg.TimeFilter, log)
			src := source.New(client, cfg.SourceURL)

			var results map[string]model.AppointmentResult
			batch, err := src.Fetch(ctx, cfg.AppointmentType)
			if err != nil {
				results = checker.ErrorBatch(err)
			} else {
				results = chk.Assemble(batch)
			}

			for _, r := range results {
				if r.IsError {
					fmt.Fprintf(os.Stderr, "error: %s: %s\n", r.LocationName, r.ErrorMessage)
				}
			}

			text := notify.Format(results)
			if text == "" {
				fmt.Println(scheduler.ProofOfLifeMessage)
				return nil
			}
			fmt.Print(text)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("slotbot %s\n", version)
		},
	}
}

// buildEligibility wires the geo filter. Every failure path disables
// filtering rather than aborting startup.
func buildEligibility(ctx context.Context, cfg *config.Config, client *http.Client, log *slog.Logger) *geo.Eligibility {
	if cfg.UserAddress == "" || cfg.RadiusMiles <= 0 {
		log.Debug("geo filtering not configured")
		return geo.Disabled()
	}
	if cfg.LocationsPath == "" {
		log.Warn("USER_ADDRESS is set but LOCATIONS_PATH is not, geo filtering disabled")
		return geo.Disabled()
	}

	locs, err := locations.Load(cfg.LocationsPath, log)
	if err != nil {
		log.Warn("load location reference data, geo filtering disabled", "error", err)
		return geo.Disabled()
	}

	query := &geo.Query{Address: cfg.UserAddress, RadiusMiles: cfg.RadiusMiles}
	return geo.Build(ctx, geo.NewNominatimClient(client), locs, query, log)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
