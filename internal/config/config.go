// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"slot_bot/internal/filter"
	"slot_bot/internal/notify"
)

// Config holds the application configuration. It is loaded once at
// startup and treated as immutable afterwards; components receive it (or
// fields from it) through their constructors.
type Config struct {
	AppointmentType string
	SourceURL       string

	WebhookKind  notify.Kind
	WebhookURL   string
	IntroMessage string

	PollInterval time.Duration
	JitterMin    time.Duration
	JitterMax    time.Duration
	ProofOfLife  bool

	UserAddress   string
	RadiusMiles   float64
	LocationsPath string

	DateFilter filter.DateSpec
	TimeFilter *filter.TimeWindow

	HTTPTimeout time.Duration
	LogLevel    string

	// Warnings collects non-fatal findings for the caller to log once a
	// logger exists (config is loaded before logging is set up).
	Warnings []string
}

const dateLayout = "1/2/2006"

// Load reads configuration from environment variables. Validation
// failures here are the only errors allowed to stop the process.
func Load() (*Config, error) {
	cfg := &Config{
		WebhookKind: notify.KindDiscord,
		LogLevel:    "info",
	}

	cfg.AppointmentType = os.Getenv("APPOINTMENT_TYPE")
	if cfg.AppointmentType == "" {
		return nil, fmt.Errorf("APPOINTMENT_TYPE is required")
	}
	cfg.SourceURL = os.Getenv("SOURCE_URL")
	if cfg.SourceURL == "" {
		return nil, fmt.Errorf("SOURCE_URL is required")
	}

	if raw := os.Getenv("WEBHOOK_KIND"); raw != "" {
		kind, err := notify.ParseKind(raw)
		if err != nil {
			return nil, err
		}
		cfg.WebhookKind = kind
	}
	cfg.WebhookURL = os.Getenv("WEBHOOK_URL")
	cfg.IntroMessage = os.Getenv("INTRO_MESSAGE")

	intervalMin, err := envInt("POLL_INTERVAL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if intervalMin <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_MINUTES must be positive, got %d", intervalMin)
	}
	cfg.PollInterval = time.Duration(intervalMin) * time.Minute

	jitterMin, err := envInt("JITTER_MIN_SECONDS", 0)
	if err != nil {
		return nil, err
	}
	jitterMax, err := envInt("JITTER_MAX_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	if jitterMin < 0 || jitterMax < jitterMin {
		return nil, fmt.Errorf("invalid jitter bounds [%d, %d]", jitterMin, jitterMax)
	}
	cfg.JitterMin = time.Duration(jitterMin) * time.Second
	cfg.JitterMax = time.Duration(jitterMax) * time.Second

	if raw := os.Getenv("PROOF_OF_LIFE"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PROOF_OF_LIFE %q: %w", raw, err)
		}
		cfg.ProofOfLife = v
	}

	cfg.UserAddress = os.Getenv("USER_ADDRESS")
	if raw := os.Getenv("RADIUS_MILES"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RADIUS_MILES %q: %w", raw, err)
		}
		cfg.RadiusMiles = v
	}
	cfg.LocationsPath = os.Getenv("LOCATIONS_PATH")

	if err := loadDateFilter(cfg); err != nil {
		return nil, err
	}
	if err := loadTimeFilter(cfg); err != nil {
		return nil, err
	}

	timeoutSec, err := envInt("HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", timeoutSec)
	}
	cfg.HTTPTimeout = time.Duration(timeoutSec) * time.Second

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}

	return cfg, nil
}

// loadDateFilter resolves the mutually exclusive absolute and relative
// date windows. When both are configured the absolute window wins and a
// warning is recorded; the docs tell users not to combine them but
// nothing stops them from trying.
func loadDateFilter(cfg *Config) error {
	start := os.Getenv("DATE_START")
	end := os.Getenv("DATE_END")
	window := os.Getenv("DATE_WINDOW")

	if (start == "") != (end == "") {
		return fmt.Errorf("DATE_START and DATE_END must be set together")
	}

	if start != "" {
		startDate, err := time.ParseInLocation(dateLayout, start, time.Local)
		if err != nil {
			return fmt.Errorf("invalid DATE_START %q: %w", start, err)
		}
		endDate, err := time.ParseInLocation(dateLayout, end, time.Local)
		if err != nil {
			return fmt.Errorf("invalid DATE_END %q: %w", end, err)
		}
		if endDate.Before(startDate) {
			return fmt.Errorf("DATE_END %q is before DATE_START %q", end, start)
		}
		cfg.DateFilter = filter.DateSpec{Kind: filter.DateAbsolute, Start: startDate, End: endDate}
		if window != "" {
			cfg.Warnings = append(cfg.Warnings,
				"both DATE_WINDOW and DATE_START/DATE_END are set; the absolute range takes precedence")
		}
		return nil
	}

	if window != "" {
		spec, err := filter.ParseRelative(window)
		if err != nil {
			return fmt.Errorf("invalid DATE_WINDOW: %w", err)
		}
		cfg.DateFilter = spec
	}
	return nil
}

func loadTimeFilter(cfg *Config) error {
	start := os.Getenv("TIME_START")
	end := os.Getenv("TIME_END")

	if (start == "") != (end == "") {
		return fmt.Errorf("TIME_START and TIME_END must be set together")
	}
	if start == "" {
		return nil
	}

	startMin, err := filter.ParseTimeOfDay(start)
	if err != nil {
		return fmt.Errorf("invalid TIME_START: %w", err)
	}
	endMin, err := filter.ParseTimeOfDay(end)
	if err != nil {
		return fmt.Errorf("invalid TIME_END: %w", err)
	}
	if startMin > endMin {
		cfg.Warnings = append(cfg.Warnings,
			"TIME_START is after TIME_END; the window does not wrap midnight and will match nothing")
	}
	cfg.TimeFilter = &filter.TimeWindow{Start: startMin, End: endMin}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
