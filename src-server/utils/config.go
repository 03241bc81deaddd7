package utils

import (
	"agenda/src-server/model"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	port string

	location *time.Location

	sqlitePath   string
	eventsFile   string
	icalFile     string
	syncInterval time.Duration

	cancelMonths  []model.Month
	cancelWeekday int
}

// Read the configuration from the process environment, exiting on invalid
// values.
func NewConfig() *Config {
	cfg, err := NewConfigFromEnv(os.LookupEnv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Same as NewConfig, reading variables through lookup and returning the
// first invalid value as an error.
func NewConfigFromEnv(lookup func(string) (string, bool)) (*Config, error) {
	getenv := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	var err error
	cfg := &Config{}

	cfg.port = func() string {
		port := getenv("PORT")
		if port == "" {
			port = "8080"
		}
		slog.Debug("env", "PORT", port)
		return port
	}()
	if _, convErr := strconv.Atoi(cfg.port); convErr != nil {
		return nil, fmt.Errorf("NewConfigFromEnv: invalid PORT %q", cfg.port)
	}

	cfg.location, err = func() (*time.Location, error) {
		timezoneStr := getenv("TIMEZONE")
		switch timezoneStr {
		case "":
			slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
			return time.Local, nil
		case "UTC":
			return time.UTC, nil
		default:
			loc, err := time.LoadLocation(timezoneStr)
			if err != nil {
				return nil, fmt.Errorf("NewConfigFromEnv: invalid TIMEZONE: %w", err)
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc, nil
		}
	}()
	if err != nil {
		return nil, err
	}

	cfg.sqlitePath = func() string {
		path := getenv("SQLITE_PATH")
		if path == "" {
			path = "./sqlite.db"
		}
		slog.Debug("env", "SQLITE_PATH", path)
		return path
	}()

	cfg.eventsFile, err = optionalFile(getenv("EVENTS_FILE"), "EVENTS_FILE")
	if err != nil {
		return nil, err
	}
	cfg.icalFile, err = optionalFile(getenv("ICAL_FILE"), "ICAL_FILE")
	if err != nil {
		return nil, err
	}

	cfg.syncInterval, err = func() (time.Duration, error) {
		syncInterval := getenv("SYNC_INTERVAL")
		if syncInterval == "" {
			syncInterval = "5m"
		}
		duration, err := time.ParseDuration(syncInterval)
		if err != nil || duration <= 0 {
			return 0, fmt.Errorf("NewConfigFromEnv: invalid SYNC_INTERVAL %q", syncInterval)
		}
		slog.Debug("env", "SYNC_INTERVAL", syncInterval, "duration", duration)
		return duration, nil
	}()
	if err != nil {
		return nil, err
	}

	cfg.cancelMonths, err = func() ([]model.Month, error) {
		raw := getenv("CANCEL_MONTHS")
		if raw == "" {
			return nil, nil
		}
		months, err := model.ParseMonths(raw)
		if err != nil {
			return nil, fmt.Errorf("NewConfigFromEnv: invalid CANCEL_MONTHS: %w", err)
		}
		slog.Debug("env", "CANCEL_MONTHS", months)
		return months, nil
	}()
	if err != nil {
		return nil, err
	}

	cfg.cancelWeekday, err = func() (int, error) {
		raw := getenv("CANCEL_WEEKDAY")
		if raw == "" {
			return 0, nil
		}
		weekday, err := strconv.Atoi(raw)
		if err != nil || weekday < 1 || weekday > 7 {
			return 0, fmt.Errorf("NewConfigFromEnv: CANCEL_WEEKDAY must be 1 (Monday) to 7 (Sunday), got %q", raw)
		}
		slog.Debug("env", "CANCEL_WEEKDAY", weekday)
		return weekday, nil
	}()
	if err != nil {
		return nil, err
	}
	if (len(cfg.cancelMonths) == 0) != (cfg.cancelWeekday == 0) {
		return nil, fmt.Errorf("NewConfigFromEnv: CANCEL_MONTHS and CANCEL_WEEKDAY must be set together")
	}

	return cfg, nil
}

func optionalFile(path, key string) (string, error) {
	if path == "" {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("NewConfigFromEnv: can't get info of %s: %w", key, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("NewConfigFromEnv: %s is a directory", key)
	}
	slog.Debug("env", key, path)
	return filepath.Clean(path), nil
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get SQLITE_PATH env, default to ./sqlite.db
func (c *Config) GetSQLitePath() string {
	return c.sqlitePath
}

// Get EVENTS_FILE env
func (c *Config) GetEventsFile() string {
	return c.eventsFile
}

// Get ICAL_FILE env
func (c *Config) GetIcalFile() string {
	return c.icalFile
}

// Get SYNC_INTERVAL env, default to 5m
func (c *Config) GetSyncInterval() time.Duration {
	return c.syncInterval
}

// Get CANCEL_MONTHS env
func (c *Config) GetCancelMonths() []model.Month {
	return c.cancelMonths
}

// Get CANCEL_WEEKDAY env, 0 when unset
func (c *Config) GetCancelWeekday() int {
	return c.cancelWeekday
}
