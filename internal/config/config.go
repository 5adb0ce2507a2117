// Package config loads the monitor settings from defaults, an optional
// TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	UIWeb  = "web"
	UITUI  = "tui"
	UIBoth = "both"
)

type Config struct {
	Port       string        `toml:"port"`        // e.g. "/dev/cu.usbmodem14201"
	Baud       int           `toml:"baud"`        // e.g. 9600
	WindowSize int           `toml:"window_size"` // lines per window
	Settle     time.Duration `toml:"settle"`      // pause after each window
	Listen     string        `toml:"listen"`      // dashboard address
	UI         string        `toml:"ui"`          // web, tui or both
	Notify     bool          `toml:"notify"`
	LogLevel   string        `toml:"log_level"`
	LogFile    string        `toml:"log_file"` // required for logs while the tui runs
	RawLogSize int           `toml:"raw_log_size"`
}

func Default() Config {
	return Config{
		Port:       "/dev/cu.usbmodem14201",
		Baud:       9600,
		WindowSize: 5,
		Settle:     5 * time.Second,
		Listen:     "127.0.0.1:8501",
		UI:         UIWeb,
		Notify:     true,
		LogLevel:   "info",
		RawLogSize: 1000,
	}
}

// Load returns the defaults overlaid with the TOML file at path (if any)
// and then with POSTURE_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("POSTURE_PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("POSTURE_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := getenv("POSTURE_UI"); v != "" {
		c.UI = v
	}
	if v := getenv("POSTURE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("POSTURE_SETTLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POSTURE_SETTLE: %w", err)
		}
		c.Settle = d
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.Baud <= 0 {
		errs = append(errs, fmt.Errorf("baud must be positive, got %d", c.Baud))
	}
	if c.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("window_size must be positive, got %d", c.WindowSize))
	}
	if c.Settle < 0 {
		errs = append(errs, fmt.Errorf("settle must not be negative, got %s", c.Settle))
	}
	if c.RawLogSize <= 0 {
		errs = append(errs, fmt.Errorf("raw_log_size must be positive, got %d", c.RawLogSize))
	}
	switch c.UI {
	case UIWeb, UITUI, UIBoth:
	default:
		errs = append(errs, fmt.Errorf("ui must be one of web, tui, both, got %q", c.UI))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WantsWeb reports whether the web dashboard should be served.
func (c Config) WantsWeb() bool { return c.UI == UIWeb || c.UI == UIBoth }

// WantsTUI reports whether the terminal dashboard should run.
func (c Config) WantsTUI() bool { return c.UI == UITUI || c.UI == UIBoth }

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
