// Package config handles TOML-based configuration loading and validation.
// Values are layered: defaults, the TOML file, a .env file and the process
// environment, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "VIDGRAB_"

// Config holds all application configuration. Durations are whole seconds.
type Config struct {
	Listen            string   `toml:"listen"`
	APIPrefix         string   `toml:"api_prefix"`
	CORSOrigins       []string `toml:"cors_origins"`
	YtDlpPath         string   `toml:"ytdlp_path"`
	ChromePath        string   `toml:"chrome_path"`
	UserAgent         string   `toml:"user_agent"`
	FetchTimeout      int      `toml:"fetch_timeout"`
	NavigationTimeout int      `toml:"navigation_timeout"`
	SettleDelay       int      `toml:"settle_delay"`
	StrategyTimeout   int      `toml:"strategy_timeout"`
	RateLimit         float64  `toml:"rate_limit"`
	RateBurst         int      `toml:"rate_burst"`
	History           bool     `toml:"history"`
	HistoryPath       string   `toml:"history_path"`
	DownloadDir       string   `toml:"download_dir"`
	LogLevel          string   `toml:"log_level"`
	LogFormat         string   `toml:"log_format"`
	Debug             bool     `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Listen:            ":8001",
		APIPrefix:         "/api",
		CORSOrigins:       []string{"*"},
		YtDlpPath:         "yt-dlp",
		FetchTimeout:      30,
		NavigationTimeout: 30,
		SettleDelay:       2,
		StrategyTimeout:   45,
		RateLimit:         2,
		RateBurst:         5,
		History:           true,
		DownloadDir:       "~/Videos/vidgrab",
		LogLevel:          "info",
		LogFormat:         "console",
		Debug:             false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vidgrab"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vidgrab"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path (the XDG default when empty), merges
// it with defaults and applies environment overrides. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv exports the variables in the given .env files without
// overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from VIDGRAB_* variables. CORS_ORIGINS is also
// honoured for compatibility with common deployment templates.
func (c *Config) ApplyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("LISTEN", &c.Listen)
	str("API_PREFIX", &c.APIPrefix)
	str("YTDLP_PATH", &c.YtDlpPath)
	str("CHROME_PATH", &c.ChromePath)
	str("USER_AGENT", &c.UserAgent)
	str("HISTORY_PATH", &c.HistoryPath)
	str("DOWNLOAD_DIR", &c.DownloadDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	for key, dst := range map[string]*int{
		"FETCH_TIMEOUT":      &c.FetchTimeout,
		"NAVIGATION_TIMEOUT": &c.NavigationTimeout,
		"SETTLE_DELAY":       &c.SettleDelay,
		"STRATEGY_TIMEOUT":   &c.StrategyTimeout,
		"RATE_BURST":         &c.RateBurst,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if err := flag("HISTORY", &c.History); err != nil {
		return err
	}
	if err := flag("DEBUG", &c.Debug); err != nil {
		return err
	}

	if v, ok := os.LookupEnv(EnvPrefix + "RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.RateLimit = f
	}

	origins, ok := os.LookupEnv(EnvPrefix + "CORS_ORIGINS")
	if !ok {
		origins, ok = os.LookupEnv("CORS_ORIGINS")
	}
	if ok {
		c.CORSOrigins = SplitList(origins)
	}
	return nil
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api_prefix %q must start with /", c.APIPrefix)
	}
	if c.YtDlpPath == "" {
		return fmt.Errorf("ytdlp_path cannot be empty")
	}

	for name, v := range map[string]int{
		"fetch_timeout":      c.FetchTimeout,
		"navigation_timeout": c.NavigationTimeout,
		"strategy_timeout":   c.StrategyTimeout,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay cannot be negative, got %d", c.SettleDelay)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1 when rate_limit is set, got %d", c.RateBurst)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unsupported log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("unsupported log_format %q (valid: console, json)", c.LogFormat)
	}

	return nil
}

// Seconds converts an integer config value to a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	return expandHome(c.DownloadDir)
}

// ResolveHistoryPath returns HistoryPath, or the XDG data location when it
// is unset.
func (c *Config) ResolveHistoryPath() (string, error) {
	if c.HistoryPath != "" {
		return expandHome(c.HistoryPath)
	}
	return DefaultHistoryPath()
}

// DefaultHistoryPath returns the path to the history database.
func DefaultHistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "vidgrab", "history.db"), nil
}

func expandHome(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
