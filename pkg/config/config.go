// Package config resolves process settings from defaults, an optional .env
// file, the environment and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

const (
	DefaultAPIURL      = "https://api.allanime.day/api"
	DefaultReferer     = "https://allmanga.to"
	DefaultBaseURL     = "https://allanime.day"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0"
	DefaultSearchLimit = 40
	DefaultConcurrency = 4
	DefaultTimeout     = 20 * time.Second

	maxConcurrency = 32
)

type Config struct {
	APIURL      string
	Referer     string
	BaseURL     string
	UserAgent   string
	SearchLimit int

	Track   string // "sub" or "dub"
	Quality string // "best", "worst" or a label such as "720"

	Concurrency int
	ProviderRPS float64 // 0 disables the provider rate limit
	Timeout     time.Duration

	DBPath      string
	MetricsAddr string
	Verbose     bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		Referer:     DefaultReferer,
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		SearchLimit: DefaultSearchLimit,
		Track:       "sub",
		Quality:     "best",
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		DBPath:      defaultDBPath(),
	}
}

// Load reads envFile (missing files are ignored) and then ANISTREAM_*
// variables on top of the defaults.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := LoadEnvFile(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	d := Default()
	c := Config{
		APIURL:      env.Str("ANISTREAM_API_URL", d.APIURL),
		Referer:     env.Str("ANISTREAM_REFERER", d.Referer),
		BaseURL:     env.Str("ANISTREAM_BASE_URL", d.BaseURL),
		UserAgent:   env.Str("ANISTREAM_USER_AGENT", d.UserAgent),
		SearchLimit: env.Int("ANISTREAM_SEARCH_LIMIT", d.SearchLimit),
		Track:       env.Str("ANISTREAM_TRACK", d.Track),
		Quality:     env.Str("ANISTREAM_QUALITY", d.Quality),
		Concurrency: env.Int("ANISTREAM_CONCURRENCY", d.Concurrency),
		ProviderRPS: env.Float("ANISTREAM_PROVIDER_RPS", d.ProviderRPS),
		Timeout:     env.Duration("ANISTREAM_TIMEOUT", d.Timeout),
		DBPath:      env.Str("ANISTREAM_DB", d.DBPath),
		MetricsAddr: env.Str("ANISTREAM_METRICS_ADDR", d.MetricsAddr),
		Verbose:     envBool("ANISTREAM_VERBOSE", d.Verbose),
	}
	return c, c.Validate()
}

// Validate rejects unusable endpoints and clamps numeric settings into range.
func (c *Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"api url":  c.APIURL,
		"referer":  c.Referer,
		"base url": c.BaseURL,
	} {
		if err := checkHTTPURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	c.Concurrency = min(max(c.Concurrency, 1), maxConcurrency)
	if c.ProviderRPS < 0 {
		c.ProviderRPS = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Track != "sub" && c.Track != "dub" {
		errs = append(errs, fmt.Errorf("track must be sub or dub, got %q", c.Track))
	}
	return errors.Join(errs...)
}

// envBool reads a strconv.ParseBool value, keeping def when unset or invalid.
func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(env.Str(key, "")))
	if err != nil {
		return def
	}
	return v
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "anistream.db"
	}
	return filepath.Join(home, ".anistream", "library.db")
}
