// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the frontend needs to talk to the content API and
// render the site.
type Config struct {
	// APIURL is the backend origin; requests go to {APIURL}/api/...
	APIURL string
	// SiteURL is the public origin used for canonical and social URLs.
	SiteURL         string
	SiteName        string
	SiteDescription string
	Addr            string
	SessionSecret   string
	CookieSecure    bool
	// APITimeout bounds every backend call.
	APITimeout       time.Duration
	LogLevel         string
	SiteFilesRefresh string // cron spec for re-fetching sitemap.xml/robots.txt
	// MetricsPath serves Prometheus metrics; empty disables the endpoint.
	MetricsPath string
}

// Load reads an optional .env file, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIURL:           strings.TrimRight(getEnv("API_URL", "http://localhost:5000"), "/"),
		SiteURL:          strings.TrimRight(getEnv("SITE_URL", "http://localhost:37371"), "/"),
		SiteName:         getEnv("SITE_NAME", "SEO Blog"),
		SiteDescription:  getEnv("SITE_DESCRIPTION", "A professional blog platform optimized for SEO"),
		Addr:             getEnv("ADDR", ":37371"),
		SessionSecret:    getEnv("SESSION_SECRET", "secret-key-should-be-changed"),
		CookieSecure:     getBoolEnv("COOKIE_SECURE", false),
		APITimeout:       getDurationEnv("API_TIMEOUT", 10*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SiteFilesRefresh: getEnv("SITE_FILES_REFRESH", "@every 1h"),
		MetricsPath:      os.Getenv("METRICS_PATH"),
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"API_URL": c.APIURL, "SITE_URL": c.SiteURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.Addr == "" {
		return errors.New("ADDR is required")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	if c.APITimeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("METRICS_PATH must start with /, got %q", c.MetricsPath)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
