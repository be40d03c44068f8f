package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported actions for a run.
const (
	ActionReport   = "report"
	ActionCart     = "cart"
	ActionCheckout = "checkout"
)

// Error reports a missing or malformed configuration value.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Credentials is the order target and account loaded from the order file.
type Credentials struct {
	SiteURL  string
	BrandID  string
	Barrels  int
	Username string
	Password string
}

// Runtime holds process settings taken from the environment.
type Runtime struct {
	ConfigPath   string        `env:"SELECTM_CONFIG" envDefault:"Conf/configuration.ini"`
	Timeout      time.Duration `env:"SELECTM_TIMEOUT" envDefault:"30s"`
	UserAgent    string        `env:"SELECTM_USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"`
	Verbose      bool          `env:"SELECTM_VERBOSE"`
	MetricsAddr  string        `env:"SELECTM_METRICS_ADDR"`
	ReportFile   string        `env:"SELECTM_REPORT_FILE"`
	ReportFormat string        `env:"SELECTM_REPORT_FORMAT" envDefault:"csv"`
}

// Config holds everything a run needs.
type Config struct {
	Credentials
	Runtime
	Action string
}

// DefaultConfig returns runtime defaults with an empty order target.
func DefaultConfig() *Config {
	return &Config{
		Runtime: Runtime{
			ConfigPath:   "Conf/configuration.ini",
			Timeout:      30 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			ReportFormat: "csv",
		},
		Action: ActionReport,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.SiteURL == "" {
		return &Error{Key: "site_url", Reason: "cannot be empty"}
	}
	parsedURL, err := url.Parse(c.SiteURL)
	if err != nil {
		return &Error{Key: "site_url", Reason: fmt.Sprintf("invalid url: %v", err)}
	}
	if parsedURL.Host == "" {
		return &Error{Key: "site_url", Reason: "must include a host"}
	}
	if strings.TrimSpace(c.BrandID) == "" {
		return &Error{Key: "brand_id", Reason: "cannot be empty"}
	}
	if c.Barrels <= 0 {
		return &Error{Key: "barrels", Reason: "must be positive"}
	}
	if c.Username == "" {
		return &Error{Key: "username", Reason: "cannot be empty"}
	}
	if c.Password == "" {
		return &Error{Key: "password", Reason: "cannot be empty"}
	}
	switch c.Action {
	case ActionReport, ActionCart, ActionCheckout:
	default:
		return &Error{Key: "action", Reason: "must be report, cart, or checkout"}
	}
	if c.Timeout <= 0 {
		return &Error{Key: "SELECTM_TIMEOUT", Reason: "timeout must be positive"}
	}
	if c.UserAgent == "" {
		return &Error{Key: "SELECTM_USER_AGENT", Reason: "user agent cannot be empty"}
	}
	if c.ReportFormat != "csv" && c.ReportFormat != "json" && c.ReportFormat != "dual" {
		return &Error{Key: "SELECTM_REPORT_FORMAT", Reason: "output format must be csv, json, or dual"}
	}
	return nil
}

// NormalizeSiteURL adds an https scheme to bare host names and drops a trailing slash.
func NormalizeSiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return strings.TrimSuffix(raw, "/")
}
