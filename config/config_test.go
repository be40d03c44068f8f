package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validINI = `
[targeting]
site_url = shop.example
brand_id = 42
barrels = 2

[user]
username = buyer@example.com
password = s3cret;#pw
`

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.SiteURL = "https://shop.example"
	cfg.BrandID = "42"
	cfg.Barrels = 2
	cfg.Username = "buyer@example.com"
	cfg.Password = "pw"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{
			name:    "empty site url",
			mutate:  func(cfg *Config) { cfg.SiteURL = "" },
			wantKey: "site_url",
		},
		{
			name:    "site url without host",
			mutate:  func(cfg *Config) { cfg.SiteURL = "https://" },
			wantKey: "site_url",
		},
		{
			name:    "zero barrels",
			mutate:  func(cfg *Config) { cfg.Barrels = 0 },
			wantKey: "barrels",
		},
		{
			name:    "unknown action",
			mutate:  func(cfg *Config) { cfg.Action = "buy-everything" },
			wantKey: "action",
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *Config) { cfg.Timeout = -1 * time.Second },
			wantKey: "SELECTM_TIMEOUT",
		},
		{
			name:    "bad report format",
			mutate:  func(cfg *Config) { cfg.ReportFormat = "xml" },
			wantKey: "SELECTM_REPORT_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cfgErr.Key != tt.wantKey {
				t.Fatalf("key=%q, want %q", cfgErr.Key, tt.wantKey)
			}
		})
	}
}

func TestValidConfigPasses(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config should validate, got %v", err)
	}
}

func TestLoadParsesOrderFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := Load(cfg, []byte(validINI)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SiteURL != "https://shop.example" {
		t.Fatalf("site url=%q", cfg.SiteURL)
	}
	if cfg.BrandID != "42" || cfg.Barrels != 2 {
		t.Fatalf("brand=%q barrels=%d", cfg.BrandID, cfg.Barrels)
	}
	if cfg.Password != "s3cret;#pw" {
		t.Fatalf("password=%q, inline comment markers must be kept", cfg.Password)
	}
	if cfg.Action != ActionReport {
		t.Fatalf("action=%q, want default %q", cfg.Action, ActionReport)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadMissingKeys(t *testing.T) {
	for _, key := range []string{"site_url", "brand_id", "barrels", "username", "password"} {
		t.Run(key, func(t *testing.T) {
			var kept []string
			for _, line := range strings.Split(validINI, "\n") {
				if strings.HasPrefix(strings.TrimSpace(line), key+" ") {
					continue
				}
				kept = append(kept, line)
			}

			err := Load(DefaultConfig(), []byte(strings.Join(kept, "\n")))
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if !strings.HasSuffix(cfgErr.Key, "."+key) {
				t.Fatalf("key=%q, want suffix %q", cfgErr.Key, key)
			}
		})
	}
}

func TestLoadRejectsNonNumericBarrels(t *testing.T) {
	data := strings.Replace(validINI, "barrels = 2", "barrels = two", 1)
	err := Load(DefaultConfig(), []byte(data))
	var cfgErr *Error
	if !errors.As(err, &cfgErr) || cfgErr.Key != "targeting.barrels" {
		t.Fatalf("expected barrels error, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	err := LoadFile(DefaultConfig(), filepath.Join(t.TempDir(), "nope.ini"))
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
}

func TestLoadFileReadsAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configuration.ini")
	data := strings.Replace(validINI, "barrels = 2", "barrels = 2\naction = Checkout", 1)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Action != ActionCheckout {
		t.Fatalf("action=%q, want %q", cfg.Action, ActionCheckout)
	}
}

func TestLoadRuntimeFrom(t *testing.T) {
	cfg := DefaultConfig()
	err := LoadRuntimeFrom(cfg, map[string]string{
		"SELECTM_CONFIG":        "/etc/selectm.ini",
		"SELECTM_TIMEOUT":       "5s",
		"SELECTM_VERBOSE":       "true",
		"SELECTM_REPORT_FORMAT": "dual",
	})
	if err != nil {
		t.Fatalf("load runtime: %v", err)
	}
	if cfg.ConfigPath != "/etc/selectm.ini" || cfg.Timeout != 5*time.Second || !cfg.Verbose {
		t.Fatalf("unexpected runtime %+v", cfg.Runtime)
	}
	if cfg.ReportFormat != "dual" {
		t.Fatalf("report format=%q", cfg.ReportFormat)
	}
	if cfg.UserAgent == "" {
		t.Fatalf("user agent default should apply")
	}
}

func TestLoadRuntimeFromInvalidDuration(t *testing.T) {
	err := LoadRuntimeFrom(DefaultConfig(), map[string]string{"SELECTM_TIMEOUT": "soon"})
	if err == nil || !strings.Contains(err.Error(), "runtime env") {
		t.Fatalf("expected runtime env error, got %v", err)
	}
}

func TestNormalizeSiteURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "shop.example", expected: "https://shop.example"},
		{input: "http://shop.example/", expected: "http://shop.example"},
		{input: "  https://shop.example  ", expected: "https://shop.example"},
		{input: "", expected: ""},
	}
	for _, tt := range tests {
		if got := NormalizeSiteURL(tt.input); got != tt.expected {
			t.Errorf("NormalizeSiteURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
