package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

type fileKey struct {
	section string
	name    string
}

var requiredKeys = []fileKey{
	{"targeting", "site_url"},
	{"targeting", "brand_id"},
	{"targeting", "barrels"},
	{"user", "username"},
	{"user", "password"},
}

// LoadFile reads the order file at path into cfg.
// Every required key is checked before any value is used.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Error{Key: path, Reason: "config file not found"}
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return Load(cfg, data)
}

// Load parses INI content into cfg.
func Load(cfg *Config, data []byte) error {
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return &Error{Key: "file", Reason: fmt.Sprintf("parse ini: %v", err)}
	}

	for _, k := range requiredKeys {
		if !file.Section(k.section).HasKey(k.name) {
			return &Error{Key: k.section + "." + k.name, Reason: "missing required key"}
		}
		if strings.TrimSpace(file.Section(k.section).Key(k.name).String()) == "" {
			return &Error{Key: k.section + "." + k.name, Reason: "cannot be empty"}
		}
	}

	targeting := file.Section("targeting")
	user := file.Section("user")

	barrels, err := strconv.Atoi(strings.TrimSpace(targeting.Key("barrels").String()))
	if err != nil {
		return &Error{Key: "targeting.barrels", Reason: fmt.Sprintf("not a number: %v", err)}
	}

	cfg.SiteURL = NormalizeSiteURL(targeting.Key("site_url").String())
	cfg.BrandID = strings.TrimSpace(targeting.Key("brand_id").String())
	cfg.Barrels = barrels
	cfg.Username = strings.TrimSpace(user.Key("username").String())
	cfg.Password = user.Key("password").String()
	if targeting.HasKey("action") {
		cfg.Action = strings.ToLower(strings.TrimSpace(targeting.Key("action").String()))
	}
	return nil
}
