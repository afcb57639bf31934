// Package config loads mirroring configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "CONMIRROR_"

// Config holds the runtime configuration.
type Config struct {
	// DebuggerURL is the browser's HTTP debugging endpoint.
	DebuggerURL string `toml:"debugger_url"`

	// TargetURL filters page targets to those whose URL contains this
	// substring. Empty matches the first page.
	TargetURL string `toml:"target_url"`

	// IgnoreResourceTypes lists intercepted resource types that are
	// aborted instead of allowed through.
	IgnoreResourceTypes []string `toml:"ignore_resource_types"`

	// KindFilter restricts forwarded console kinds. Empty forwards all.
	KindFilter []string `toml:"kind_filter"`

	// ExpandPreviews expands object arguments one level when printing.
	ExpandPreviews bool `toml:"expand_previews"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DebuggerURL:         "http://127.0.0.1:9222",
		IgnoreResourceTypes: []string{"Image", "Media", "Font"},
	}
}

// Load reads configuration from path (if non-empty and present) layered
// over the defaults, then applies environment overrides. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults plus env only.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides fields from CONMIRROR_* variables. List values are
// comma-separated.
func applyEnv(cfg *Config) {
	if v, ok := lookup("DEBUGGER_URL"); ok {
		cfg.DebuggerURL = v
	}
	if v, ok := lookup("TARGET_URL"); ok {
		cfg.TargetURL = v
	}
	if v, ok := lookup("IGNORE_RESOURCE_TYPES"); ok {
		cfg.IgnoreResourceTypes = splitList(v)
	}
	if v, ok := lookup("KIND_FILTER"); ok {
		cfg.KindFilter = splitList(v)
	}
	if v, ok := lookup("EXPAND_PREVIEWS"); ok {
		cfg.ExpandPreviews = v == "1" || strings.EqualFold(v, "true")
	}
}

func lookup(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}

// splitList parses a comma-separated list, trimming blanks.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
