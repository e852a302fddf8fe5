package config

import (
	"os"
	"strings"
)

// Config is the process-level configuration for the itip-snapshot CLI and
// any future collaborator that wants to honor the groupware bounds in
// GroupwareConfig. The extractor itself (internal/itip) never reads this
// type directly — per spec, those bounds are enforced upstream of the core.
type Config struct {
	LogLevel string
	Timezone string

	// AccountAddresses are the locally-owned addresses evaluated against an
	// ORGANIZER/ATTENDEE to decide is_local (component A). In a full
	// deployment these come from the directory collaborator; the CLI reads
	// them from a flag or this env var for standalone use.
	AccountAddresses []string

	Groupware GroupwareConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitAddresses(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads Config from the process environment, following the same
// getenv-with-default shape as the teacher's internal/config.Load.
func Load() (*Config, error) {
	return &Config{
		LogLevel:         getenv("LOG_LEVEL", "info"),
		Timezone:         getenv("TZ", "UTC"),
		AccountAddresses: splitAddresses(getenv("ITIP_ACCOUNT_ADDRESSES", "")),
		Groupware:        parseGroupwareConfig(),
	}, nil
}
