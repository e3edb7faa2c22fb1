package config

import (
	"fmt"
	"os"
	"time"
)

// Geo providers selectable with GEO_PROVIDER.
const (
	GeoProviderIPAPI = "ip-api"
	GeoProviderMMDB  = "mmdb"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	GateProfile     string
	ShutdownTimeout time.Duration
	Geo             Geo
	Log             Log
}

// Geo configures the country lookup.
type Geo struct {
	Provider string
	URL      string
	Timeout  time.Duration
	MMDBPath string
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Server config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Server, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	geoTimeout, err := time.ParseDuration(get("GEOIP_TIMEOUT", "3s"))
	if err != nil {
		return Server{}, fmt.Errorf("config: GEOIP_TIMEOUT: %w", err)
	}
	if geoTimeout <= 0 {
		return Server{}, fmt.Errorf("config: GEOIP_TIMEOUT must be positive, got %s", geoTimeout)
	}

	provider := get("GEO_PROVIDER", GeoProviderIPAPI)
	switch provider {
	case GeoProviderIPAPI, GeoProviderMMDB:
	default:
		return Server{}, fmt.Errorf("config: unknown GEO_PROVIDER %q", provider)
	}

	return Server{
		Addr:            ":" + get("PORT", "3000"),
		GateProfile:     get("GATE_PROFILE", "strict"),
		ShutdownTimeout: 10 * time.Second,
		Geo: Geo{
			Provider: provider,
			URL:      get("GEOIP_URL", "http://ip-api.com/json"),
			Timeout:  geoTimeout,
			MMDBPath: get("GEOIP_MMDB_PATH", "GeoLite2-Country.mmdb"),
		},
		Log: Log{
			Level:  get("LOG_LEVEL", "info"),
			Format: get("LOG_FORMAT", "json"),
		},
	}, nil
}
