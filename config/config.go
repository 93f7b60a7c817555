package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the process configuration, read once from the environment at
// startup. The TMDB key is the only required value; everything else has a
// sensible default.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// TMDBAPIKey authenticates against TMDB. The example-file placeholder
	// value is treated as unset so a half-finished deployment fails loudly
	// instead of returning empty catalogs.
	TMDBAPIKey string
	// Language is the TMDB response locale.
	Language string
	// Region is the country scope for availability and discovery filters.
	Region string
	// CacheDir holds cached upstream responses.
	CacheDir string
	// CacheTTLHours controls how long cached responses are served.
	CacheTTLHours int
	// DatabasePath is the sqlite file for favorites and recent searches.
	DatabasePath string
	// LogFile, when set, receives rotated log output in addition to stderr.
	LogFile string
	// ClearCacheOnStart drops all cached upstream responses at startup, for
	// recovering from stale or corrupt cache entries without shell access to
	// the cache directory.
	ClearCacheOnStart bool
}

const placeholderAPIKey = "TU_API_KEY_ACA"

// Load reads configuration from the environment.
func Load() Config {
	dataDir := envOr("PELIGO_DATA_DIR", "data")

	key := os.Getenv("TMDB_API_KEY")
	if key == placeholderAPIKey {
		key = ""
	}

	ttl := 1
	if raw := os.Getenv("PELIGO_CACHE_TTL_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return Config{
		Addr:              envOr("PELIGO_ADDR", ":8080"),
		TMDBAPIKey:        key,
		Language:          envOr("PELIGO_LANGUAGE", "es-AR"),
		Region:            envOr("PELIGO_REGION", "AR"),
		CacheDir:          envOr("PELIGO_CACHE_DIR", filepath.Join(dataDir, "cache")),
		CacheTTLHours:     ttl,
		DatabasePath:      envOr("PELIGO_DB_PATH", filepath.Join(dataDir, "peligo.db")),
		LogFile:           os.Getenv("PELIGO_LOG_FILE"),
		ClearCacheOnStart: boolEnv("PELIGO_CLEAR_CACHE"),
	}
}

func boolEnv(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
