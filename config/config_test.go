package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("PELIGO_ADDR", "")
	t.Setenv("PELIGO_CACHE_TTL_HOURS", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.Region != "AR" || cfg.Language != "es-AR" {
		t.Fatalf("unexpected locale defaults: %q %q", cfg.Region, cfg.Language)
	}
	if cfg.CacheTTLHours != 1 {
		t.Fatalf("unexpected ttl: %d", cfg.CacheTTLHours)
	}
}

func TestLoadTreatsPlaceholderKeyAsUnset(t *testing.T) {
	t.Setenv("TMDB_API_KEY", placeholderAPIKey)
	if cfg := Load(); cfg.TMDBAPIKey != "" {
		t.Fatalf("placeholder key should be treated as unset, got %q", cfg.TMDBAPIKey)
	}
}

func TestLoadInvalidTTLFallsBack(t *testing.T) {
	t.Setenv("PELIGO_CACHE_TTL_HOURS", "not-a-number")
	if cfg := Load(); cfg.CacheTTLHours != 1 {
		t.Fatalf("expected fallback ttl, got %d", cfg.CacheTTLHours)
	}
}

func TestLoadClearCacheFlag(t *testing.T) {
	t.Setenv("PELIGO_CLEAR_CACHE", "")
	if cfg := Load(); cfg.ClearCacheOnStart {
		t.Fatal("expected clear-cache to default off")
	}
	for _, v := range []string{"1", "true", "yes"} {
		t.Setenv("PELIGO_CLEAR_CACHE", v)
		if cfg := Load(); !cfg.ClearCacheOnStart {
			t.Fatalf("expected %q to enable clear-cache", v)
		}
	}
}
