package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.MaxItemsPerPage != defaultMaxItemsPerPage {
		t.Fatalf("expected default max items per page %d, got %d", defaultMaxItemsPerPage, cfg.MaxItemsPerPage)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Fatalf("expected memory store by default, got %s", cfg.Store.Driver)
	}
	if cfg.Store.RedisPrefix != defaultRedisPrefix {
		t.Fatalf("expected default redis prefix, got %s", cfg.Store.RedisPrefix)
	}
	if cfg.Developers.BucketURL != defaultDevelopersURL || cfg.Developers.Key != defaultDevelopersKey {
		t.Fatalf("unexpected developers location %+v", cfg.Developers)
	}
	if !cfg.Developers.Warm || cfg.Developers.WarmTimeout != defaultDevelopersWait {
		t.Fatalf("unexpected warm settings %+v", cfg.Developers)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != defaultMetricsPort || cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envMaxItemsPerPage, "20")
	t.Setenv(envStoreDriver, "Postgres")
	t.Setenv(envDatabaseDSN, "postgres://games:secret@db:5432/games")
	t.Setenv(envRedisAddr, "redis:6379")
	t.Setenv(envRedisDB, "2")
	t.Setenv(envDevelopersURL, "file:///srv/developers")
	t.Setenv(envDevelopersKey, "devs.json")
	t.Setenv(envDevelopersWarm, "false")
	t.Setenv(envDevelopersWait, "2s")
	t.Setenv(envMetricsOn, "no")
	t.Setenv(envOtelEndpoint, "collector:4318")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.MaxItemsPerPage != 20 {
		t.Fatalf("expected max items 20, got %d", cfg.MaxItemsPerPage)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Fatalf("expected driver to be lower-cased, got %s", cfg.Store.Driver)
	}
	if cfg.Store.DSN != "postgres://games:secret@db:5432/games" {
		t.Fatalf("unexpected dsn %s", cfg.Store.DSN)
	}
	if cfg.Store.RedisAddr != "redis:6379" || cfg.Store.RedisDB != 2 {
		t.Fatalf("unexpected redis settings %+v", cfg.Store)
	}
	if cfg.Developers.BucketURL != "file:///srv/developers" || cfg.Developers.Key != "devs.json" {
		t.Fatalf("unexpected developers location %+v", cfg.Developers)
	}
	if cfg.Developers.Warm || cfg.Developers.WarmTimeout != 2*time.Second {
		t.Fatalf("unexpected warm settings %+v", cfg.Developers)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.OtlpEndpoint != "collector:4318" {
		t.Fatalf("unexpected metrics settings %+v", cfg.Metrics)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv(envMaxItemsPerPage, "lots")
	t.Setenv(envDevelopersWait, "not-a-duration")

	cfg := Load()
	if cfg.MaxItemsPerPage != defaultMaxItemsPerPage {
		t.Fatalf("expected default max items on invalid value, got %d", cfg.MaxItemsPerPage)
	}
	if cfg.Developers.WarmTimeout != defaultDevelopersWait {
		t.Fatalf("expected default warm timeout on invalid value, got %s", cfg.Developers.WarmTimeout)
	}
}
