package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STORAGE_DRIVER")
	}
}

func TestLoad_PyroscopeRequiresAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.IngestWorkers != 4 {
		t.Fatalf("unexpected IngestWorkers: %d", cfg.IngestWorkers)
	}
	if cfg.CollapseWicketThreshold != 3 {
		t.Fatalf("unexpected CollapseWicketThreshold: %d", cfg.CollapseWicketThreshold)
	}
	if cfg.FormWindow != 5 {
		t.Fatalf("unexpected FormWindow: %d", cfg.FormWindow)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Minute {
		t.Fatalf("unexpected cache settings: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
}

func TestLoad_TuningOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("INGEST_WORKERS", "16")
	t.Setenv("COLLAPSE_WICKET_THRESHOLD", "4")
	t.Setenv("FORM_WINDOW", "10")
	t.Setenv("CACHE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.IngestWorkers != 16 || cfg.CollapseWicketThreshold != 4 || cfg.FormWindow != 10 {
		t.Fatalf("unexpected tuning: workers=%d threshold=%d window=%d",
			cfg.IngestWorkers, cfg.CollapseWicketThreshold, cfg.FormWindow)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
}

func TestLoad_RejectsNonPositiveWorkers(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("INGEST_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for INGEST_WORKERS=0")
	}
}
