package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "fantasy-roster-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fantasy-roster-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("RULES_FILE", "")
	t.Setenv("BUDGET_CAP", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected in-memory storage by default, got DB_URL=%q", cfg.DBURL)
	}
	if cfg.Rules.BudgetCap != 100 || cfg.Rules.SquadSize != 15 {
		t.Fatalf("unexpected default rules: %+v", cfg.Rules)
	}
	if cfg.SynthesisAttempts != 600 {
		t.Fatalf("unexpected synthesis attempts: %d", cfg.SynthesisAttempts)
	}
	if cfg.CatalogEnabled {
		t.Fatalf("expected catalog sync disabled by default")
	}
}

func TestLoad_CatalogRequiresBaseURLAndJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CATALOG_ENABLED", "true")

	t.Run("missing base url", func(t *testing.T) {
		t.Setenv("CATALOG_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without CATALOG_BASE_URL")
		}
	})

	t.Run("missing job token", func(t *testing.T) {
		t.Setenv("CATALOG_BASE_URL", "https://catalog.example.com")
		t.Setenv("INTERNAL_JOB_TOKEN", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without INTERNAL_JOB_TOKEN")
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv("CATALOG_BASE_URL", "https://catalog.example.com")
		t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
		t.Setenv("CATALOG_PAGE_SIZE", "50")
		t.Setenv("CATALOG_CIRCUIT_FAILURE_COUNT", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CatalogPageSize != 50 {
			t.Fatalf("unexpected page size: %d", cfg.CatalogPageSize)
		}
		if cfg.CatalogCircuit.FailureThreshold != 3 || !cfg.CatalogCircuit.Enabled {
			t.Fatalf("unexpected circuit config: %+v", cfg.CatalogCircuit)
		}
	})
}

func TestLoad_RulesFileAndBudgetOverride(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "budget_cap: 95.5\nmax_players_per_club: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	t.Setenv("RULES_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Rules.BudgetCap != 95.5 || cfg.Rules.MaxPlayersPerClub != 2 {
		t.Fatalf("rules file not applied: %+v", cfg.Rules)
	}
	if cfg.Rules.Goalkeepers != 2 {
		t.Fatalf("unset keys should keep defaults: %+v", cfg.Rules)
	}

	t.Setenv("BUDGET_CAP", "110")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Rules.BudgetCap != 110 {
		t.Fatalf("BUDGET_CAP should override rules file, got %v", cfg.Rules.BudgetCap)
	}
}

func TestLoad_InvalidRulesRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("bench_count: 9\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	t.Setenv("RULES_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for inconsistent rules file")
	}
}

func TestLoad_QStashRequiresTokenAndTarget(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CATALOG_ENABLED", "false")
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")

	t.Run("missing token", func(t *testing.T) {
		t.Setenv("QSTASH_TOKEN", "")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://roster.example.com")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without QSTASH_TOKEN")
		}
	})

	t.Run("missing target", func(t *testing.T) {
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without QSTASH_TARGET_BASE_URL")
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://roster.example.com")
		t.Setenv("QSTASH_RETRIES", "5")
		t.Setenv("APP_LOG_FORMAT", "Console")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.QStashEnabled || cfg.QStashRetries != 5 || cfg.QStashBaseURL != "https://qstash.upstash.io" {
			t.Fatalf("unexpected qstash config: %+v", cfg)
		}
		if !cfg.QStashCircuit.Enabled {
			t.Fatalf("expected qstash circuit enabled")
		}
		if cfg.LogFormat != "console" {
			t.Fatalf("unexpected log format: %q", cfg.LogFormat)
		}
	})
}
