package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	SeedMemory                 bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	MetricsEnabled             bool
	CatalogEnabled             bool
	CatalogBaseURL             string
	CatalogToken               string
	CatalogTimeout             time.Duration
	CatalogMaxRetries          int
	CatalogPageSize            int
	CatalogConcurrency         int
	CatalogCircuit             resilience.CircuitBreakerConfig
	InternalJobToken           string
	QStashEnabled              bool
	QStashBaseURL              string
	QStashToken                string
	QStashTargetBaseURL        string
	QStashRetries              int
	QStashCircuit              resilience.CircuitBreakerConfig
	RulesFile                  string
	Rules                      fantasy.Rules
	SynthesisAttempts          int
	ValidationWorkers          int
	LogLevel                   logging.Level
	LogFormat                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	catalog, err := loadCatalog()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "fantasy-roster-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		MetricsEnabled:             metricsEnabled,
		CatalogEnabled:             catalog.enabled,
		CatalogBaseURL:             catalog.baseURL,
		CatalogToken:               catalog.token,
		CatalogTimeout:             catalog.timeout,
		CatalogMaxRetries:          catalog.maxRetries,
		CatalogPageSize:            catalog.pageSize,
		CatalogConcurrency:         catalog.concurrency,
		CatalogCircuit:             catalog.circuit,
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		RulesFile:                  strings.TrimSpace(getEnv("RULES_FILE", "")),
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		cfg.PprofAddr = ":6060"
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.CatalogEnabled && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when CATALOG_ENABLED=true")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	seedMemory, err := strconv.ParseBool(getEnv("SEED_MEMORY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEED_MEMORY: %w", err)
	}
	cfg.SeedMemory = seedMemory

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	rules, err := LoadRules(cfg.RulesFile)
	if err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("BUDGET_CAP")); raw != "" {
		budgetCap, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse BUDGET_CAP: %w", err)
		}
		rules.BudgetCap = budgetCap
	}
	if err := rules.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate rules: %w", err)
	}
	cfg.Rules = rules

	synthesisAttempts, err := getEnvAsInt("SYNTH_ATTEMPTS", fantasy.DefaultSynthesisAttempts)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNTH_ATTEMPTS: %w", err)
	}
	if synthesisAttempts < 1 {
		return Config{}, fmt.Errorf("SYNTH_ATTEMPTS must be >= 1")
	}
	cfg.SynthesisAttempts = synthesisAttempts

	validationWorkers, err := getEnvAsInt("VALIDATION_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_WORKERS: %w", err)
	}
	if validationWorkers < 1 {
		return Config{}, fmt.Errorf("VALIDATION_WORKERS must be >= 1")
	}
	cfg.ValidationWorkers = validationWorkers

	qstash, err := loadQStash()
	if err != nil {
		return Config{}, err
	}
	cfg.QStashEnabled = qstash.enabled
	cfg.QStashBaseURL = qstash.baseURL
	cfg.QStashToken = qstash.token
	cfg.QStashTargetBaseURL = qstash.targetBaseURL
	cfg.QStashRetries = qstash.retries
	cfg.QStashCircuit = qstash.circuit
	if cfg.QStashEnabled && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
	}

	cfg.LogLevel = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", "json")))

	return cfg, nil
}

type catalogConfig struct {
	enabled     bool
	baseURL     string
	token       string
	timeout     time.Duration
	maxRetries  int
	pageSize    int
	concurrency int
	circuit     resilience.CircuitBreakerConfig
}

func loadCatalog() (catalogConfig, error) {
	enabled, err := strconv.ParseBool(getEnv("CATALOG_ENABLED", "false"))
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_ENABLED: %w", err)
	}
	baseURL := strings.TrimSpace(getEnv("CATALOG_BASE_URL", ""))
	if enabled && baseURL == "" {
		return catalogConfig{}, fmt.Errorf("CATALOG_BASE_URL is required when CATALOG_ENABLED=true")
	}
	timeout, err := time.ParseDuration(getEnv("CATALOG_TIMEOUT", "10s"))
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return catalogConfig{}, fmt.Errorf("CATALOG_TIMEOUT must be > 0")
	}
	maxRetries, err := getEnvAsInt("CATALOG_MAX_RETRIES", 2)
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return catalogConfig{}, fmt.Errorf("CATALOG_MAX_RETRIES must be >= 0")
	}
	pageSize, err := getEnvAsInt("CATALOG_PAGE_SIZE", 100)
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_PAGE_SIZE: %w", err)
	}
	if pageSize < 1 {
		return catalogConfig{}, fmt.Errorf("CATALOG_PAGE_SIZE must be >= 1")
	}
	concurrency, err := getEnvAsInt("CATALOG_CONCURRENCY", 4)
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_CONCURRENCY: %w", err)
	}
	if concurrency < 1 {
		return catalogConfig{}, fmt.Errorf("CATALOG_CONCURRENCY must be >= 1")
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("CATALOG_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_CIRCUIT_ENABLED: %w", err)
	}
	failureCount, err := getEnvAsInt("CATALOG_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return catalogConfig{}, fmt.Errorf("CATALOG_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	openTimeout, err := time.ParseDuration(getEnv("CATALOG_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openTimeout <= 0 {
		return catalogConfig{}, fmt.Errorf("CATALOG_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	halfOpenMaxReq, err := getEnvAsInt("CATALOG_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return catalogConfig{}, fmt.Errorf("parse CATALOG_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenMaxReq < 1 {
		return catalogConfig{}, fmt.Errorf("CATALOG_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	return catalogConfig{
		enabled:     enabled,
		baseURL:     baseURL,
		token:       strings.TrimSpace(getEnv("CATALOG_TOKEN", "")),
		timeout:     timeout,
		maxRetries:  maxRetries,
		pageSize:    pageSize,
		concurrency: concurrency,
		circuit: resilience.CircuitBreakerConfig{
			Enabled:          circuitEnabled,
			FailureThreshold: failureCount,
			OpenTimeout:      openTimeout,
			HalfOpenMaxReq:   halfOpenMaxReq,
		},
	}, nil
}

type qstashConfig struct {
	enabled       bool
	baseURL       string
	token         string
	targetBaseURL string
	retries       int
	circuit       resilience.CircuitBreakerConfig
}

func loadQStash() (qstashConfig, error) {
	enabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return qstashConfig{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	cfg := qstashConfig{
		enabled:       enabled,
		baseURL:       strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io")),
		token:         strings.TrimSpace(getEnv("QSTASH_TOKEN", "")),
		targetBaseURL: strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", "")),
	}
	if !enabled {
		return cfg, nil
	}
	if cfg.token == "" {
		return qstashConfig{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
	}
	if cfg.targetBaseURL == "" {
		return qstashConfig{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
	}

	retries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return qstashConfig{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if retries < 0 {
		return qstashConfig{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	cfg.retries = retries

	failureCount, err := getEnvAsInt("QSTASH_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return qstashConfig{}, fmt.Errorf("parse QSTASH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return qstashConfig{}, fmt.Errorf("QSTASH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.circuit = resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: failureCount,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
