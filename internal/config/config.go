package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the worker and migration binaries.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	LogLevel           logging.Level
	StorageDriver      string
	DBURL              string
	DBBinaryParameters bool
	DBSeedOnStart      bool
	CacheEnabled       bool
	CacheTTL           time.Duration

	CricAPIBaseURL               string
	CricAPIKey                   string
	CricAPITimeout               time.Duration
	CricAPIMaxRetries            int
	CricAPIRetryBackoff          time.Duration
	CricAPICircuitEnabled        bool
	CricAPICircuitFailureCount   int
	CricAPICircuitOpenTimeout    time.Duration
	CricAPICircuitHalfOpenMaxReq int

	TournamentSeriesID   string
	TournamentSeriesName string
	TournamentLocation   *time.Location
	RuleSetName          string

	SyncMatchTimeout time.Duration
	MatchDuration    time.Duration
	SyncOffsets      []syncattempt.Offset

	SubmissionBlackout   time.Duration
	SubmissionGrace      time.Duration
	SubmissionCASRetries int
	TransferLimitGroup   int
	TransferLimitFinal   int

	CronScheduler  string
	CronAutoSubmit string
	CronFullSync   string

	SuperSubWorkers int
	PointerWorkers  int

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storageDriver, err := parseStorageDriver(getEnv("STORAGE_DRIVER", StorageMemory))
	if err != nil {
		return Config{}, err
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	dbBinaryParameters, err := strconv.ParseBool(getEnv("DB_BINARY_PARAMETERS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_BINARY_PARAMETERS: %w", err)
	}
	dbSeedOnStart, err := strconv.ParseBool(getEnv("DB_SEED_ON_START", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_SEED_ON_START: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 60*time.Second)
	if err != nil {
		return Config{}, err
	}

	cricAPITimeout, err := getEnvAsDuration("CRICAPI_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	cricAPIMaxRetries, err := getEnvAsInt("CRICAPI_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICAPI_MAX_RETRIES: %w", err)
	}
	if cricAPIMaxRetries < 0 {
		return Config{}, fmt.Errorf("CRICAPI_MAX_RETRIES must be >= 0")
	}
	cricAPIRetryBackoff, err := getEnvAsDuration("CRICAPI_RETRY_BACKOFF", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cricAPICircuitEnabled, err := strconv.ParseBool(getEnv("CRICAPI_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICAPI_CIRCUIT_ENABLED: %w", err)
	}
	cricAPICircuitFailureCount, err := getEnvAsInt("CRICAPI_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICAPI_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cricAPICircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CRICAPI_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cricAPICircuitOpenTimeout, err := getEnvAsDuration("CRICAPI_CIRCUIT_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cricAPICircuitHalfOpenMaxReq, err := getEnvAsInt("CRICAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICAPI_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cricAPICircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CRICAPI_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	location, err := time.LoadLocation(getEnv("TOURNAMENT_TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TOURNAMENT_TIMEZONE: %w", err)
	}

	syncMatchTimeout, err := getEnvAsDuration("SYNC_MATCH_TIMEOUT", 45*time.Second)
	if err != nil {
		return Config{}, err
	}
	matchDuration, err := getEnvAsDuration("MATCH_DURATION", 4*time.Hour)
	if err != nil {
		return Config{}, err
	}
	syncOffsets, err := syncattempt.ParseOffsets(getEnv("SYNC_OFFSETS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_OFFSETS: %w", err)
	}

	submissionBlackout, err := getEnvAsDuration("SUBMISSION_BLACKOUT", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	submissionGrace, err := getEnvAsDuration("SUBMISSION_GRACE", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	submissionCASRetries, err := getEnvAsInt("SUBMISSION_CAS_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMISSION_CAS_RETRIES: %w", err)
	}
	if submissionCASRetries < 0 {
		return Config{}, fmt.Errorf("SUBMISSION_CAS_RETRIES must be >= 0")
	}
	transferLimitGroup, err := getEnvAsInt("TRANSFER_LIMIT_GROUP", 120)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_LIMIT_GROUP: %w", err)
	}
	transferLimitFinal, err := getEnvAsInt("TRANSFER_LIMIT_FINAL", 45)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_LIMIT_FINAL: %w", err)
	}
	if transferLimitGroup < 0 || transferLimitFinal < 0 {
		return Config{}, fmt.Errorf("TRANSFER_LIMIT_GROUP and TRANSFER_LIMIT_FINAL must be >= 0")
	}

	superSubWorkers, err := getEnvAsInt("SUPERSUB_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUPERSUB_WORKERS: %w", err)
	}
	if superSubWorkers < 1 {
		return Config{}, fmt.Errorf("SUPERSUB_WORKERS must be >= 1")
	}
	pointerWorkers, err := getEnvAsInt("POINTER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse POINTER_WORKERS: %w", err)
	}
	if pointerWorkers < 1 {
		return Config{}, fmt.Errorf("POINTER_WORKERS must be >= 1")
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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	serviceName := getEnv("APP_SERVICE_NAME", "fantasy-cricket-worker")

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		StorageDriver:      storageDriver,
		DBURL:              dbURL,
		DBBinaryParameters: dbBinaryParameters,
		DBSeedOnStart:      dbSeedOnStart,
		CacheEnabled:       cacheEnabled,
		CacheTTL:           cacheTTL,

		CricAPIBaseURL:               strings.TrimSpace(getEnv("CRICAPI_BASE_URL", "https://api.cricapi.com/v1")),
		CricAPIKey:                   strings.TrimSpace(getEnv("CRICAPI_KEY", "")),
		CricAPITimeout:               cricAPITimeout,
		CricAPIMaxRetries:            cricAPIMaxRetries,
		CricAPIRetryBackoff:          cricAPIRetryBackoff,
		CricAPICircuitEnabled:        cricAPICircuitEnabled,
		CricAPICircuitFailureCount:   cricAPICircuitFailureCount,
		CricAPICircuitOpenTimeout:    cricAPICircuitOpenTimeout,
		CricAPICircuitHalfOpenMaxReq: cricAPICircuitHalfOpenMaxReq,

		TournamentSeriesID:   strings.TrimSpace(getEnv("TOURNAMENT_SERIES_ID", "")),
		TournamentSeriesName: strings.TrimSpace(getEnv("TOURNAMENT_SERIES_NAME", "ICC Men's T20 World Cup 2026")),
		TournamentLocation:   location,
		RuleSetName:          strings.TrimSpace(getEnv("RULESET_NAME", ruleset.DefaultName)),

		SyncMatchTimeout: syncMatchTimeout,
		MatchDuration:    matchDuration,
		SyncOffsets:      syncOffsets,

		SubmissionBlackout:   submissionBlackout,
		SubmissionGrace:      submissionGrace,
		SubmissionCASRetries: submissionCASRetries,
		TransferLimitGroup:   transferLimitGroup,
		TransferLimitFinal:   transferLimitFinal,

		CronScheduler:  strings.TrimSpace(getEnv("CRON_SCHEDULER", "@every 5m")),
		CronAutoSubmit: strings.TrimSpace(getEnv("CRON_AUTO_SUBMIT", "@every 10m")),
		CronFullSync:   strings.TrimSpace(getEnv("CRON_FULL_SYNC", "0 3 * * *")),

		SuperSubWorkers: superSubWorkers,
		PointerWorkers:  pointerWorkers,

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseStorageDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StorageMemory, StoragePostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", v, StorageMemory, StoragePostgres)
	}
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

// getEnvAsDuration rejects values that do not parse or are not positive.
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
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
