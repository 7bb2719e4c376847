package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// UpstreamBaseURL is where the dashboard fetches statistics and site data.
	// Defaults to this service, which serves both endpoints itself.
	UpstreamBaseURL string
	StatPath        string
	DataPath        string
	FetchTimeout    time.Duration

	// TopN bounds the ranked lists produced for /stat.
	TopN int

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	SQLiteLogSQL          bool

	MQTTEnabled  bool
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string

	TracingEnabled  bool
	TracingEndpoint string
}

// LoadFromEnv reads a .env file when present, then the process environment.
// Variables already set in the environment win over .env entries.
func LoadFromEnv() (Config, error) {
	_ = godotenv.Load()

	appEnv := envOr("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	httpAddr := envOr("HTTP_ADDR", ":8080")
	upstream := strings.TrimRight(envOr("UPSTREAM_BASE_URL", selfBaseURL(httpAddr)), "/")
	if !strings.HasPrefix(upstream, "http://") && !strings.HasPrefix(upstream, "https://") {
		return Config{}, fmt.Errorf("invalid UPSTREAM_BASE_URL %q (expected http:// or https://)", upstream)
	}

	statPath, err := parsePath("STAT_PATH", envOr("STAT_PATH", "/stat"))
	if err != nil {
		return Config{}, err
	}
	dataPath, err := parsePath("DATA_PATH", envOr("DATA_PATH", "/data"))
	if err != nil {
		return Config{}, err
	}

	fetchTimeoutStr := envOr("FETCH_TIMEOUT", "10s")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", fetchTimeoutStr, err)
	}
	if fetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", fetchTimeout)
	}

	topNStr := envOr("TOP_N", "5")
	topN, err := strconv.Atoi(topNStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOP_N %q: %w", topNStr, err)
	}
	if topN <= 0 {
		return Config{}, fmt.Errorf("TOP_N must be positive, got %d", topN)
	}

	maxOpenConnsStr := envOr("DB_MAX_OPEN_CONNS", "1")
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", maxOpenConnsStr, err)
	}

	maxIdleConnsStr := envOr("DB_MAX_IDLE_CONNS", "1")
	maxIdleConns, err := strconv.Atoi(maxIdleConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", maxIdleConnsStr, err)
	}

	connMaxLifetimeStr := envOr("DB_CONN_MAX_LIFETIME", "0s")
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	logSQL, err := parseBool("DB_LOG_SQL", envOr("DB_LOG_SQL", "false"))
	if err != nil {
		return Config{}, err
	}

	mqttEnabled, err := parseBool("MQTT_ENABLED", envOr("MQTT_ENABLED", "true"))
	if err != nil {
		return Config{}, err
	}

	mqttPortStr := envOr("MQTT_PORT", "1883")
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("MQTT_PORT out of range: %d", mqttPort)
	}

	tracingEnabled, err := parseBool("TRACING_ENABLED", envOr("TRACING_ENABLED", "false"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:   appEnv,
		LogLevel: level,
		HTTPAddr: httpAddr,

		UpstreamBaseURL: upstream,
		StatPath:        statPath,
		DataPath:        dataPath,
		FetchTimeout:    fetchTimeout,
		TopN:            topN,

		SQLiteDriver:          envOr("DB_DRIVER", "sqlite3"),
		SQLiteDSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		SQLitePath:            envOr("SQLITE_PATH", "../dev/sqlite/app.db"),
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogSQL:          logSQL,

		MQTTEnabled:  mqttEnabled,
		MQTTBroker:   envOr("MQTT_BROKER", "localhost"),
		MQTTPort:     mqttPort,
		MQTTClientID: envOr("MQTT_CLIENT_ID", "renewables-dashboard"),
		MQTTTopic:    envOr("MQTT_TOPIC", "sites/+/observations"),

		TracingEnabled:  tracingEnabled,
		TracingEndpoint: envOr("TRACING_ENDPOINT", "localhost:4317"),
	}, nil
}

// selfBaseURL points at this server's own listener, which also serves the
// producer routes when no upstream is configured.
func selfBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func parseBool(key, s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parsePath(key, s string) (string, error) {
	if !strings.HasPrefix(s, "/") {
		return "", fmt.Errorf("invalid %s %q (must start with /)", key, s)
	}
	return s, nil
}
