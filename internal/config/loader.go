package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
)

// LoadServerConfig reads SERVER_HOST and SERVER_PORT. Missing or unusable
// values fall back to localhost:3000 without any report.
func LoadServerConfig() ServerConfig {
	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = DEFAULT_HOST
	}
	return ServerConfig{
		Host: host,
		Port: ParsePort(os.Getenv("SERVER_PORT")),
	}
}

// ParsePort reads the leading base-10 integer of raw, skipping leading
// whitespace and accepting a sign. Anything without digits, and zero, yields
// DEFAULT_PORT. The range is not checked: a value too large for an int
// saturates so the bind rejects it.
func ParsePort(raw string) int {
	s := strings.TrimLeftFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return DEFAULT_PORT
	}
	port, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return DEFAULT_PORT
	}
	if port == 0 {
		return DEFAULT_PORT
	}
	if negative {
		return -port
	}
	return port
}

// LoadEnv loads an optional .env file and builds the full application
// configuration from the environment.
func LoadEnv() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found or error loading .env file", "err", err)
	}

	cfg := AppConfig{
		AppName:     getenvDefault("APP_NAME", DEFAULT_APP_NAME),
		LogLevel:    parseLogLevel(os.Getenv("LOG_LEVEL")),
		Server:      LoadServerConfig(),
		GraphiQL:    getenvBool("GRAPHIQL_ENABLED", true),
		MetricsAddr: DEFAULT_METRICS_ADDR,
		Database: DatabaseConfig{
			URL:     getenvDefault("DATABASE_URL", DEFAULT_DATABASE_URL),
			Schemas: splitList(getenvDefault("DATABASE_SCHEMAS", DEFAULT_SCHEMA)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Export: ExportConfig{
			Path:   os.Getenv("EXPORT_SCHEMA_PATH"),
			Bucket: os.Getenv("EXPORT_SCHEMA_BUCKET"),
			Minio: MinioConfig{
				Endpoint:  getenvDefault("MINIO_ENDPOINT", DEFAULT_MINIO_ENDPOINT),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				UseSSL:    getenvBool("MINIO_USE_SSL", false),
			},
		},
		ShutdownTimeout: time.Duration(getenvInt("SHUTDOWN_TIMEOUT_SEC", int(DEFAULT_SHUTDOWN_TIMEOUT/time.Second))) * time.Second,
	}

	// An explicitly empty METRICS_ADDR disables the metrics listener.
	if addr, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.MetricsAddr = addr
	}

	if len(cfg.Database.Schemas) == 0 {
		cfg.Database.Schemas = []string{DEFAULT_SCHEMA}
	}

	if cfg.Export.Bucket != "" {
		if cfg.Export.Minio.AccessKey == "" {
			return cfg, errors.New("MINIO_ACCESS_KEY is not set")
		}
		if cfg.Export.Minio.SecretKey == "" {
			return cfg, errors.New("MINIO_SECRET_KEY is not set")
		}
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		slog.Warn("Invalid boolean, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

func parseLogLevel(raw string) slog.Level {
	var level slog.Level
	if raw == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		slog.Warn("Invalid LOG_LEVEL, using info", "value", raw)
		return slog.LevelInfo
	}
	return level
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
