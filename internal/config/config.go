package config

import (
	"log/slog"
	"time"
)

const (
	DEFAULT_HOST             = "localhost"
	DEFAULT_PORT             = 3000
	DEFAULT_APP_NAME         = "graphile-server"
	DEFAULT_DATABASE_URL     = "postgres://localhost:5432/postgres?sslmode=disable"
	DEFAULT_SCHEMA           = "public"
	DEFAULT_METRICS_ADDR     = ":2112"
	DEFAULT_MINIO_ENDPOINT   = "localhost:9000"
	DEFAULT_SHUTDOWN_TIMEOUT = 10 * time.Second
)

// ServerConfig is the host/port pair the bootstrap binds. It is read once at
// start and never changes afterwards.
type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL     string
	Schemas []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether an endpoint registry should be used at all.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type ExportConfig struct {
	Path   string
	Bucket string
	Minio  MinioConfig
}

type AppConfig struct {
	AppName         string
	LogLevel        slog.Level
	Server          ServerConfig
	Database        DatabaseConfig
	GraphiQL        bool
	MetricsAddr     string
	Redis           RedisConfig
	Export          ExportConfig
	ShutdownTimeout time.Duration
}
