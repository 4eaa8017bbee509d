package config

import (
	"github.com/jonno85/graphile-server/internal/adapter"
)

type AppClients struct {
	Database    *adapter.Database
	RedisClient *adapter.RedisClientImpl
	S3Client    *adapter.S3ClientImpl
}

// NewAppClients builds the external clients. Redis and S3 stay nil when
// their configuration is absent.
func NewAppClients(cfg AppConfig) (*AppClients, error) {
	db, err := adapter.NewDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	clients := &AppClients{Database: db}

	if cfg.Redis.Enabled() {
		clients.RedisClient = adapter.NewRedisClientImpl(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	if cfg.Export.Bucket != "" {
		m := cfg.Export.Minio
		s3, err := adapter.NewMinioClient(m.Endpoint, m.AccessKey, m.SecretKey, m.UseSSL)
		if err != nil {
			db.Close()
			return nil, err
		}
		clients.S3Client = s3
	}
	return clients, nil
}
