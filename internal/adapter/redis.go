package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonno85/graphile-server/internal/domain"
	redis "github.com/redis/go-redis/v9"
)

const (
	EndpointKeyPrefix = "graphile:endpoint:"
	EndpointIndex     = "graphile:endpoints"
	TTL_INFINITE      = 0
)

var ErrEndpointNotFound = errors.New("endpoint not registered")

// EndpointRegistry publishes where a running server can be reached.
type EndpointRegistry interface {
	Register(ctx context.Context, endpoint domain.Endpoint) error
	Deregister(ctx context.Context, endpoint domain.Endpoint) error
	Lookup(ctx context.Context, host string, port int) (domain.Endpoint, error)
	Close() error
}

type RedisClientImpl struct {
	redisClient *redis.Client
}

func NewRedisClientImpl(addr, password string, db int) *RedisClientImpl {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "addr", addr, "err", err)
	}

	return &RedisClientImpl{
		redisClient: client,
	}
}

func endpointKey(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", EndpointKeyPrefix, host, port)
}

func (r *RedisClientImpl) Register(ctx context.Context, endpoint domain.Endpoint) error {
	jsonBytes, err := json.Marshal(endpoint)
	if err != nil {
		return err
	}
	key := endpointKey(endpoint.Host, endpoint.Port)
	_, err = r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := pipe.Set(ctx, key, jsonBytes, TTL_INFINITE).Err(); err != nil {
			return err
		}
		return pipe.SAdd(ctx, EndpointIndex, key).Err()
	})
	slog.Debug("Register endpoint", "key", key, "err", err)
	return err
}

func (r *RedisClientImpl) Deregister(ctx context.Context, endpoint domain.Endpoint) error {
	key := endpointKey(endpoint.Host, endpoint.Port)
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := pipe.Del(ctx, key).Err(); err != nil {
			return err
		}
		return pipe.SRem(ctx, EndpointIndex, key).Err()
	})
	slog.Debug("Deregister endpoint", "key", key, "err", err)
	return err
}

func (r *RedisClientImpl) Lookup(ctx context.Context, host string, port int) (domain.Endpoint, error) {
	var endpoint domain.Endpoint
	jsonBytes, err := r.redisClient.Get(ctx, endpointKey(host, port)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return endpoint, ErrEndpointNotFound
		}
		return endpoint, err
	}
	if err := json.Unmarshal(jsonBytes, &endpoint); err != nil {
		return endpoint, err
	}
	return endpoint, nil
}

func (r *RedisClientImpl) Close() error {
	return r.redisClient.Close()
}
