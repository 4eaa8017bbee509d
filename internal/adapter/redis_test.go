package adapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonno85/graphile-server/internal/domain"
)

func newTestRedisClient(t *testing.T) (*RedisClientImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClientImpl(mr.Addr(), "", 0)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestEndpointKey(t *testing.T) {
	assert.Equal(t, "graphile:endpoint:localhost:3000", endpointKey("localhost", 3000))
	assert.Equal(t, "graphile:endpoint:::1:4000", endpointKey("::1", 4000))
}

func TestRedisRegisterLookupDeregister(t *testing.T) {
	client, mr := newTestRedisClient(t)
	ctx := context.Background()
	endpoint := domain.NewEndpoint("graphile-server", "localhost", 3000, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	key := "graphile:endpoint:localhost:3000"

	require.NoError(t, client.Register(ctx, endpoint))

	raw, err := mr.Get(key)
	require.NoError(t, err)
	var stored domain.Endpoint
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, endpoint.GraphiQLURL, stored.GraphiQLURL)
	assert.Equal(t, 0*time.Second, mr.TTL(key))

	member, err := mr.IsMember(EndpointIndex, key)
	require.NoError(t, err)
	assert.True(t, member)

	found, err := client.Lookup(ctx, "localhost", 3000)
	require.NoError(t, err)
	assert.Equal(t, endpoint.ServerURL, found.ServerURL)
	assert.True(t, endpoint.StartedAt.Equal(found.StartedAt))

	require.NoError(t, client.Deregister(ctx, endpoint))
	assert.False(t, mr.Exists(key))
	members, _ := mr.SMembers(EndpointIndex)
	assert.NotContains(t, members, key)

	_, err = client.Lookup(ctx, "localhost", 3000)
	assert.ErrorIs(t, err, ErrEndpointNotFound)
}

func TestRedisLookupUnknownEndpoint(t *testing.T) {
	client, _ := newTestRedisClient(t)

	_, err := client.Lookup(context.Background(), "localhost", 4000)
	assert.ErrorIs(t, err, ErrEndpointNotFound)
}

func TestRedisRegisterFailsWhenServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := client.Register(ctx, domain.NewEndpoint("graphile-server", "localhost", 3000, time.Now()))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEndpointNotFound)
}
