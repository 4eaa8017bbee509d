package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEndpoint(t *testing.T) {
	startedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := NewEndpoint("graphile-server", "localhost", 4000, startedAt)

	assert.Equal(t, "http://localhost:4000/graphql", e.GraphQLURL)
	assert.Equal(t, "http://localhost:4000/graphiql", e.GraphiQLURL)
	assert.Equal(t, "http://localhost:4000", e.ServerURL)
	assert.Equal(t, startedAt, e.StartedAt)
}

func TestNewEndpointIPv6(t *testing.T) {
	e := NewEndpoint("graphile-server", "::1", 3000, time.Time{})
	assert.Equal(t, "http://[::1]:3000", e.ServerURL)
}
