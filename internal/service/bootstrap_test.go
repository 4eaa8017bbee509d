package service

import (
	"bytes"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonno85/graphile-server/internal/config"
)

func plainColors(t *testing.T) {
	t.Helper()
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestStartAcceptsConnections(t *testing.T) {
	plainColors(t)
	cfg := config.ServerConfig{Host: "localhost", Port: freePort(t)}
	server := config.NewHTTPServer(cfg, okHandler())
	t.Cleanup(func() { server.Close() })

	var out bytes.Buffer
	endpoint, err := Start(server, cfg, "graphile-server", &out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Port, endpoint.Port)

	conn, err := net.DialTimeout("tcp", cfg.Addr(), time.Second)
	require.NoError(t, err)
	conn.Close()

	res, err := http.Get(endpoint.GraphQLURL)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestStartPrintsBanner(t *testing.T) {
	plainColors(t)
	cfg := config.ServerConfig{Host: "localhost", Port: freePort(t)}
	server := config.NewHTTPServer(cfg, okHandler())
	t.Cleanup(func() { server.Close() })

	var out bytes.Buffer
	_, err := Start(server, cfg, "graphile-server", &out)
	require.NoError(t, err)

	port := strconv.Itoa(cfg.Port)
	root := "http://localhost:" + port
	var graphql, graphiql, bare int
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.Contains(line, "/graphql") {
			graphql++
			assert.Contains(t, line, root+"/graphql")
		}
		if strings.Contains(line, "/graphiql") {
			graphiql++
			assert.Contains(t, line, root+"/graphiql")
		}
		if strings.HasSuffix(line, root) {
			bare++
		}
	}
	assert.Equal(t, 1, graphql)
	assert.Equal(t, 1, graphiql)
	assert.Equal(t, 1, bare)
	assert.True(t, strings.HasPrefix(out.String(), "graphile-server listening on port "+port+"\n"))
}

func TestStartAddressInUse(t *testing.T) {
	plainColors(t)
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { taken.Close() })

	cfg := config.ServerConfig{Host: "127.0.0.1", Port: taken.Addr().(*net.TCPAddr).Port}
	server := config.NewHTTPServer(cfg, okHandler())

	var out bytes.Buffer
	_, err = Start(server, cfg, "graphile-server", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EADDRINUSE)
	assert.Empty(t, out.String())
}

func TestStartInvalidPort(t *testing.T) {
	for _, raw := range []string{"70000", "99999999999999999999"} {
		t.Run(raw, func(t *testing.T) {
			cfg := config.ServerConfig{Host: "localhost", Port: config.ParsePort(raw)}
			server := config.NewHTTPServer(cfg, okHandler())

			var out bytes.Buffer
			_, err := Start(server, cfg, "graphile-server", &out)
			assert.Error(t, err)
			assert.Empty(t, out.String())
		})
	}
}

func TestShutdownStopsServing(t *testing.T) {
	cfg := config.ServerConfig{Host: "localhost", Port: freePort(t)}
	server := config.NewHTTPServer(cfg, okHandler())

	var out bytes.Buffer
	_, err := Start(server, cfg, "graphile-server", &out)
	require.NoError(t, err)
	require.NoError(t, Shutdown(server, time.Second))

	assert.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", cfg.Addr(), 100*time.Millisecond)
		if err != nil {
			return true
		}
		conn.Close()
		return false
	}, time.Second, 20*time.Millisecond)
}
