package config

import (
	"net"
	"net/http"
	"strconv"
)

// Addr joins host and port the way net.Listen expects them.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewHTTPServer creates and returns a configured *http.Server.
// Every request, whatever its method or path, goes to handler.
func NewHTTPServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}
}
