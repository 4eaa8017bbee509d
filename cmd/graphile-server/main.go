// Package main implements the entry point for graphile-server.
// It mounts the GraphQL middleware on an HTTP listener configured from the
// environment and prints the endpoint URLs once the listener is bound.
package main

import (
	"log/slog"
	"os"
)

// Version information set by ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("graphile-server failed", "err", err)
		os.Exit(1)
	}
}
