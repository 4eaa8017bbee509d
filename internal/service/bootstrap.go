package service

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/jonno85/graphile-server/internal/config"
	"github.com/jonno85/graphile-server/internal/domain"
)

// Start binds cfg's address and serves server on it in the background. The
// banner goes to out only after the bind succeeded; a failed bind returns the
// listen error and writes nothing.
func Start(server *http.Server, cfg config.ServerConfig, name string, out io.Writer) (domain.Endpoint, error) {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return domain.Endpoint{}, errors.Wrapf(err, "bind %s", cfg.Addr())
	}

	endpoint := domain.NewEndpoint(name, cfg.Host, cfg.Port, time.Now().UTC())
	PrintBanner(out, endpoint)

	go func() {
		slog.Info("Starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
		}
	}()
	return endpoint, nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until timeout.
func Shutdown(server *http.Server, timeout time.Duration) error {
	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		return err
	}
	slog.Info("Server exited gracefully")
	return nil
}
