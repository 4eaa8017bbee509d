package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/jonno85/graphile-server/internal/adapter"
	"github.com/jonno85/graphile-server/internal/domain"
	"github.com/jonno85/graphile-server/internal/metrics"
)

// RegisterEndpoint announces endpoint in the registry, replacing any entry
// left behind by a server that did not shut down cleanly. Failures are
// counted and logged; callers keep serving either way.
func RegisterEndpoint(ctx context.Context, registry adapter.EndpointRegistry, endpoint domain.Endpoint) error {
	previous, err := registry.Lookup(ctx, endpoint.Host, endpoint.Port)
	switch {
	case err == nil:
		slog.Warn("Replacing stale endpoint registration", "url", previous.ServerURL, "name", previous.Name, "startedAt", previous.StartedAt)
	case !errors.Is(err, adapter.ErrEndpointNotFound):
		slog.Debug("Endpoint lookup failed", "url", endpoint.ServerURL, "err", err)
	}

	err = registry.Register(ctx, endpoint)
	metrics.EndpointRegistrations.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		slog.Error("Failed to register endpoint", "url", endpoint.ServerURL, "err", err)
		return err
	}
	slog.Info("Endpoint registered", "url", endpoint.ServerURL)
	return nil
}

func DeregisterEndpoint(ctx context.Context, registry adapter.EndpointRegistry, endpoint domain.Endpoint) error {
	if err := registry.Deregister(ctx, endpoint); err != nil {
		slog.Error("Failed to deregister endpoint", "url", endpoint.ServerURL, "err", err)
		return err
	}
	slog.Info("Endpoint deregistered", "url", endpoint.ServerURL)
	return nil
}
