package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonno85/graphile-server/internal/adapter"
	"github.com/jonno85/graphile-server/internal/config"
	"github.com/jonno85/graphile-server/internal/domain"
	"github.com/jonno85/graphile-server/internal/graphile"
	"github.com/jonno85/graphile-server/internal/metrics"
	"github.com/jonno85/graphile-server/internal/middleware"
	"github.com/jonno85/graphile-server/internal/service"
)

// stdout is where the startup banner goes.
var stdout io.Writer = os.Stdout

// loadConfig reads the environment and installs the default slog logger.
func loadConfig() (config.AppConfig, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return cfg, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func newMiddleware(cfg config.AppConfig, db *adapter.Database) (*graphile.Middleware, error) {
	return graphile.New(db, graphile.Options{
		Schemas:  cfg.Database.Schemas,
		GraphiQL: cfg.GraphiQL,
	})
}

// setupHTTPServer builds the server with the GraphQL middleware as its only
// request handler. Paths the middleware does not answer get a 404.
func setupHTTPServer(cfg config.ServerConfig, gql *graphile.Middleware) *http.Server {
	handler := gql.Wrap(http.NotFoundHandler())
	wrappedHandler := middleware.RequestLogger(middleware.Instrument(handler, gql.Routes()...))
	return config.NewHTTPServer(cfg, wrappedHandler)
}

func newSchemaExporter(path string, cfg config.AppConfig, clients *config.AppClients, gql *graphile.Middleware) *service.SchemaExporter {
	var store adapter.ObjectStore
	if clients.S3Client != nil {
		store = clients.S3Client
	}
	return service.NewSchemaExporter(gql, path, cfg.Export.Bucket, store)
}

// runBackgroundTasks announces the endpoint and exports the schema. Neither
// can stop the server. The returned channel is closed once the registration
// attempt has finished.
func runBackgroundTasks(ctx context.Context, clients *config.AppClients, exporter *service.SchemaExporter, endpoint domain.Endpoint) <-chan struct{} {
	registered := make(chan struct{})
	if clients.RedisClient != nil {
		slog.Info("Running background: RegisterEndpoint")
		go func() {
			defer close(registered)
			service.RegisterEndpoint(ctx, clients.RedisClient, endpoint)
		}()
	} else {
		close(registered)
	}
	if exporter.Enabled() {
		slog.Info("Running background: ExportSchema")
		go exporter.Export(ctx)
	}
	return registered
}

func closeClients(clients *config.AppClients) {
	if clients.RedisClient != nil {
		if err := clients.RedisClient.Close(); err != nil {
			slog.Error("Failed to close Redis client", "err", err)
		} else {
			slog.Info("Redis client closed")
		}
	}
	if err := clients.Database.Close(); err != nil {
		slog.Error("Failed to close database", "err", err)
	} else {
		slog.Info("Database pool closed")
	}
}

// gracefulShutdown stops the HTTP and metrics servers, removes the registry
// entry once registration has settled and closes the clients.
func gracefulShutdown(cfg config.AppConfig, server, metricsServer *http.Server, clients *config.AppClients, endpoint domain.Endpoint, registered <-chan struct{}) {
	service.Shutdown(server, cfg.ShutdownTimeout)
	if metricsServer != nil {
		service.Shutdown(metricsServer, cfg.ShutdownTimeout)
	}
	if clients.RedisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		select {
		case <-registered:
			service.DeregisterEndpoint(ctx, clients.RedisClient, endpoint)
		case <-ctx.Done():
			slog.Warn("Endpoint registration still pending, entry may be left behind", "url", endpoint.ServerURL)
		}
		cancel()
	}
	closeClients(clients)
}

func runServe(ctx context.Context) error {
	return serve(ctx, stdout, nil)
}

// serve runs the server until a signal arrives or stop is closed.
func serve(ctx context.Context, out io.Writer, stop <-chan struct{}) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Instantiate external clients
	clients, err := config.NewAppClients(cfg)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := clients.Database.Ping(pingCtx); err != nil {
		slog.Warn("Database not reachable yet, queries will fail until it is", "err", err)
	}
	cancel()

	gql, err := newMiddleware(cfg, clients.Database)
	if err != nil {
		closeClients(clients)
		return err
	}

	// Set up HTTP server
	server := setupHTTPServer(cfg.Server, gql)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr)
		go metrics.Serve(metricsServer)
	}

	// Channel to listen for interrupt or terminate signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	endpoint, err := service.Start(server, cfg.Server, cfg.AppName, out)
	if err != nil {
		if metricsServer != nil {
			metricsServer.Close()
		}
		closeClients(clients)
		return err
	}

	registered := runBackgroundTasks(ctx, clients, newSchemaExporter(cfg.Export.Path, cfg, clients, gql), endpoint)

	select {
	case <-quit:
	case <-stop:
	case <-ctx.Done():
	}
	gracefulShutdown(cfg, server, metricsServer, clients, endpoint, registered)
	return nil
}

func runExportSchema(ctx context.Context, out string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	clients, err := config.NewAppClients(cfg)
	if err != nil {
		return err
	}
	defer closeClients(clients)

	gql, err := newMiddleware(cfg, clients.Database)
	if err != nil {
		return err
	}

	exporter := newSchemaExporter(out, cfg, clients, gql)
	if !exporter.Enabled() {
		doc, err := gql.IntrospectionJSON(ctx)
		if err != nil {
			return err
		}
		_, err = w.Write(append(doc, '\n'))
		return err
	}
	return exporter.Export(ctx)
}
