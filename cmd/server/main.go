// Command server runs the schsrch identity service.
//
// Configuration is loaded from a YAML file (see pkg/config for the
// discovery order) with SCHSRCH_ID_* environment overrides:
//
//	SCHSRCH_ID_CONFIG   - Config file path
//	SCHSRCH_ID_PORT     - Listen port (default: 8080)
//	SCHSRCH_ID_STORAGE  - Storage type: "memory" or "postgres" (default: "memory")
//	SCHSRCH_ID_DSN      - PostgreSQL connection string
//	SCHSRCH_ID_MIGRATE  - Apply schema migrations on startup
//	SCHSRCH_ID_LOG_LEVEL - ERROR, WARN, INFO, DEBUG or TRACE
//	SCHSRCH_ID_DEBUG    - Debug categories (auth, storage, transport, config, all)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schsrch/identity/pkg/api"
	"github.com/schsrch/identity/pkg/auth"
	"github.com/schsrch/identity/pkg/config"
	"github.com/schsrch/identity/pkg/debug"
	"github.com/schsrch/identity/pkg/observability"
	"github.com/schsrch/identity/pkg/storage"
	"github.com/schsrch/identity/pkg/storage/memory"
	"github.com/schsrch/identity/pkg/storage/postgres"
	"github.com/schsrch/identity/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)
	logger := slog.Default()

	// Create the identity store.
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	svc := auth.NewService(store)

	// Build the HTTP surface. The auth gateway owns /auth/; the status
	// and health endpoints sit beside it.
	mux := http.NewServeMux()
	mux.Handle("/auth/", observability.MetricsMiddleware(auth.NewHandler(svc)))

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		n, err := store.CountIdentities(r.Context())
		if err != nil {
			slog.Error("counting identities", "error", err)
			auth.WriteAPIError(w, api.NewServerError("internal server error"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.StatusResponse{Identities: n})
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.HealthCheck(ctx); err != nil {
			http.Error(w, "store unavailable\n", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := transport.NewServer(mux,
		transport.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transport.WithReadTimeout(cfg.Server.ReadTimeout),
		transport.WithWriteTimeout(cfg.Server.WriteTimeout),
		transport.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transport.WithLogger(logger),
	)

	slog.Info("identity service starting",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
	)
	return srv.ListenAndServe()
}

// newStore constructs the configured IdentityStore.
func newStore(cfg *config.Config) (storage.IdentityStore, error) {
	switch cfg.Storage.Type {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}
