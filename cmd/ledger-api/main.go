// Command ledger-api serves the library loan ledger and its catalog over HTTP.
//
// All settings come from environment variables or a .env file, see package config.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/catalog"
	"github.com/AntonStoeckl/library-ledger-go/library/httpapi"
	"github.com/AntonStoeckl/library-ledger-go/library/ledger"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/snapshot"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/wiring"
)

const (
	serviceVersion    = "1.0.0"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "ledger-api:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	obs, err := config.NewObservability(ctx, cfg, serviceVersion)
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown() }()

	loggers := config.NewLoggers(cfg, os.Stdout)

	store, err := config.OpenEventStore(ctx, cfg, loggers, obs)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			loggers.Logger.Error("closing event store failed", "error", closeErr)
		}
	}()

	options := []wiring.Option{
		wiring.WithLogger(loggers.Logger),
		wiring.WithContextualLogger(loggers.Contextual),
	}

	if store.OrderedCommits {
		snapshots, snapshotErr := snapshot.NewLRUStore(snapshot.DefaultLRUSize)
		if snapshotErr != nil {
			return snapshotErr
		}

		options = append(options, wiring.WithSnapshots(snapshots))
	} else {
		loggers.Logger.Info("snapshots disabled, the event store may commit sequence numbers out of order")
	}

	if obs.Metrics != nil {
		options = append(options, wiring.WithMetrics(obs.Metrics))
	}

	if obs.Tracing != nil {
		options = append(options, wiring.WithTracing(obs.Tracing))
	}

	loans, err := ledger.New(store.EventStore, options...)
	if err != nil {
		return err
	}

	books, err := catalog.New(store.EventStore, options...)
	if err != nil {
		return err
	}

	api := httpapi.NewServer(loans, books,
		httpapi.WithLogger(loggers.Contextual),
		httpapi.WithCORSOrigins(cfg.CORSOrigins...),
		httpapi.WithHealthCheck(store.Health),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	loggers.Logger.Info("ledger api listening",
		"addr", cfg.HTTPAddr,
		"store", cfg.Store,
		"otel", obs.Enabled(),
		"publishing", cfg.RabbitMQURL != "",
	)

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		loggers.Logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
