// Command load-generator runs many concurrent loan requests and returns against the configured
// event store and checks the ledger invariants when it is done.
//
// The store is selected with the same environment variables as ledger-api.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AntonStoeckl/library-ledger-go/library/catalog"
	"github.com/AntonStoeckl/library-ledger-go/library/ledger"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/wiring"
)

const (
	defaultRequests       = 10000
	defaultWorkers        = 32
	defaultBooks          = 200
	defaultPatrons        = 50
	defaultReturnPercent  = 30
	defaultReportInterval = 5 * time.Second
)

type Config struct {
	Requests       int
	Workers        int
	Books          int
	Patrons        int
	ReturnPercent  int
	ReportInterval time.Duration
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "load-generator:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseFlags()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeConfig, err := config.Load()
	if err != nil {
		return err
	}

	obs, err := config.NewObservability(ctx, storeConfig, "load-generator")
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown() }()

	loggers := config.NewLoggers(storeConfig, os.Stdout)

	store, err := config.OpenEventStore(ctx, storeConfig, loggers, obs)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	options := []wiring.Option{wiring.WithContextualLogger(loggers.Contextual)}
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

	generator := NewLoadGenerator(loans, books, cfg, loggers.Logger)

	if err = generator.Seed(ctx); err != nil {
		return err
	}

	loggers.Logger.Info("load generator started",
		"requests", humanize.Comma(int64(cfg.Requests)),
		"workers", cfg.Workers,
		"books", cfg.Books,
		"patrons", cfg.Patrons,
		"store", storeConfig.Store,
	)

	generator.Run(ctx)
	generator.logStats("load generator finished")

	violations, err := generator.Verify(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("verifying invariants: %w", err)
	}

	for _, violation := range violations {
		loggers.Logger.Error("invariant violated", "subject", violation.Subject, "problem", violation.Problem)
	}

	if len(violations) > 0 {
		return fmt.Errorf("%s invariant violations", humanize.Comma(int64(len(violations))))
	}

	loggers.Logger.Info("all invariants hold")

	return nil
}

func parseFlags() (Config, error) {
	var cfg Config

	flag.IntVar(&cfg.Requests, "requests", defaultRequests, "Total number of operations")
	flag.IntVar(&cfg.Workers, "workers", defaultWorkers, "Operations in flight at the same time")
	flag.IntVar(&cfg.Books, "books", defaultBooks, "Number of books to add")
	flag.IntVar(&cfg.Patrons, "patrons", defaultPatrons, "Number of patrons to register")
	flag.IntVar(&cfg.ReturnPercent, "return-percent", defaultReturnPercent, "Share of operations returning a loan")
	flag.DurationVar(&cfg.ReportInterval, "report-interval", defaultReportInterval, "Progress log interval, 0 disables it")

	flag.Parse()

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Requests < 1 || c.Workers < 1 || c.Books < 1 || c.Patrons < 1 {
		return fmt.Errorf("requests, workers, books and patrons must be positive")
	}

	if c.ReturnPercent < 0 || c.ReturnPercent > 100 {
		return fmt.Errorf("return-percent %d out of range [0, 100]", c.ReturnPercent)
	}

	return nil
}
