package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvHTTPAddr         = "LEDGER_HTTP_ADDR"
	EnvStore            = "LEDGER_STORE"
	EnvPostgresDSN      = "LEDGER_POSTGRES_DSN"
	EnvPostgresDriver   = "LEDGER_POSTGRES_DRIVER"
	EnvSQLitePath       = "LEDGER_SQLITE_PATH"
	EnvEventsTable      = "LEDGER_EVENTS_TABLE"
	EnvLogLevel         = "LEDGER_LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvRabbitMQURL      = "RABBITMQ_URL"
	EnvRabbitMQExchange = "RABBITMQ_EXCHANGE"
	EnvCORSOrigins      = "LEDGER_CORS_ORIGINS"
	EnvOTelEnabled      = "OTEL_ENABLED"
	EnvOTelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"

	DriverPGX  = "pgx"
	DriverSQL  = "sql"
	DriverSQLX = "sqlx"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultStore            = StoreMemory
	defaultPostgresDriver   = DriverPGX
	defaultSQLitePath       = "ledger.db"
	defaultEventsTable      = "events"
	defaultLogLevel         = "info"
	defaultRabbitMQExchange = "library.events"
	defaultOTelEndpoint     = "localhost:4317"
)

var (
	ErrUnknownStore       = errors.New("unknown " + EnvStore)
	ErrUnknownDriver      = errors.New("unknown " + EnvPostgresDriver)
	ErrMissingPostgresDSN = errors.New(EnvPostgresDSN + " is required for the postgres store")
	ErrUnknownLogFormat   = errors.New("unknown " + EnvLogFormat)
	ErrInvalidBool        = errors.New("invalid boolean")
)

type Config struct {
	HTTPAddr         string
	Store            string
	PostgresDSN      string
	PostgresDriver   string
	SQLitePath       string
	EventsTable      string
	LogLevel         string
	LogFormat        string
	RabbitMQURL      string
	RabbitMQExchange string
	CORSOrigins      []string
	OTelEnabled      bool
	OTelEndpoint     string
}

// Load reads the optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, os.Getenv in production.
// All invalid values are reported at once.
func FromEnv(getenv func(string) string) (Config, error) {
	value := func(name, fallback string) string {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}

		return fallback
	}

	cfg := Config{
		HTTPAddr:         value(EnvHTTPAddr, defaultHTTPAddr),
		Store:            strings.ToLower(value(EnvStore, defaultStore)),
		PostgresDSN:      value(EnvPostgresDSN, ""),
		PostgresDriver:   strings.ToLower(value(EnvPostgresDriver, defaultPostgresDriver)),
		SQLitePath:       value(EnvSQLitePath, defaultSQLitePath),
		EventsTable:      value(EnvEventsTable, defaultEventsTable),
		LogLevel:         strings.ToLower(value(EnvLogLevel, defaultLogLevel)),
		LogFormat:        strings.ToLower(value(EnvLogFormat, LogFormatJSON)),
		RabbitMQURL:      value(EnvRabbitMQURL, ""),
		RabbitMQExchange: value(EnvRabbitMQExchange, defaultRabbitMQExchange),
		CORSOrigins:      splitList(value(EnvCORSOrigins, "")),
		OTelEndpoint:     value(EnvOTelEndpoint, defaultOTelEndpoint),
	}

	var errs []error

	otelEnabled, err := parseBool(value(EnvOTelEnabled, "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvOTelEnabled, err))
	}
	cfg.OTelEnabled = otelEnabled

	if !slices.Contains([]string{StorePostgres, StoreSQLite, StoreMemory}, cfg.Store) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store))
	}

	if cfg.Store == StorePostgres {
		if !slices.Contains([]string{DriverPGX, DriverSQL, DriverSQLX}, cfg.PostgresDriver) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.PostgresDriver))
		}

		if cfg.PostgresDSN == "" {
			errs = append(errs, ErrMissingPostgresDSN)
		}
	}

	if !slices.Contains([]string{LogFormatJSON, LogFormatConsole}, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownLogFormat, cfg.LogFormat))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var items []string

	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

func parseBool(raw string) (bool, error) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, raw)
	}

	return parsed, nil
}
