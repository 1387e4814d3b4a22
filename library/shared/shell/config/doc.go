// Package config builds the infrastructure of the ledger API from environment variables:
// the event store with its connection pool, the loggers and the OpenTelemetry providers.
//
// Variables can also come from a .env file in the working directory, real environment variables win.
//
// This package is part of the shell (infrastructure) layer.
package config
