package config

import (
	"io"
	"log/slog"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-ledger-go/eventstore/zerologadapter"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

// InstrumentationName names the service in logs, traces and metrics.
const InstrumentationName = "library-ledger"

// Loggers are the two logger flavors the engines and handlers accept.
type Loggers struct {
	Logger     shell.Logger
	Contextual shell.ContextualLogger
}

// NewLoggers builds a zerolog console logger for LOG_FORMAT=console, otherwise a JSON slog logger.
// With OTel enabled the contextual logger emits through the otelslog bridge instead.
func NewLoggers(cfg Config, out io.Writer) Loggers {
	var loggers Loggers

	switch cfg.LogFormat {
	case LogFormatConsole:
		console := zerologadapter.NewConsole(out, zerologadapter.ParseLevel(cfg.LogLevel))
		loggers = Loggers{Logger: console, Contextual: console}

	default:
		jsonLogger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slogLevel(cfg.LogLevel)}))
		loggers = Loggers{Logger: jsonLogger, Contextual: oteladapters.NewSlogLogger(jsonLogger)}
	}

	if cfg.OTelEnabled {
		loggers.Contextual = oteladapters.NewSlogBridgeLogger(InstrumentationName)
	}

	return loggers
}

func slogLevel(level string) slog.Level {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}

	return parsed
}
