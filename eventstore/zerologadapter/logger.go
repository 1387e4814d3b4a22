package zerologadapter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

// Logger wraps a zerolog.Logger.
// Args are slog style alternating key/value pairs, a dangling key is logged under "!BADKEY".
type Logger struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// NewConsole creates a colored console logger writing to out at the given level.
func NewConsole(out io.Writer, level zerolog.Level) *Logger {
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}

	return &Logger{logger: zerolog.New(writer).Level(level).With().Timestamp().Logger()}
}

// ParseLevel maps "debug", "info", "warn" and "error" onto zerolog levels, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return parsed
}

func (l *Logger) Debug(msg string, args ...any) { l.log(context.Background(), zerolog.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(context.Background(), zerolog.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(context.Background(), zerolog.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(context.Background(), zerolog.ErrorLevel, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, zerolog.DebugLevel, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, zerolog.InfoLevel, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, zerolog.WarnLevel, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, zerolog.ErrorLevel, msg, args)
}

func (l *Logger) log(ctx context.Context, level zerolog.Level, msg string, args []any) {
	event := l.logger.WithLevel(level)
	if event == nil {
		return
	}

	event = event.Ctx(ctx)

	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			event = event.Interface("!BADKEY", args[i])
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		switch v := args[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		case time.Duration:
			event = event.Dur(key, v)
		default:
			event = event.Interface(key, v)
		}
	}

	event.Msg(msg)
}

var (
	_ eventstore.Logger           = (*Logger)(nil)
	_ eventstore.ContextualLogger = (*Logger)(nil)
)
