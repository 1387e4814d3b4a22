package zerologadapter_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/zerologadapter"
)

func Test_Logger_WritesKeyValuePairsAsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.InfoContext(context.Background(), "events appended", "event_count", 2, "error", errors.New("boom"))

	output := buf.String()
	assert.Contains(t, output, `"level":"info"`)
	assert.Contains(t, output, `"message":"events appended"`)
	assert.Contains(t, output, `"event_count":2`)
	assert.Contains(t, output, `"error":"boom"`)
}

func Test_Logger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf).Level(zerolog.WarnLevel))

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")
	logger.Error("visible error")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "visible warn")
	assert.Contains(t, output, "visible error")
}

func Test_Logger_DanglingKey(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf))

	logger.Info("odd args", "lonely")

	assert.Contains(t, buf.String(), `"!BADKEY":"lonely"`)
}

func Test_ParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, zerologadapter.ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, zerologadapter.ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, zerologadapter.ParseLevel(""), "Should default to info")
	assert.Equal(t, zerolog.InfoLevel, zerologadapter.ParseLevel("loud"), "Should default to info")
}

func Test_NewConsole_WritesHumanReadableOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewConsole(&buf, zerolog.InfoLevel)

	logger.Info("server started", "addr", ":8080")

	assert.Contains(t, buf.String(), "server started")
	assert.Contains(t, buf.String(), "addr=")
}
