package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_NoneExporterWritesJSONLogs(t *testing.T) {
	var buf bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), "recipes-test",
		WithLogWriter(&buf),
		WithLogLevel(slog.LevelDebug),
		WithTraceExporter("none"),
		WithEnvironment("test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, shutdown(context.Background())) })

	instruments.Logger.Debug("hello", slog.String("component", "test"))
	require.Contains(t, buf.String(), `"msg":"hello"`)
	require.Contains(t, buf.String(), `"component":"test"`)

	_, span := instruments.Tracer("test").Start(context.Background(), "span")
	span.End()
	require.NotNil(t, instruments.Meter("test"))
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("x"))
	require.NotNil(t, instruments.Meter("x"))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
