package slogpretty

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRendersWallClockTime(t *testing.T) {
	var buf bytes.Buffer
	handler := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}.NewPrettyHandler(&buf)

	at := time.Date(2026, 8, 31, 12, 34, 56, 0, time.UTC)
	record := slog.NewRecord(at, slog.LevelInfo, "hello", 0)
	record.AddAttrs(slog.String("key", "value"))

	require.NoError(t, handler.Handle(context.Background(), record))

	out := buf.String()
	assert.Contains(t, out, "[12:34:56.000]")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, `"key": "value"`)
}
