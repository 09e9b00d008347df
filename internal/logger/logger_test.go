package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/invoicing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	log, err := New(Options{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(Options{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewFromConfigReplacesGlobals(t *testing.T) {
	log, err := NewFromConfig(config.Config{AppName: "invoicing", LogLevel: "warn"})
	require.NoError(t, err)
	assert.Same(t, log, zap.L())
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })
}

func TestGormLoggerLogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), DefaultGormLoggerConfig())
	silenced := gl.LogMode(gormlogger.Silent)
	assert.NotNil(t, silenced)
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), GormLoggerConfig{
		Level:                gormlogger.Info,
		SlowThreshold:        time.Second,
		IgnoreRecordNotFound: true,
	})

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	query := func() (string, int64) { return " SELECT * FROM invoices ", 1 }

	gl.Trace(ctx, time.Now(), query, nil)
	gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	gl.Trace(ctx, time.Now(), query, errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "SELECT * FROM invoices", entries[0].ContextMap()["sql"])
	assert.Equal(t, spanCtx.TraceID().String(), entries[0].ContextMap()["trace_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestGormLoggerSilentDropsEverything(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), DefaultGormLoggerConfig()).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	gl.Error(context.Background(), "failed %s", "query")
	assert.Zero(t, logs.Len())
}
