package observability

import (
	"time"

	"github.com/smallbiznis/invoicing/internal/config"
	"github.com/smallbiznis/invoicing/internal/observability/metrics"
	"github.com/smallbiznis/invoicing/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideMetricsConfig,
		metrics.NewProvider,
		metrics.New,
		provideTracingConfig,
		tracing.NewTracerProvider,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func provideMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.Otel.Enabled,
		ExporterEndpoint: cfg.Otel.ExporterEndpoint,
		ExporterProtocol: cfg.Otel.ExporterProtocol,
		ExportInterval:   time.Duration(cfg.Otel.MetricInterval) * time.Second,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
	}
}

func provideTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Otel.Enabled,
		ExporterEndpoint: cfg.Otel.ExporterEndpoint,
		ExporterProtocol: cfg.Otel.ExporterProtocol,
		ServiceName:      cfg.AppName,
		ServiceVersion:   cfg.AppVersion,
		Environment:      cfg.Environment,
	}
}
