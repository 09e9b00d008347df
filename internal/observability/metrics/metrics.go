package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Line item synchronization outcomes.
const (
	SyncOutcomeApplied   = "applied"
	SyncOutcomeMalformed = "malformed"
	SyncOutcomeFailed    = "failed"
)

const defaultExportInterval = 10 * time.Second

type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ExportInterval   time.Duration
	ServiceName      string
	Environment      string
}

// Metrics holds the invoice engine instruments. A nil *Metrics records nothing.
type Metrics struct {
	syncRuns        metric.Int64Counter
	syncDuration    metric.Float64Histogram
	customFallbacks metric.Int64Counter
	lineItemChanges metric.Int64Counter
	recalculations  metric.Int64Counter
}

// NewProvider returns the OTLP-backed meter provider, or a no-op provider
// when metrics are disabled. Either way it becomes the otel global.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName(cfg)),
			attribute.String("deployment.environment", cfg.Environment),
		)),
	)
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics exporter started",
		zap.String("protocol", cfg.ExporterProtocol),
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.Duration("interval", interval),
	)
	return provider, nil
}

func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(serviceName(cfg))

	var (
		m   Metrics
		err error
	)
	if m.syncRuns, err = meter.Int64Counter("invoicing_line_item_sync_total",
		metric.WithDescription("Line item synchronization runs by outcome.")); err != nil {
		return nil, err
	}
	if m.syncDuration, err = meter.Float64Histogram("invoicing_line_item_sync_duration_seconds",
		metric.WithDescription("Wall time of applied line item synchronizations."),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.customFallbacks, err = meter.Int64Counter("invoicing_line_item_custom_fallback_total",
		metric.WithDescription("Payload lines stored as custom items because their product could not be resolved.")); err != nil {
		return nil, err
	}
	if m.lineItemChanges, err = meter.Int64Counter("invoicing_line_item_changes_total",
		metric.WithDescription("Line items created, updated or deleted.")); err != nil {
		return nil, err
	}
	if m.recalculations, err = meter.Int64Counter("invoicing_invoice_recalculations_total",
		metric.WithDescription("Payment amount recalculations.")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) RecordSync(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))...)
	m.syncRuns.Add(ctx, 1, attrs)
	if elapsed > 0 {
		m.syncDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func (m *Metrics) RecordCustomFallback(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.customFallbacks.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("reason", reason))...))
}

func (m *Metrics) RecordLineItemChanges(ctx context.Context, operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.lineItemChanges.Add(ctx, int64(n), metric.WithAttributes(FilterAttributes(attribute.String("operation", operation))...))
}

func (m *Metrics) RecordRecalculation(ctx context.Context) {
	if m == nil {
		return
	}
	m.recalculations.Add(ctx, 1)
}

func serviceName(cfg Config) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "invoicing"
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		var opts []otlpmetrichttp.Option
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint), otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case "", "grpc", "grpc/protobuf":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(ctx, opts...)
	}
	return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
}

// Only these label keys reach the exporter; ids would explode cardinality.
var allowedLabelKeys = map[attribute.Key]bool{
	"outcome":   true,
	"reason":    true,
	"operation": true,
}

func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := attrs[:0:0]
	for _, attr := range attrs {
		if allowedLabelKeys[attr.Key] {
			filtered = append(filtered, attr)
		}
	}
	return filtered
}
