package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "applied"),
		attribute.String("invoice_id", "456"),
		attribute.String("reason", "not_found"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("outcome"), attrs[0].Key)
	assert.Equal(t, attribute.Key("reason"), attrs[1].Key)
}

func TestMetrics_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(Config{ServiceName: "invoicing-test"}, provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSync(ctx, SyncOutcomeMalformed, 0)
	m.RecordSync(ctx, SyncOutcomeMalformed, 0)
	m.RecordSync(ctx, SyncOutcomeApplied, 250*time.Millisecond)
	m.RecordLineItemChanges(ctx, "created", 3)
	m.RecordLineItemChanges(ctx, "deleted", 0)
	m.RecordRecalculation(ctx)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	var durations uint64
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if hist, ok := metric.Data.(metricdata.Histogram[float64]); ok {
				for _, point := range hist.DataPoints {
					durations += point.Count
				}
				continue
			}
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, point := range sum.DataPoints {
				key := metric.Name
				if outcome, ok := point.Attributes.Value("outcome"); ok {
					key += ":" + outcome.AsString()
				}
				totals[key] += point.Value
			}
		}
	}

	assert.Equal(t, int64(2), totals["invoicing_line_item_sync_total:malformed"])
	assert.Equal(t, int64(1), totals["invoicing_line_item_sync_total:applied"])
	assert.Equal(t, int64(3), totals["invoicing_line_item_changes_total"])
	assert.Equal(t, uint64(1), durations)
	assert.Equal(t, int64(1), totals["invoicing_invoice_recalculations_total"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordSync(ctx, SyncOutcomeApplied, time.Second)
	m.RecordCustomFallback(ctx, "not_found")
	m.RecordLineItemChanges(ctx, "created", 1)
	m.RecordRecalculation(ctx)

	_, err := New(Config{}, noop.NewMeterProvider())
	assert.NoError(t, err)
}

func TestNewProviderDisabledIsNoop(t *testing.T) {
	provider, err := NewProvider(fxtest.NewLifecycle(t), Config{}, zap.NewNop())
	require.NoError(t, err)
	_, isNoop := provider.(noop.MeterProvider)
	assert.True(t, isNoop)
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	_, err := NewProvider(fxtest.NewLifecycle(t), Config{Enabled: true, ExporterProtocol: "smtp"}, zap.NewNop())
	assert.Error(t, err)
}
