package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultServiceName = "scoreboard-service"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

type otelInstruments struct {
	ctx             context.Context
	operations      metric.Int64Counter
	operationMs     metric.Float64Histogram
	ongoing         metric.Int64UpDownCounter
	releaseFailures metric.Int64Counter
	ticks           metric.Int64Counter
	tickMs          metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)

	operations, err := meter.Int64Counter("scoreboard_operations_total")
	if err != nil {
		return nil, err
	}
	operationMs, err := meter.Float64Histogram("scoreboard_operation_duration_ms")
	if err != nil {
		return nil, err
	}
	ongoing, err := meter.Int64UpDownCounter("scoreboard_ongoing_matches")
	if err != nil {
		return nil, err
	}
	releaseFailures, err := meter.Int64Counter("scoreboard_release_failures_total")
	if err != nil {
		return nil, err
	}
	ticks, err := meter.Int64Counter("simulation_ticks_total")
	if err != nil {
		return nil, err
	}
	tickMs, err := meter.Float64Histogram("simulation_tick_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:             context.Background(),
		operations:      operations,
		operationMs:     operationMs,
		ongoing:         ongoing,
		releaseFailures: releaseFailures,
		ticks:           ticks,
		tickMs:          tickMs,
	}, nil
}

func (o *otelInstruments) recordOperation(op, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrOperation, op),
		attribute.String(AttrOutcome, outcome),
	)
	o.operations.Add(o.ctx, 1, attrs)
	o.operationMs.Record(o.ctx, float64(duration.Microseconds())/1000, attrs)
}

func (o *otelInstruments) recordOngoing(delta int) {
	if o == nil {
		return
	}
	o.ongoing.Add(o.ctx, int64(delta))
}

func (o *otelInstruments) recordReleaseFailure() {
	if o == nil {
		return
	}
	o.releaseFailures.Add(o.ctx, 1)
}

func (o *otelInstruments) recordTick(duration time.Duration) {
	if o == nil {
		return
	}
	o.ticks.Add(o.ctx, 1)
	o.tickMs.Record(o.ctx, float64(duration.Milliseconds()))
}
