package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

var errNonPositiveDuration = errors.New("[observability] non-positive exporter interval or timeout")

type ShutdownFunc func(ctx context.Context) error

// NewConsoleMetricsExporter serves for test/dev environment.
// The meter provider pushes the metrics to the stdout (or the writer
// set by opts) every interval.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	if interval <= 0 || timeout <= 0 {
		return nil, errNonPositiveDuration
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment and
// the stats metrics are fetched by HTTP from the registerer's handler.
func NewPrometheusMetricsExporter(opts ...prometheus.Option) (ShutdownFunc, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
