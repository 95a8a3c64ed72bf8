package observability

import (
	"context"
	"runtime"
	"strings"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	AppStatsName = "xrbtree/app"
)

type appStats struct {
	ctx              context.Context
	shutdownCallback ShutdownFunc
	goroutines       metric.Int64ObservableUpDownCounter
	processes        metric.Int64ObservableUpDownCounter
}

func (stats *appStats) waitForShutdown() {
	if stats == nil || stats.shutdownCallback == nil {
		return
	}
	go func() {
		<-stats.ctx.Done()
		_ = stats.shutdownCallback(context.Background())
	}()
}

func appMeterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(AppStatsName)
	builder.WriteString("/")
	if name = strings.TrimSpace(name); len(name) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// StartAppStats registers the process level gauges and the go runtime
// instrumentation into the global meter provider. The shutdown callback,
// usually returned by one of the exporters, runs after ctx is done.
func StartAppStats(ctx context.Context, name string, shutdown ShutdownFunc) error {
	meter := otel.Meter(
		appMeterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	stats := &appStats{
		ctx:              ctx,
		shutdownCallback: shutdown,
		goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		)),
		processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.processes",
			metric.WithDescription(`The application processes' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.GOMAXPROCS(0)))
				return nil
			}),
		)),
	}
	if err := otelruntime.Start(); err != nil {
		return err
	}
	stats.waitForShutdown()
	return nil
}
