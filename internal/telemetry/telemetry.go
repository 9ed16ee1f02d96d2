// =============================================================================
// FlowCanvas OpenTelemetry SDK Initialization
// =============================================================================
// Sets up OTLP gRPC export for traces and metrics and registers the global
// providers. When telemetry is disabled, nothing is created and the globals
// remain noop.
// =============================================================================

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/BaSui01/flowcanvas/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Telemetry owns the shutdown of everything Init created. The zero value
// (telemetry disabled) is valid and Shutdown on it is a no-op.
type Telemetry struct {
	shutdowns []func(context.Context) error
}

// Init wires the OTel SDK for the editor service. version is the build
// version injected at link time; when empty, the module version from build
// info is used. When cfg.Enabled is false no exporter is created and the
// global providers stay noop.
func Init(cfg config.TelemetryConfig, version string, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{}
	if !cfg.Enabled {
		logger.Info("telemetry disabled, tracing and metrics stay noop")
		return t, nil
	}

	ctx := context.Background()
	res, err := newResource(ctx, cfg, version)
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	if err := t.setupTracing(ctx, cfg, res); err != nil {
		return nil, err
	}
	if err := t.setupMetrics(ctx, cfg, res); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry initialized",
		zap.String("endpoint", cfg.OTLPEndpoint),
		zap.String("service_name", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
		zap.Float64("sample_rate", cfg.SampleRate),
	)
	return t, nil
}

// newResource describes this service instance to the collector.
func newResource(ctx context.Context, cfg config.TelemetryConfig, version string) (*resource.Resource, error) {
	if version == "" {
		version = moduleVersion()
	}
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
}

// setupTracing installs a batching TracerProvider with parent-based ratio
// sampling, so incoming sampled requests keep their spans regardless of the
// local rate.
func (t *Telemetry) setupTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) error {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	t.shutdowns = append(t.shutdowns, tp.Shutdown)
	return nil
}

// setupMetrics installs a periodic-reader MeterProvider. The editor's own
// counters live in the Prometheus registry; this provider carries OTel
// instrumentation from libraries that emit through the global meter.
func (t *Telemetry) setupMetrics(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) error {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	t.shutdowns = append(t.shutdowns, mp.Shutdown)
	return nil
}

// Shutdown flushes and closes everything Init created, in reverse order.
// Safe on nil and on a disabled Telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		if err := t.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdowns = nil
	return errors.Join(errs...)
}

// moduleVersion extracts the module version from Go build info.
// Falls back to "dev" if unavailable.
func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
