package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Instruments bundles the runtime-wide observability dependencies.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Settings controls the telemetry pipeline of one process.
type Settings struct {
	Environment  string
	LogLevel     slog.Level
	OTLPEndpoint string
	OTLPInsecure bool
	LogWriter    io.Writer
	MetricReader sdkmetric.Reader
}

// SettingsFromEnv reads ENVIRONMENT, LOG_LEVEL, OTEL_EXPORTER_OTLP_ENDPOINT and OTEL_EXPORTER_OTLP_INSECURE.
func SettingsFromEnv() Settings {
	return Settings{
		Environment:  envOrDefault("ENVIRONMENT", "local"),
		LogLevel:     parseLevel(envOrDefault("LOG_LEVEL", "info")),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
		LogWriter:    os.Stdout,
	}
}

type Option func(*Settings)

// WithLogWriter sends JSON log lines to w instead of stdout.
func WithLogWriter(w io.Writer) Option {
	return func(s *Settings) {
		if w != nil {
			s.LogWriter = w
		}
	}
}

// WithMetricReader attaches a reader to the meter provider, e.g. a periodic exporter or a test reader.
func WithMetricReader(reader sdkmetric.Reader) Option {
	return func(s *Settings) {
		s.MetricReader = reader
	}
}

// Init installs the process logger, tracer provider, meter provider and W3C propagators.
// Log lines carry trace_id and span_id whenever the context holds a span.
// The returned shutdown flushes pending spans and metrics and must be called on exit.
func Init(ctx context.Context, serviceName string, opts ...Option) (*Instruments, func(context.Context) error, error) {
	settings := SettingsFromEnv()
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	logger := newLogger(settings)

	res, err := newResource(ctx, serviceName, settings.Environment)
	if err != nil {
		return nil, nil, err
	}
	spanExporter, err := newSpanExporter(ctx, settings, logger)
	if err != nil {
		return nil, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)
	meterProvider := newMeterProvider(res, settings.MetricReader)
	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}
	return &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, shutdown, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter from the configured provider.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

func newLogger(settings Settings) *slog.Logger {
	writer := settings.LogWriter
	if writer == nil {
		writer = os.Stdout
	}
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: settings.LogLevel, AddSource: true})
	logger := slog.New(NewContextHandler(handler))
	slog.SetDefault(logger)
	return logger
}

func newResource(ctx context.Context, serviceName, environment string) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", environment),
		),
	)
}

// newSpanExporter prefers OTLP over HTTP and falls back to pretty-printed stdout spans.
func newSpanExporter(ctx context.Context, settings Settings, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	var opts []otlptracehttp.Option
	if settings.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(settings.OTLPEndpoint))
	}
	if settings.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err == nil {
		return exporter, nil
	}
	logger.LogAttrs(ctx, slog.LevelWarn, "OTLP trace exporter unavailable, writing spans to stdout",
		slog.String("error", err.Error()))
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func newMeterProvider(res *resource.Resource, reader sdkmetric.Reader) *sdkmetric.MeterProvider {
	if reader == nil {
		reader = sdkmetric.NewManualReader()
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
