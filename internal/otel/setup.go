package otel

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry exporter selection
type Exporter string

const (
	ExporterNone   Exporter = "none"
	ExporterStdout Exporter = "stdout"
	ExporterOTLP   Exporter = "otlp"
)

type exporters struct {
	span   trace.SpanExporter
	metric metric.Exporter
	log    log.Exporter
}

// Stdout exporters write to stderr so command output on stdout stays clean
func newExporters(ctx context.Context, exporter Exporter) (exporters, error) {
	var (
		e   exporters
		err error
	)

	switch exporter {
	case ExporterOTLP:
		if e.span, err = otlptracegrpc.New(ctx); err != nil {
			return e, fmt.Errorf("failed to create otlp span exporter: %w", err)
		}
		if e.metric, err = otlpmetricgrpc.New(ctx); err != nil {
			return e, fmt.Errorf("failed to create otlp metric exporter: %w", err)
		}
		if e.log, err = otlploggrpc.New(ctx); err != nil {
			return e, fmt.Errorf("failed to create otlp log exporter: %w", err)
		}
	case ExporterStdout:
		if e.span, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr)); err != nil {
			return e, fmt.Errorf("failed to create stdout span exporter: %w", err)
		}
		if e.metric, err = stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr)); err != nil {
			return e, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		if e.log, err = stdoutlog.New(stdoutlog.WithWriter(os.Stderr)); err != nil {
			return e, fmt.Errorf("failed to create stdout log exporter: %w", err)
		}
	default:
		return e, fmt.Errorf("unknown telemetry exporter %q", exporter)
	}

	return e, nil
}

// SetupOTelSDK bootstraps the OpenTelemetry pipeline for serviceName.
// If it does not return an error, make sure to call shutdown for proper cleanup.
//
// ExporterNone installs only the propagator; the global providers stay no-op.
func SetupOTelSDK(
	ctx context.Context,
	serviceName string,
	exporter Exporter,
) (func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error

	// Joins the errors of every registered cleanup, each invoked once
	shutdown := func(ctx context.Context) error {
		var er error
		for _, fn := range shutdownFuncs {
			er = errors.Join(er, fn(ctx))
		}
		shutdownFuncs = nil
		return er
	}

	otel.SetTextMapPropagator(newPropagator())

	if exporter == ExporterNone || exporter == "" {
		return shutdown, nil
	}

	e, err := newExporters(ctx, exporter)
	if err != nil {
		return shutdown, err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return shutdown, fmt.Errorf("failed to build otel resource: %w", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithBatcher(e.span),
	)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(e.metric)),
	)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	loggerProvider := log.NewLoggerProvider(
		log.WithResource(res),
		log.WithProcessor(log.NewBatchProcessor(e.log)),
	)
	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
	global.SetLoggerProvider(loggerProvider)

	return shutdown, nil
}

//nolint:ireturn // no control over otel's propagator interface return.
func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}
