// Package instrumentation sets up OpenTelemetry metrics and tracing for
// the batch pipeline. A run records counters for fetched, excluded and
// classified messages plus the run duration, and emits one span per
// pipeline phase. Export happens on shutdown at the end of the run.
package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter kinds accepted by Config.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
	ExporterNone   = "none"
)

// Config holds the instrumentation configuration.
type Config struct {
	// ServiceName is the name of the service (default: jobtrack).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Enabled determines if instrumentation is active. When false the
	// provider is a no-op.
	Enabled bool

	// MetricsExporter is "stdout", "otlp" or "none".
	MetricsExporter string

	// TracesExporter is "stdout", "otlp" or "none".
	TracesExporter string

	// OTLPEndpoint is the OTLP collector endpoint, e.g. "localhost:4318"
	// (without protocol prefix). Required for the otlp exporters.
	OTLPEndpoint string

	// OTLPInsecure controls whether to use unencrypted HTTP for OTLP
	// export. Only for local development.
	OTLPInsecure bool
}

// Provider encapsulates the OpenTelemetry meter and tracer providers.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	metrics        *Metrics
	enabled        bool
}

// NewProvider creates an OpenTelemetry provider. With Enabled false it
// returns a provider whose metrics recorder and tracer are no-ops.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{metrics: &Metrics{}}, nil
	}

	if config.ServiceName == "" {
		config.ServiceName = "jobtrack"
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{enabled: true}

	if err := p.initMeterProvider(ctx, config, res); err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	if err := p.initTracerProvider(ctx, config, res); err != nil {
		if p.meterProvider != nil {
			if shutdownErr := p.meterProvider.Shutdown(ctx); shutdownErr != nil {
				err = errors.Join(err, shutdownErr)
			}
		}
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
		meter := p.meterProvider.Meter(config.ServiceName)
		p.metrics, err = NewMetrics(meter)
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
		}
	} else {
		p.metrics = &Metrics{}
	}
	if p.tracerProvider != nil {
		otel.SetTracerProvider(p.tracerProvider)
	}

	return p, nil
}

func (p *Provider) initMeterProvider(ctx context.Context, config Config, res *resource.Resource) error {
	var reader sdkmetric.Reader

	switch config.MetricsExporter {
	case ExporterStdout:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter)

	case ExporterOTLP:
		if config.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required for the otlp metrics exporter")
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.OTLPEndpoint)}
		if config.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter)

	case ExporterNone, "":
		return nil

	default:
		return fmt.Errorf("unknown metrics exporter %q", config.MetricsExporter)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	return nil
}

func (p *Provider) initTracerProvider(ctx context.Context, config Config, res *resource.Resource) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch config.TracesExporter {
	case ExporterStdout:
		exporter, err = stdouttrace.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}

	case ExporterOTLP:
		if config.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required for the otlp traces exporter")
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(config.OTLPEndpoint)}
		if config.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

	case ExporterNone, "":
		return nil

	default:
		return fmt.Errorf("unknown traces exporter %q", config.TracesExporter)
	}

	// A run is one batch; sample everything.
	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return nil
}

// Metrics returns the metrics recorder. Never nil; a disabled provider
// yields a no-op recorder.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Tracer returns a tracer for the given name, or a no-op tracer when
// tracing is disabled.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tracerProvider.Tracer(name)
}

// Shutdown flushes and stops the providers. It must run before process
// exit or the final batch of a short-lived run is lost.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if p.meterProvider != nil {
		if err := p.meterProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush metrics: %w", err))
		}
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// statusAttr builds the status attribute set for classification
// counters.
func statusAttr(status string) attribute.KeyValue {
	return attribute.String("status", status)
}
