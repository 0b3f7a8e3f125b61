package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/createsend/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns metric export on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name reported on every metric.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version reported on every metric.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the createsend meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(TracerName)
}

// Metrics holds the instruments recorded for each API request.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	retryTotal      metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates the API request instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("createsend.requests",
		metric.WithDescription("API requests by method and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating createsend.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("createsend.request.duration",
		metric.WithDescription("API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating createsend.request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("createsend.requests.active",
		metric.WithDescription("API requests in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating createsend.requests.active counter: %w", err)
	}

	retryTotal, err := meter.Int64Counter("createsend.retries",
		metric.WithDescription("API request retries"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating createsend.retries counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("createsend.errors",
		metric.WithDescription("Failed API requests by error kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating createsend.errors counter: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		retryTotal:      retryTotal,
		errorTotal:      errorTotal,
	}, nil
}

// RecordRequestStart increments the in-flight count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements the in-flight count and records the request.
// status is the HTTP status code, or 0 when no response was received.
func (m *Metrics) RecordRequestEnd(ctx context.Context, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordRetry counts a retry of method.
func (m *Metrics) RecordRetry(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.retryTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// RecordError counts a failed request by error kind.
func (m *Metrics) RecordError(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
