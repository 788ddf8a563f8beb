package otel

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/mreport/internal/ports"
)

const serviceName = "mreport"

// Exporter exports submission metrics to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	submissionsTotal metric.Int64Counter
	durationHist     metric.Float64Histogram
	screenshotHist   metric.Int64Histogram
}

// NewExporter creates an exporter pushing to the OTLP gRPC endpoint in cfg.
func NewExporter(ctx context.Context, cfg Config, version string) (*Exporter, error) {
	if !cfg.Active() {
		return nil, ErrDisabled
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	e, err := newExporter(ctx, sdkmetric.NewPeriodicReader(exp), version)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

// newExporter builds the instruments on top of reader.
func newExporter(ctx context.Context, reader sdkmetric.Reader, version string) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	submissionsTotal, err := meter.Int64Counter(
		"mreport_submissions_total",
		metric.WithDescription("Total number of report submission attempts"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating submissions counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"mreport_submission_duration_seconds",
		metric.WithDescription("Time from submit to the final result"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	screenshotHist, err := meter.Int64Histogram(
		"mreport_screenshot_bytes",
		metric.WithDescription("Size of encoded screenshots"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating screenshot histogram: %w", err)
	}

	return &Exporter{
		provider:         provider,
		submissionsTotal: submissionsTotal,
		durationHist:     durationHist,
		screenshotHist:   screenshotHist,
	}, nil
}

// ExportSubmission records one resolved submission attempt.
func (e *Exporter) ExportSubmission(ctx context.Context, m *ports.SubmissionMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("category", m.Category.String()),
		attribute.String("outcome", string(m.Outcome)),
		attribute.String("screenshot", strconv.FormatBool(m.ScreenshotRequested)),
	)

	e.submissionsTotal.Add(ctx, 1, opt)
	e.durationHist.Record(ctx, m.Duration.Seconds(), opt)
	if m.ScreenshotBytes > 0 {
		e.screenshotHist.Record(ctx, int64(m.ScreenshotBytes), opt)
	}
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
