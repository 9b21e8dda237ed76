// Package trace exports completed action outcomes as OpenTelemetry traces.
// Export is opt-in: without OTEL_EXPORTER_OTLP_ENDPOINT set, the exporter is
// nil and every method is a no-op.
package trace

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"gitship/internal/gitexec"
)

// OTLPExporter exports action traces to an OTLP endpoint.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	enabled  bool
}

// NewOTLPExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is
// set. Returns nil if the endpoint is not configured (disabled).
func NewOTLPExporter(ctx context.Context) (*OTLPExporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "gitship"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("gitship/actions"),
		enabled:  true,
	}, nil
}

// ExportAction exports one completed action as a root span with one child
// span per executed command. Child span times are reconstructed from the
// recorded per-step durations, laid out sequentially from the action start.
func (e *OTLPExporter) ExportAction(ctx context.Context, out gitexec.ActionOutcome, start, end time.Time) {
	if e == nil || !e.enabled {
		return
	}

	rootCtx, root := e.tracer.Start(ctx, "action."+string(out.Action),
		oteltrace.WithTimestamp(start))
	root.SetAttributes(
		attribute.String("gitship.mode", out.Mode),
		attribute.String("gitship.action", string(out.Action)),
		attribute.String("gitship.env", out.EnvKey),
		attribute.Bool("gitship.ok", out.Ok),
		attribute.Int("gitship.steps", len(out.Steps)),
	)
	if out.Error != nil {
		root.SetStatus(codes.Error, out.Error.Message)
		root.SetAttributes(
			attribute.String("gitship.error.code", out.Error.Code),
			attribute.String("gitship.error.severity", string(out.Error.Severity)),
		)
	}

	cursor := start
	for i, step := range out.Steps {
		stepStart := cursor
		stepEnd := stepStart.Add(time.Duration(step.DurationMS) * time.Millisecond)
		if stepEnd.After(end) {
			stepEnd = end
		}
		cursor = stepEnd

		_, span := e.tracer.Start(rootCtx, "step."+strconv.Itoa(i),
			oteltrace.WithTimestamp(stepStart))
		span.SetAttributes(
			attribute.String("gitship.step.cmd", step.Cmd),
			attribute.Bool("gitship.step.ok", step.Ok),
			attribute.Int("gitship.step.exitCode", step.ExitCode),
		)
		if !step.Ok {
			span.SetStatus(codes.Error, firstN(step.Stderr, 256))
		}
		span.End(oteltrace.WithTimestamp(stepEnd))
	}

	root.End(oteltrace.WithTimestamp(end))
}

// Shutdown flushes and closes the exporter.
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
