package service

import (
	"context"

	"mitr-be/internal/pkg/logger"
	"mitr-be/pkg/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mitr/service")

// publishEvent is fire-and-forget: a missing broker or a failed publish is
// logged and never fails the request.
func publishEvent(ctx context.Context, pub events.Publisher, log logger.ILogger, event events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("Events", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}

func recordError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
