package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrSessionID     = "kcal.session_id"
	AttrItemID        = "kcal.item.id"
	AttrItemsCount    = "kcal.items.count"
	AttrCaloriesTotal = "kcal.calories.total"
)

// SpanPrefixCoordinator prefixes every coordinator event span.
const SpanPrefixCoordinator = "coordinator."

// Event names recorded on coordinator spans.
const (
	EventInputRejected = "input.rejected"
	EventPersistFailed = "persist.failed"
)

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
