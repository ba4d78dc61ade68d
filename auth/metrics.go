package auth

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/gaborage/go-packsource/auth"

// handlerMetrics records retry activity. All instruments are optional; a
// handler without WithMeterProvider carries a nil *handlerMetrics and every
// method is a nil-safe no-op.
type handlerMetrics struct {
	sends        metric.Int64Counter
	negotiations metric.Int64Counter
	exhausted    metric.Int64Counter
}

func newHandlerMetrics(mp metric.MeterProvider) *handlerMetrics {
	if mp == nil {
		return nil
	}
	meter := mp.Meter(meterName)

	m := &handlerMetrics{}
	m.sends, _ = meter.Int64Counter("packsource.auth.sends",
		metric.WithDescription("Physical sends performed by the handler"))
	m.negotiations, _ = meter.Int64Counter("packsource.auth.negotiations",
		metric.WithDescription("Credential negotiation attempts"))
	m.exhausted, _ = meter.Int64Counter("packsource.auth.budget_exhausted",
		metric.WithDescription("Auth failures passed through because the retry budget was exhausted"))
	return m
}

func (m *handlerMetrics) recordSend(ctx context.Context) {
	if m == nil || m.sends == nil {
		return
	}
	m.sends.Add(ctx, 1)
}

func (m *handlerMetrics) recordNegotiation(ctx context.Context, reason FailureReason) {
	if m == nil || m.negotiations == nil {
		return
	}
	m.negotiations.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
}

func (m *handlerMetrics) recordExhausted(ctx context.Context, reason FailureReason) {
	if m == nil || m.exhausted == nil {
		return
	}
	m.exhausted.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
}
