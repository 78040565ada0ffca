package middleware

import (
	"context"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
)

// ServerTiming attaches a Server-Timing header collector to every request.
// Handlers and the catalog loader add metrics with StartTiming.
func ServerTiming(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}

// Timing is a running Server-Timing metric. A nil *Timing is a no-op.
type Timing struct {
	metric *servertiming.Metric
}

// StartTiming starts a metric named name on the request in ctx. Outside an
// HTTP request it returns a no-op.
func StartTiming(ctx context.Context, name, desc string) *Timing {
	h := servertiming.FromContext(ctx)
	if h == nil {
		return nil
	}
	m := h.NewMetric(name)
	if desc != "" {
		m = m.WithDesc(desc)
	}
	return &Timing{metric: m.Start()}
}

// Stop ends the metric.
func (t *Timing) Stop() {
	if t != nil && t.metric != nil {
		t.metric.Stop()
	}
}
