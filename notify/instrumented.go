package notify

import (
	"context"

	"github.com/reppay/custody"
	"github.com/reppay/custody/metrics"
)

// Instrumented counts the events passing through a publisher and its
// failures.
type Instrumented struct {
	next    Publisher
	name    string
	metrics *metrics.Metrics
}

var _ Publisher = (*Instrumented)(nil)

// NewInstrumented wraps next. Name labels the failure counter.
func NewInstrumented(next Publisher, name string, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, name: name, metrics: m}
}

// Publish implements Publisher
func (i *Instrumented) Publish(ctx context.Context, height int64, events []custody.Event) error {
	if err := i.next.Publish(ctx, height, events); err != nil {
		i.metrics.IncPublishFailure(i.name)
		return err
	}
	for _, e := range events {
		i.metrics.IncPublished(e.EventKind())
	}
	return nil
}
