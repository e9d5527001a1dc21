package notify

import (
	"context"
	"sync"

	"github.com/reppay/custody"
)

// Memory keeps published events in memory. It is meant for tests.
type Memory struct {
	mu      sync.Mutex
	batches []Batch
	// Err, if set, is returned by every Publish call and nothing is kept.
	Err error
}

// Batch is the set of events published for one block.
type Batch struct {
	Height int64
	Events []custody.Event
}

var _ Publisher = (*Memory)(nil)

// Publish implements Publisher
func (m *Memory) Publish(_ context.Context, height int64, events []custody.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := make([]custody.Event, len(events))
	copy(cp, events)
	m.batches = append(m.batches, Batch{Height: height, Events: cp})
	return nil
}

// Batches returns all batches published so far.
func (m *Memory) Batches() []Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Batch, len(m.batches))
	copy(res, m.batches)
	return res
}

// Events returns all published events in publication order.
func (m *Memory) Events() []custody.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []custody.Event
	for _, b := range m.batches {
		res = append(res, b.Events...)
	}
	return res
}
