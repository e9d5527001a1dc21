package notify

import (
	"context"
	"encoding/json"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// Publisher sends the events of one committed block.
type Publisher interface {
	Publish(ctx context.Context, height int64, events []custody.Event) error
}

// Envelope is the wire form of a published event.
type Envelope struct {
	Height int64           `json:"height"`
	Kind   string          `json:"kind"`
	Key    custody.Address `json:"key"`
	Event  json.RawMessage `json:"event"`
}

// Seal serializes an event together with the height it was committed at.
func Seal(height int64, e custody.Event) (Envelope, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, errors.Wrapf(errors.ErrType, "encode %s event: %s", e.EventKind(), err)
	}
	return Envelope{
		Height: height,
		Kind:   e.EventKind(),
		Key:    e.EventKey(),
		Event:  raw,
	}, nil
}

// Discard drops all events.
type Discard struct{}

var _ Publisher = Discard{}

// Publish implements Publisher
func (Discard) Publish(context.Context, int64, []custody.Event) error {
	return nil
}

// Multi publishes to every publisher, even when some of them fail. All
// failures are returned together.
type Multi []Publisher

var _ Publisher = Multi(nil)

// Publish implements Publisher
func (m Multi) Publish(ctx context.Context, height int64, events []custody.Event) error {
	var err error
	for _, p := range m {
		err = errors.Append(err, p.Publish(ctx, height, events))
	}
	return err
}
