/*
Package app turns a handler stack and a commit store into an
abci.Application.
*/
package app

import (
	"context"
	"time"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/metrics"
	"github.com/reppay/custody/notify"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DefaultPublishTimeout bounds how long Commit waits for the publisher.
const DefaultPublishTimeout = 5 * time.Second

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp.
//
// Events returned by successful DeliverTx calls are buffered and handed
// to the publisher after the block is committed.
type BaseApp struct {
	*StoreApp
	decoder custody.TxDecoder
	handler custody.Handler
	debug   bool

	publisher      notify.Publisher
	publishTimeout time.Duration
	pending        []custody.Event

	metrics *metrics.Metrics
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder custody.TxDecoder,
	handler custody.Handler,
	debug bool,
) *BaseApp {
	return &BaseApp{
		StoreApp:       store,
		decoder:        decoder,
		handler:        handler,
		debug:          debug,
		publisher:      notify.Discard{},
		publishTimeout: DefaultPublishTimeout,
	}
}

// WithPublisher sets where events of committed blocks are sent. A nil
// publisher drops them and a non-positive timeout means
// DefaultPublishTimeout.
func (b *BaseApp) WithPublisher(p notify.Publisher, timeout time.Duration) *BaseApp {
	if p == nil {
		p = notify.Discard{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	b.publisher = p
	b.publishTimeout = timeout
	return b
}

// WithMetrics sets the collectors updated on every commit.
func (b *BaseApp) WithMetrics(m *metrics.Metrics) *BaseApp {
	b.metrics = m
	return b
}

// DeliverTx - ABCI - dispatches to the handler
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return custody.DeliverTxError(err, b.debug)
	}

	ctx := custody.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", custody.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err == nil && res != nil {
		b.pending = append(b.pending, res.Events...)
	}
	return custody.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return custody.CheckTxError(err, b.debug)
	}

	ctx := custody.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", custody.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return custody.CheckOrError(res, err, b.debug)
}

// BeginBlock - ABCI
func (b *BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	// events of a block that was never committed are dropped
	b.pending = nil
	return b.StoreApp.BeginBlock(req)
}

// Commit - ABCI - persists the block and then publishes its events.
func (b *BaseApp) Commit() abci.ResponseCommit {
	id := b.StoreApp.commit()
	b.metrics.SetHeight(id.Version)

	events := b.pending
	b.pending = nil
	b.publish(id.Version, events)

	return abci.ResponseCommit{Data: id.Hash}
}

// publish never fails the block. The state is already committed.
func (b *BaseApp) publish(height int64, events []custody.Event) {
	if len(events) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.publishTimeout)
	defer cancel()

	if err := b.publisher.Publish(ctx, height, events); err != nil {
		b.Logger().Error("cannot publish events",
			"height", height,
			"count", len(events),
			"err", err)
	}
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
