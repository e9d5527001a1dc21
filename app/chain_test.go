package app

import (
	"context"
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracer appends its name to a shared log before calling the next handler.
type tracer struct {
	name string
	log  *[]string
}

func (t tracer) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	*t.log = append(*t.log, t.name)
	return next.Check(ctx, db, tx)
}

func (t tracer) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	*t.log = append(*t.log, t.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainOrder(t *testing.T) {
	var calls []string
	var h custodytest.Handler
	var missing *custodytest.Decorator

	stack := ChainDecorators(
		tracer{"logging", &calls},
		nil,
		missing,
		tracer{"sigs", &calls},
	).Chain(
		tracer{"savepoint", &calls},
	).WithHandler(&h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/claim"}}

	_, err := stack.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	require.NoError(t, err)

	assert.Equal(t, []string{"logging", "sigs", "savepoint", "logging", "sigs", "savepoint"}, calls)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainStopsOnError(t *testing.T) {
	var h custodytest.Handler
	outer := &custodytest.Decorator{}
	failing := &custodytest.Decorator{DeliverErr: errors.ErrUnauthorized}
	stack := ChainDecorators(outer, failing).WithHandler(&h)

	ctx := context.Background()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/claim"}}
	_, err := stack.Deliver(ctx, store.MemStore(), tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	assert.Equal(t, 1, outer.DeliverCallCount())
	assert.Equal(t, 0, h.DeliverCallCount())
}
