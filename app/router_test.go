package app

import (
	"context"
	"testing"

	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterDispatch(t *testing.T) {
	rt := NewRouter()
	var (
		open  custodytest.Handler
		claim custodytest.Handler
	)
	rt.Handle("escrow/open", &open)
	rt.Handle("escrow/claim", &claim)
	assert.ElementsMatch(t, []string{"escrow/open", "escrow/claim"}, rt.Paths())

	db := store.MemStore()
	ctx := context.Background()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/claim"}}

	_, err := rt.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = rt.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 0, open.CheckCallCount())
	assert.Equal(t, 1, claim.CheckCallCount())
	assert.Equal(t, 1, claim.DeliverCallCount())
}

func TestRouterUnknownPath(t *testing.T) {
	rt := NewRouter()
	db := store.MemStore()
	ctx := context.Background()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/refund"}}

	_, err := rt.Check(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = rt.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRouterBrokenTx(t *testing.T) {
	rt := NewRouter()
	tx := &custodytest.Tx{Err: errors.ErrInvalidMsg}
	_, err := rt.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrInvalidMsg.Is(err))
}

func TestRouterRegistration(t *testing.T) {
	rt := NewRouter()
	var h custodytest.Handler
	rt.Handle("cash/send", &h)

	assert.Panics(t, func() { rt.Handle("cash/send", &h) })
	assert.Panics(t, func() { rt.Handle("cash send", &h) })
}
