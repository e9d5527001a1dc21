package utils

import (
	"context"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/metrics"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDecorator(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	d := NewMetrics(m)
	ctx := context.Background()
	db := store.MemStore()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/claim"}}

	ok := &custodytest.Handler{}
	failing := &custodytest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrInsufficientFunds,
	}

	_, _ = d.Check(ctx, db, tx, ok)
	_, _ = d.Deliver(ctx, db, tx, ok)
	_, _ = d.Deliver(ctx, db, tx, ok)
	_, _ = d.Check(ctx, db, tx, failing)
	_, err := d.Deliver(ctx, db, tx, failing)
	assert.True(t, errors.ErrInsufficientFunds.Is(err))

	unauthorized := strconv.Itoa(int(errors.ErrUnauthorized.ABCICode()))
	insufficient := strconv.Itoa(int(errors.ErrInsufficientFunds.ABCICode()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Txs.WithLabelValues("check", "escrow/claim", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Txs.WithLabelValues("deliver", "escrow/claim", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Txs.WithLabelValues("check", "escrow/claim", unauthorized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Txs.WithLabelValues("deliver", "escrow/claim", insufficient)))

	// a broken tx is still counted
	_, _ = d.Deliver(ctx, db, &custodytest.Tx{Err: errors.ErrInvalidMsg}, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Txs.WithLabelValues("deliver", "unknown", "ok")))
}

func TestMetricsDecoratorWithoutCollectors(t *testing.T) {
	h := &custodytest.Handler{}
	_, err := NewMetrics(nil).Deliver(context.Background(), store.MemStore(), nil, h)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
