package utils

import (
	"strconv"
	"time"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/metrics"
)

// Metrics is a decorator that counts transactions by message path and
// result and observes their duration.
type Metrics struct {
	m *metrics.Metrics
}

var _ custody.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator. A nil m records nothing.
func NewMetrics(m *metrics.Metrics) Metrics {
	return Metrics{m: m}
}

func (d Metrics) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	d.m.ObserveTx("check", msgPath(tx), result(err), time.Since(start))
	return res, err
}

func (d Metrics) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	d.m.ObserveTx("deliver", msgPath(tx), result(err), time.Since(start))
	return res, err
}

// result labels err with its abci code, "ok" for success.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	code, _ := errors.ABCIInfo(err, false)
	return strconv.FormatUint(uint64(code), 10)
}
