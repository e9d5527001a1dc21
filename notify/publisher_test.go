package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type paymentEvent struct {
	Payer  custody.Address `json:"payer"`
	Amount int64           `json:"amount"`
}

func (paymentEvent) EventKind() string { return "test/payment" }

func (e paymentEvent) EventKey() []byte { return e.Payer }

func payments(t testing.TB, amounts ...int64) []custody.Event {
	t.Helper()
	res := make([]custody.Event, len(amounts))
	for i, a := range amounts {
		payer := bytes.Repeat([]byte{byte(i + 1)}, custody.AddressLength)
		res[i] = paymentEvent{Payer: payer, Amount: a}
	}
	return res
}

func TestSeal(t *testing.T) {
	events := payments(t, 250)
	env, err := Seal(7, events[0])
	require.NoError(t, err)

	assert.Equal(t, int64(7), env.Height)
	assert.Equal(t, "test/payment", env.Kind)
	assert.Equal(t, custody.Address(events[0].EventKey()), env.Key)

	var got paymentEvent
	require.NoError(t, json.Unmarshal(env.Event, &got))
	assert.Equal(t, events[0], got)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"key":"0101010101010101010101010101010101010101"`)
}

func TestMemory(t *testing.T) {
	var mem Memory
	ctx := context.Background()

	require.NoError(t, mem.Publish(ctx, 1, payments(t, 10, 20)))
	require.NoError(t, mem.Publish(ctx, 2, nil))
	require.NoError(t, mem.Publish(ctx, 3, payments(t, 30)))

	batches := mem.Batches()
	require.Len(t, batches, 3)
	assert.Equal(t, int64(3), batches[2].Height)
	assert.Len(t, mem.Events(), 3)

	mem.Err = errors.ErrDatabase
	err := mem.Publish(ctx, 4, payments(t, 40))
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Len(t, mem.Batches(), 3)
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	good := &Memory{}
	broken := &Memory{Err: errors.ErrDatabase.New("broker gone")}
	other := &Memory{}

	err := Multi{good, broken, other}.Publish(ctx, 5, payments(t, 1))
	assert.True(t, errors.ErrDatabase.Is(err))
	// a failure does not stop the others
	assert.Len(t, good.Events(), 1)
	assert.Len(t, other.Events(), 1)

	assert.NoError(t, Multi{good, Discard{}}.Publish(ctx, 6, payments(t, 2)))
	assert.NoError(t, Multi(nil).Publish(ctx, 7, payments(t, 3)))
}

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	mem := &Memory{}
	p := NewInstrumented(mem, "memory", m)
	require.NoError(t, p.Publish(ctx, 1, payments(t, 1, 2, 3)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("test/payment")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PublishFailures.WithLabelValues("memory")))

	mem.Err = errors.ErrDatabase
	assert.Error(t, p.Publish(ctx, 2, payments(t, 4)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("test/payment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishFailures.WithLabelValues("memory")))

	// works without metrics
	assert.NoError(t, NewInstrumented(&Memory{}, "bare", nil).Publish(ctx, 3, payments(t, 5)))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogger(log.NewTMLogger(&buf))

	require.NoError(t, p.Publish(context.Background(), 12, payments(t, 99)))
	out := buf.String()
	assert.Contains(t, out, "kind=test/payment")
	assert.Contains(t, out, "height=12")
	assert.Contains(t, out, "module=notify")
}
