package notify

import (
	"encoding/json"
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaConfig(t *testing.T) {
	cases := map[string]struct {
		conf    KafkaConfig
		wantErr *errors.Error
	}{
		"valid": {
			conf: KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "claims"},
		},
		"no brokers": {
			conf:    KafkaConfig{Topic: "claims"},
			wantErr: errors.ErrEmpty,
		},
		"no topic": {
			conf:    KafkaConfig{Brokers: []string{"127.0.0.1:9092"}},
			wantErr: errors.ErrEmpty,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			k, err := NewKafka(tc.conf)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			k.Close()
		})
	}
}

func TestKafkaRecords(t *testing.T) {
	// the client does not dial until the first produce
	k, err := NewKafka(KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "claims"})
	require.NoError(t, err)
	defer k.Close()

	events := payments(t, 10, 20)
	records, err := k.records(3, events)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for i, r := range records {
		assert.Equal(t, "claims", r.Topic)
		assert.Equal(t, custody.Address(events[i].EventKey()).String(), string(r.Key))
		require.Len(t, r.Headers, 1)
		assert.Equal(t, "kind", r.Headers[0].Key)
		assert.Equal(t, "test/payment", string(r.Headers[0].Value))

		var env Envelope
		require.NoError(t, json.Unmarshal(r.Value, &env))
		assert.Equal(t, int64(3), env.Height)
		assert.Equal(t, custody.Address(events[i].EventKey()), env.Key)
	}
}
