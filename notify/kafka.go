package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// kindHeader carries the event kind so consumers can route without
// decoding the payload.
const kindHeader = "kind"

// KafkaConfig configures the kafka publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	// Partitions and Replication are used when the topic is created.
	Partitions  int32
	Replication int16
}

// Kafka publishes every event as a JSON record keyed by the event key.
// Events of one escrow always land in the same partition and keep their
// order.
type Kafka struct {
	client *kgo.Client
	topic  string
}

var _ Publisher = (*Kafka)(nil)

// NewKafka connects a producer. The client dials lazily, so a broker that
// is down does not prevent the node from starting.
func NewKafka(conf KafkaConfig, opts ...kgo.Opt) (*Kafka, error) {
	if len(conf.Brokers) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "kafka brokers")
	}
	if conf.Topic == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "kafka topic")
	}
	opts = append([]kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),
		kgo.DefaultProduceTopic(conf.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "kafka client: %s", err)
	}
	return &Kafka{client: client, topic: conf.Topic}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (k *Kafka) EnsureTopic(ctx context.Context, conf KafkaConfig) error {
	partitions, replication := conf.Partitions, conf.Replication
	if partitions <= 0 {
		partitions = 1
	}
	if replication <= 0 {
		replication = 1
	}
	resp, err := kadm.NewClient(k.client).CreateTopics(ctx, partitions, replication, nil, k.topic)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create topic %q: %s", k.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !stderrors.Is(r.Err, kerr.TopicAlreadyExists) {
			return errors.Wrapf(errors.ErrDatabase, "create topic %q: %s", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish implements Publisher. It blocks until all records are
// acknowledged or ctx is done.
func (k *Kafka) Publish(ctx context.Context, height int64, events []custody.Event) error {
	if len(events) == 0 {
		return nil
	}
	records, err := k.records(height, events)
	if err != nil {
		return err
	}
	if err := k.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "produce %d records at height %d: %s", len(records), height, err)
	}
	return nil
}

func (k *Kafka) records(height int64, events []custody.Event) ([]*kgo.Record, error) {
	records := make([]*kgo.Record, 0, len(events))
	for _, e := range events {
		env, err := Seal(height, e)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(env)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrType, "encode envelope: %s", err)
		}
		records = append(records, &kgo.Record{
			Topic: k.topic,
			Key:   []byte(env.Key.String()),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: kindHeader, Value: []byte(env.Kind)},
			},
		})
	}
	return records, nil
}

// Close flushes pending records and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
