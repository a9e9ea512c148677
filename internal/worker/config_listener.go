package worker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
)

type ConsumerConfig struct {
	Brokers        []string
	Name           string
	Topic          string
	RecordsPerPoll int
}

// Record is one config-change message: key is the tenant id.
type Record struct {
	Key   []byte
	Value []byte
	Topic string
}

type RecordProcessor interface {
	ProcessRecords(ctx context.Context, records []Record) error
}

// ConfigListener consumes tenant config changes. Offsets are committed only
// after a batch has been applied.
type ConfigListener struct {
	client    *kgo.Client
	config    ConsumerConfig
	processor RecordProcessor
	logger    *slog.Logger
}

// NewConfigListener creates the consumer group client. Poll must be called to
// start consuming.
func NewConfigListener(conf ConsumerConfig, processor RecordProcessor, metrics *kprom.Metrics, logger *slog.Logger) (*ConfigListener, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),
		kgo.ConsumerGroup(conf.Name),
		kgo.ConsumeTopics(conf.Topic),
		kgo.WithHooks(metrics),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return &ConfigListener{
		client:    client,
		config:    conf,
		processor: processor,
		logger:    logger,
	}, nil
}

// Poll runs until ctx is canceled or the client is closed.
func (l *ConfigListener) Poll(ctx context.Context) error {
	defer l.client.Close()

	l.logger.Info("starting tenant config listener", "topic", l.config.Topic, "group", l.config.Name)

	for {
		if ctx.Err() != nil {
			l.logger.Info("stopping tenant config listener")
			return nil
		}

		fetches := l.client.PollRecords(ctx, l.config.RecordsPerPoll)
		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}
		if errors.Is(fetches.Err0(), context.Canceled) {
			l.logger.Info("stopping tenant config listener")
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			l.logger.Warn("fetch error", "topic", topic, "partition", partition, "error", err)
		})

		fetched := fetches.Records()
		records := make([]Record, len(fetched))
		for idx, record := range fetched {
			records[idx] = Record{
				Key:   record.Key,
				Value: record.Value,
				Topic: record.Topic,
			}
		}

		if err := l.processor.ProcessRecords(ctx, records); err != nil {
			l.logger.Error("failed to process config records", "error", err)
			continue
		}

		if len(fetched) > 0 {
			if err := l.client.CommitRecords(ctx, fetched...); err != nil {
				l.logger.Warn("failed to commit config records", "error", err)
			}
		}
	}
}
