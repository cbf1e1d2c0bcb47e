package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/events"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

var _ events.Publisher = (*Publisher)(nil)

const (
	publishTimeout = 2 * time.Second
	batchTimeout   = 10 * time.Millisecond
	ioTimeout      = 2 * time.Second
	maxWriteTrials = 3
)

// NewPublisher writes events to topic keyed by owner, so one owner's events
// land on one partition in commit order. Writes are asynchronous: once the
// topic's partitions are known Publish only queues the message, and delivery
// failures are logged.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			Async:                  true,
			BatchTimeout:           batchTimeout,
			ReadTimeout:            ioTimeout,
			WriteTimeout:           ioTimeout,
			MaxAttempts:            maxWriteTrials,
			Completion:             logCompletion,
		},
	}
}

func logCompletion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"messages": len(messages),
	}).WithError(err).Warn("KafkaPublisher.deliver.failed")
}

func (p *Publisher) Publish(ctx context.Context, event events.TransactionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// The partition lookup still talks to the broker.
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OwnerID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
