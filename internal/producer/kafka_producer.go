package producer

import (
	"context"
	"encoding/json"
	"time"

	"shop-service/internal/service"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderProducer struct {
	writer messageWriter
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishOrderPlaced keys messages by account so one customer's orders stay
// on the same partition.
func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.AccountID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("order.placed")},
		},
	})
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}
