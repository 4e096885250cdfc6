package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"shop-service/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Notifier interface {
	SendOrderConfirmation(e service.OrderPlacedEvent) error
}

type KafkaOrderConsumer struct {
	reader   *kafka.Reader
	notifier Notifier
	log      *zap.Logger
}

func NewKafkaOrderConsumer(brokers []string, groupID, topic string, notifier Notifier, log *zap.Logger) *KafkaOrderConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &KafkaOrderConsumer{reader: r, notifier: notifier, log: log}
}

func (c *KafkaOrderConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		if err := c.handle(m.Value); err != nil {
			c.log.Error("handle order event", zap.ByteString("value", m.Value), zap.Error(err))
		}
	}
}

var errInvalidEvent = errors.New("invalid order event")

func (c *KafkaOrderConsumer) handle(value []byte) error {
	var ev service.OrderPlacedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	if ev.Email == "" || len(ev.Lines) == 0 {
		c.log.Warn("invalid order event", zap.String("order_id", ev.OrderID.String()))
		return errInvalidEvent
	}
	if err := c.notifier.SendOrderConfirmation(ev); err != nil {
		return err
	}
	c.log.Info("order confirmation sent", zap.String("order_id", ev.OrderID.String()), zap.String("to", ev.Email))
	return nil
}

func (c *KafkaOrderConsumer) Close() error { return c.reader.Close() }
