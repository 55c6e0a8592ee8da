package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProducerAPI is the producer surface used by the service layer.
type ProducerAPI interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

// Producer writes order events to a single topic.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	zap.L().Info("Kafka producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
