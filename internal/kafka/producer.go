package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditEventProducer is the publishing seam the recorder depends on
// (swappable with a mock in tests).
type AuditEventProducer interface {
	ProduceAuditEvent(ctx context.Context, event string, payload map[string]any)
}

// Producer streams audit events to a Kafka topic. Publishing is
// best-effort and must never block or fail the request that caused the
// event; errors are logged and dropped.
type Producer struct {
	writer *kafka.Writer
	topic  string
	log    *zap.Logger
}

// NewProducer creates the producer. With no brokers or an empty topic all
// methods are no-ops, so the API runs fine without Kafka.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{log: log}
	}
	return &Producer{
		topic: topic,
		log:   log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

var _ AuditEventProducer = (*Producer)(nil)

// ProduceAuditEvent publishes one audit event. payload carries the entry
// fields (kind, description, customer_id, actor, metadata).
func (p *Producer) ProduceAuditEvent(ctx context.Context, event string, payload map[string]any) {
	if p.writer == nil {
		return
	}
	msg := map[string]any{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("kafka: marshal audit event", zap.Error(err))
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		p.log.Error("kafka: write audit event", zap.Error(err))
	}
}

// Close closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
