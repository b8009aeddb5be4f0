package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"task-service/internal/config"
	"task-service/internal/models"
	"task-service/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher publishes task lifecycle events to Kafka.
type EventPublisher struct {
	w     messageWriter
	topic string
}

// NewEventPublisher returns a publisher writing to the configured topic.
func NewEventPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger) *EventPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           0,
		Async:                  true,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		// Async writes report failures here instead of from WriteMessages.
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn(context.Background(), "Kafka async write failed", "error", err, "messages", len(msgs))
			}
		},
	}
	log.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &EventPublisher{w: w, topic: cfg.KafkaTopic}
}

// Publish writes ev keyed by task id, so events for one task stay ordered
// within a partition. Non-blocking with the async writer.
func (p *EventPublisher) Publish(ctx context.Context, ev *models.TaskEvent) error {
	msg, err := Message(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *EventPublisher) Close() error {
	return p.w.Close()
}

// Topic returns the events topic name.
func (p *EventPublisher) Topic() string {
	return p.topic
}

// Message encodes ev as a Kafka message.
func Message(ev *models.TaskEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal task event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.TaskID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(ev.Action)},
		},
	}, nil
}

// EnsureTopic creates the events topic with configured partitions (idempotent).
// Call at startup; if it fails (e.g. no broker or topic exists), app still runs.
func EnsureTopic(ctx context.Context, cfg *config.Config, log *logger.Logger) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		log.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		log.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		log.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	log.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}
