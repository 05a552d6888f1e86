package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"beatbloom/internal/shared/config"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Channel names understood by the downstream delivery workers
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
)

// Notification is the unit published to the notification topic. Actual
// delivery (SMTP, SMS provider) happens in a separate consumer service.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	Channel   string                 `json:"channel"`
	Template  string                 `json:"template"`
	Recipient string                 `json:"recipient"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// Notifier is the outbound notification collaborator
type Notifier interface {
	Send(ctx context.Context, channel, template, recipient string, payload map[string]interface{}) error
	Close() error
}

// KafkaNotifier publishes notifications to a Kafka topic
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaNotifier creates a Kafka-backed notifier from config
func NewKafkaNotifier(cfg config.KafkaConfig) (*KafkaNotifier, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps one recipient's notifications ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaNotifier{
		producer: producer,
		topic:    cfg.NotificationTopic,
	}, nil
}

func (n *KafkaNotifier) Send(ctx context.Context, channel, template, recipient string, payload map[string]interface{}) error {
	notification := Notification{
		ID:        uuid.New(),
		Channel:   channel,
		Template:  template,
		Recipient: recipient,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     n.topic,
		Key:       sarama.StringEncoder(recipient),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: notification.CreatedAt,
	}

	if _, _, err := n.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// LogNotifier writes notifications to the log instead of a broker. Used when
// Kafka is disabled, and in tests.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, channel, template, recipient string, payload map[string]interface{}) error {
	n.logger.InfoContext(ctx, "notification",
		slog.String("channel", channel),
		slog.String("template", template),
		slog.String("recipient", recipient),
		slog.Any("payload", payload),
	)
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
