package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/config"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	topic  string
	writer MessageWriter
	logger *zap.Logger
	now    func() time.Time
}

type transferMessage struct {
	ID      string                      `json:"id"`
	Type    string                      `json:"type"`
	Account common.Address              `json:"account"`
	Data    walletcommon.TransferRecord `json:"data"`
	Time    time.Time                   `json:"time"`
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return NewKafkaPublisherWithWriter(cfg.Topic, writer, logger)
}

func NewKafkaPublisherWithWriter(topic string, writer MessageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		topic:  topic,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// Publish writes one message per record, keyed by tx hash so that all
// messages about a tx land on the same partition.
func (k *KafkaPublisher) Publish(ctx context.Context, account common.Address, records []walletcommon.TransferRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(records))
	for _, record := range records {
		value, err := json.Marshal(transferMessage{
			ID:      uuid.NewString(),
			Type:    "transfer",
			Account: account,
			Data:    record,
			Time:    k.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal transfer message: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(record.TxHash.Hex()),
			Value: value,
		})
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", k.topic, err)
	}
	k.logger.Debug("published transfers",
		zap.String("topic", k.topic),
		zap.String("account", account.Hex()),
		zap.Int("count", len(msgs)),
	)
	return nil
}

func (k *KafkaPublisher) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
