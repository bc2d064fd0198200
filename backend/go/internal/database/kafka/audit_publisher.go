package kafka

import (
	"StartupCopilot/backend/go/internal/config"
	"StartupCopilot/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// AuditPublisher 封装了向 Kafka 发送文档审计事件的逻辑。
// 发布是尽力而为的：失败由调用方记录日志，绝不影响文档操作本身。
type AuditPublisher struct {
	writer *kafka.Writer
}

// NewAuditPublisher 创建一个新的 AuditPublisher 实例。
func NewAuditPublisher(cfg *config.KafkaConfig) *AuditPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.AuditTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	})
	return &AuditPublisher{writer: writer}
}

// Publish 将 AuditEvent 序列化为 JSON 并发送到 Kafka。
func (p *AuditPublisher) Publish(ctx context.Context, event *models.AuditEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DocumentID),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close 关闭底层的 writer 连接。
func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}
