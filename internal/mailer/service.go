// Package mailer drains the order mail topic and hands messages to an
// SMTP sender. Delivery is at-least-once; redis dedup keeps retried
// kafka messages from sending twice.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-order-saga.git/internal/orders"
	"github.com/ariefcatur/go-order-saga.git/internal/redisx"
)

type Service struct {
	Log         *slog.Logger
	Redis       *redis.Client
	Sender      Sender
	ServiceName string
}

// HandleEmail is wired as the consumer handler for the mail topic.
func (s *Service) HandleEmail(ctx context.Context, m kafkago.Message) error {
	var msg orders.EmailMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		// malformed message: commit and move on, retrying cannot fix it
		s.Log.Error("drop malformed email message", "err", err)
		return nil
	}
	if msg.To == "" {
		s.Log.Error("drop email without recipient", "subject", msg.Subject)
		return nil
	}

	// dedup on topic/partition/offset; a redo after a crashed commit is
	// the common case. Dedup is best-effort: without redis we still send.
	var dkey string
	if s.Redis != nil {
		dkey = fmt.Sprintf(redisx.KeyDedup, s.ServiceName,
			fmt.Sprintf("%s:%d:%d", m.Topic, m.Partition, m.Offset))
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
	}

	if err := s.Sender.Send(msg.To, msg.Subject, msg.Body); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	if s.Redis != nil {
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}
	s.Log.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
