package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

type recordingSender struct {
	sent []string // "to|subject"
	err  error
}

func (r *recordingSender) Send(to, subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, to+"|"+subject)
	return nil
}

func newService(sender Sender) *Service {
	return &Service{
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sender:      sender,
		ServiceName: "test-mailer",
	}
}

func TestService_HandleEmail(t *testing.T) {
	t.Parallel()

	t.Run("delivers a well-formed message", func(t *testing.T) {
		sender := &recordingSender{}
		svc := newService(sender)

		m := kafkago.Message{Value: []byte(`{"to":"admin@example.com","subject":"New order","body":"hi"}`)}
		if err := svc.HandleEmail(context.Background(), m); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sender.sent) != 1 || sender.sent[0] != "admin@example.com|New order" {
			t.Fatalf("expected one delivery, got %v", sender.sent)
		}
	})

	t.Run("malformed payload is dropped, not retried", func(t *testing.T) {
		sender := &recordingSender{}
		svc := newService(sender)

		m := kafkago.Message{Value: []byte(`{not json`)}
		if err := svc.HandleEmail(context.Background(), m); err != nil {
			t.Fatalf("malformed message must commit, got %v", err)
		}
		if len(sender.sent) != 0 {
			t.Fatalf("nothing should be sent for a malformed message")
		}
	})

	t.Run("missing recipient is dropped", func(t *testing.T) {
		sender := &recordingSender{}
		svc := newService(sender)

		m := kafkago.Message{Value: []byte(`{"subject":"x","body":"y"}`)}
		if err := svc.HandleEmail(context.Background(), m); err != nil {
			t.Fatalf("expected drop, got %v", err)
		}
		if len(sender.sent) != 0 {
			t.Fatalf("nothing should be sent without a recipient")
		}
	})

	t.Run("transport failure is returned so the offset is not committed", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("smtp refused")}
		svc := newService(sender)

		m := kafkago.Message{Value: []byte(`{"to":"admin@example.com","subject":"x","body":"y"}`)}
		if err := svc.HandleEmail(context.Background(), m); err == nil {
			t.Fatalf("expected the transport error to propagate")
		}
	})
}
