package notify

import (
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	kafkax "github.com/ariefcatur/go-order-saga.git/internal/kafka"
	"github.com/ariefcatur/go-order-saga.git/internal/orders"
)

type recordingPublisher struct {
	keys   []string
	values [][]byte
}

func (p *recordingPublisher) Publish(key, value []byte, _ ...kafkago.Header) {
	p.keys = append(p.keys, string(key))
	p.values = append(p.values, value)
}

func testOrder() orders.Order {
	return orders.Order{
		ID:     "order-1",
		UserID: "u1",
		Items: []orders.OrderItem{{
			ProductID: "p1", ProductName: "Keyboard", Qty: 2,
			UnitPrice: decimal.RequireFromString("50"),
			Subtotal:  decimal.RequireFromString("100"),
		}},
		Total:  decimal.RequireFromString("100"),
		Status: orders.StatusPending,
	}
}

func TestDispatcher_Routing(t *testing.T) {
	t.Parallel()

	created := &recordingPublisher{}
	updated := &recordingPublisher{}
	emails := &recordingPublisher{}
	d := &Dispatcher{Created: created, Updated: updated, Emails: emails, ServiceName: "order-api"}

	o := testOrder()
	d.OrderCreated(o)
	d.StatusUpdated(o)
	d.EnqueueEmail(orders.EmailMessage{To: "admin@example.com", Subject: "s", Body: "b"})

	if len(created.values) != 1 || len(updated.values) != 1 || len(emails.values) != 1 {
		t.Fatalf("expected one message per channel, got %d/%d/%d",
			len(created.values), len(updated.values), len(emails.values))
	}
	// events partition on order id, mail on recipient
	if created.keys[0] != "order-1" || updated.keys[0] != "order-1" {
		t.Fatalf("event partition keys: %v %v", created.keys, updated.keys)
	}
	if emails.keys[0] != "admin@example.com" {
		t.Fatalf("email partition key: %v", emails.keys)
	}
}

func TestDispatcher_Envelope(t *testing.T) {
	t.Parallel()

	created := &recordingPublisher{}
	d := &Dispatcher{Created: created, Updated: &recordingPublisher{}, Emails: &recordingPublisher{}, ServiceName: "order-api"}
	d.OrderCreated(testOrder())

	var env orders.Envelope
	if err := json.Unmarshal(created.values[0], &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.EventType != orders.EventOrderCreated {
		t.Fatalf("expected %s, got %s", orders.EventOrderCreated, env.EventType)
	}
	if env.EventID == "" || env.EventVersion != 1 || env.Producer != "order-api" {
		t.Fatalf("envelope fields: %+v", env)
	}
	if env.CorrelationID != "order-1" {
		t.Fatalf("expected correlation order-1, got %s", env.CorrelationID)
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		t.Fatalf("unwrap payload: %v", err)
	}
	if p.OrderID != "order-1" || !p.Total.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("payload: %+v", p)
	}
}
