// Package notify fans order events out to kafka: one topic per event
// type for push consumers, plus a mail topic drained by the mailer
// worker. Everything here is one-way; a lost message is a log line, not
// a request failure.
package notify

import (
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-order-saga.git/internal/kafka"
	"github.com/ariefcatur/go-order-saga.git/internal/orders"
)

type publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Dispatcher struct {
	Created     publisher // topic order.created
	Updated     publisher // topic order.status.updated
	Emails      publisher // topic order.emails
	ServiceName string
}

func (d *Dispatcher) OrderCreated(o orders.Order) {
	env := d.envelope(orders.EventOrderCreated, o.ID, orders.OrderCreatedPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Items:   o.Items,
		Total:   o.Total,
		Status:  o.Status,
	})
	d.Created.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(env))
}

func (d *Dispatcher) StatusUpdated(o orders.Order) {
	env := d.envelope(orders.EventStatusUpdated, o.ID, orders.StatusUpdatedPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  o.Status,
		Total:   o.Total,
	})
	d.Updated.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(env))
}

func (d *Dispatcher) EnqueueEmail(msg orders.EmailMessage) {
	// The mail topic carries bare messages; keying by recipient keeps a
	// mailbox's mail ordered.
	d.Emails.Publish([]byte(msg.To), kafkax.MustMarshal(msg))
}

func (d *Dispatcher) envelope(eventType, orderID string, payload any) orders.Envelope {
	return orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      d.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
}
