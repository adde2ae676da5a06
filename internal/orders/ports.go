package orders

import (
	"context"
	"time"
)

// StockLedger is the relational inventory ledger. Reserve must be an
// atomic conditional decrement per product: under concurrent callers the
// loser sees a business-rule error, never negative stock.
type StockLedger interface {
	Get(ctx context.Context, productID string) (Product, error)
	Reserve(ctx context.Context, productID string, qty int) error
	// Restore adds a previously reserved quantity back. Safe to call
	// during compensation even when the paired reserve never happened.
	Restore(ctx context.Context, productID string, qty int) error
}

// OrderStore owns the order documents. Create assigns the identifier.
type OrderStore interface {
	Create(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	GetByUser(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (Order, error)
}

// OrderCache is a disposable read-side view; every call is best-effort
// from the coordinator's point of view.
type OrderCache interface {
	Get(ctx context.Context, orderID string) (*Order, error) // nil, nil on miss
	Set(ctx context.Context, o Order) error
	Invalidate(ctx context.Context, orderID string) error
}

// Dispatcher pushes order events and enqueues mail. All methods are
// one-way; delivery failures surface only in logs.
type Dispatcher interface {
	OrderCreated(o Order)
	StatusUpdated(o Order)
	EnqueueEmail(msg EmailMessage)
}
