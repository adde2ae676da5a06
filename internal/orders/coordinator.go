package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Coordinator runs the order saga: reserve stock in the ledger, persist
// the order document, then populate cache and dispatch notifications
// without blocking the caller. It holds no cross-request state; all
// state lives behind the ports.
type Coordinator struct {
	log      *slog.Logger
	ledger   StockLedger
	store    OrderStore
	cache    OrderCache
	dispatch Dispatcher

	adminEmail    string
	emailOnStatus bool
	now           func() time.Time
}

type CoordinatorOpts struct {
	AdminEmail          string
	EmailOnStatusUpdate bool
	Now                 func() time.Time // tests override; defaults to time.Now().UTC
}

func NewCoordinator(log *slog.Logger, ledger StockLedger, store OrderStore, cache OrderCache, dispatch Dispatcher, opts CoordinatorOpts) *Coordinator {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Coordinator{
		log:           log,
		ledger:        ledger,
		store:         store,
		cache:         cache,
		dispatch:      dispatch,
		adminEmail:    opts.AdminEmail,
		emailOnStatus: opts.EmailOnStatusUpdate,
		now:           now,
	}
}

// reservation is one applied saga step, tracked so a later failure can
// unwind in reverse order.
type reservation struct {
	productID string
	qty       int
}

// CreateOrder validates the request, reserves stock item-by-item in
// request order, persists the order, and fires the side effects. Any
// failure after the first successful reservation compensates every
// reservation made so far (reverse order, best-effort) before the error
// is returned: the caller observes no order and unchanged net stock.
func (c *Coordinator) CreateOrder(ctx context.Context, userID string, items []ItemInput) (Order, error) {
	if userID == "" {
		return Order{}, Validationf("user id is required")
	}
	if len(items) == 0 {
		return Order{}, Validationf("order has no items")
	}
	for _, it := range items {
		if it.ProductID == "" {
			return Order{}, Validationf("item has no product id")
		}
		if it.Qty <= 0 {
			return Order{}, Validationf("invalid qty %d for product %s", it.Qty, it.ProductID)
		}
	}

	var (
		reserved  []reservation
		snapshots []OrderItem
	)
	for _, it := range items {
		p, err := c.ledger.Get(ctx, it.ProductID)
		if err != nil {
			c.compensate(ctx, reserved)
			if KindOf(err) == KindNotFound {
				return Order{}, err
			}
			return Order{}, Internal("ledger lookup", err)
		}

		if err := c.ledger.Reserve(ctx, it.ProductID, it.Qty); err != nil {
			c.compensate(ctx, reserved)
			if KindOf(err) == KindBusinessRule {
				return Order{}, err
			}
			return Order{}, Internal("stock reserve", err)
		}
		reserved = append(reserved, reservation{productID: it.ProductID, qty: it.Qty})
		snapshots = append(snapshots, newItem(p, it.Qty))
	}

	now := c.now()
	order := Order{
		UserID:    userID,
		Items:     snapshots,
		Total:     orderTotal(snapshots),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	persisted, err := c.store.Create(ctx, order)
	if err != nil {
		c.compensate(ctx, reserved)
		return Order{}, Internal("persist order", err)
	}

	c.afterCreate(persisted)
	return persisted, nil
}

// compensate restores reservations in reverse acquisition order. Each
// restore is best-effort: a failure is logged for out-of-band
// reconciliation and never changes the error already being returned.
func (c *Coordinator) compensate(ctx context.Context, reserved []reservation) {
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := c.ledger.Restore(ctx, r.productID, r.qty); err != nil {
			c.log.Error("compensation restore failed",
				"product_id", r.productID, "qty", r.qty, "err", err)
		}
	}
}

// afterCreate runs the detached side effects. They use a background
// context on purpose: they may outlive the request and are never
// cancelled with it.
func (c *Coordinator) afterCreate(o Order) {
	go func() {
		ctx := context.Background()
		if err := c.cache.Set(ctx, o); err != nil {
			c.log.Warn("cache set failed", "order_id", o.ID, "err", err)
		}
		c.dispatch.OrderCreated(o)
		if c.adminEmail != "" {
			c.dispatch.EnqueueEmail(createdEmail(c.adminEmail, o))
		}
	}()
}

// UpdateStatus validates and persists a status transition, then
// refreshes the cache and dispatches a status-updated event.
func (c *Coordinator) UpdateStatus(ctx context.Context, orderID, rawStatus string) (Order, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return Order{}, err
	}

	current, err := c.store.GetByID(ctx, orderID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return Order{}, err
		}
		return Order{}, Internal("fetch order", err)
	}

	if current.Status == status {
		return current, nil // no-op, nothing to persist or announce
	}
	if !CanTransition(current.Status, status) {
		return Order{}, BusinessRulef("illegal transition %s -> %s", current.Status, status)
	}

	updated, err := c.store.UpdateStatus(ctx, orderID, status, c.now())
	if err != nil {
		return Order{}, Internal("persist status", err)
	}

	go func() {
		ctx := context.Background()
		if err := c.cache.Set(ctx, updated); err != nil {
			c.log.Warn("cache refresh failed", "order_id", updated.ID, "err", err)
		}
		c.dispatch.StatusUpdated(updated)
		if c.emailOnStatus && c.adminEmail != "" {
			c.dispatch.EnqueueEmail(statusEmail(c.adminEmail, updated))
		}
	}()
	return updated, nil
}

// FindByID reads cache-aside: cache errors fall through to the store,
// a miss repopulates the cache off the request path.
func (c *Coordinator) FindByID(ctx context.Context, orderID string) (Order, error) {
	if orderID == "" {
		return Order{}, Validationf("order id is required")
	}
	if cached, err := c.cache.Get(ctx, orderID); err != nil {
		c.log.Warn("cache get failed", "order_id", orderID, "err", err)
	} else if cached != nil {
		return *cached, nil
	}

	o, err := c.store.GetByID(ctx, orderID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return Order{}, err
		}
		return Order{}, Internal("fetch order", err)
	}

	go func() {
		if err := c.cache.Set(context.Background(), o); err != nil {
			c.log.Warn("cache set failed", "order_id", o.ID, "err", err)
		}
	}()
	return o, nil
}

func (c *Coordinator) FindByUser(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, Validationf("user id is required")
	}
	out, err := c.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, Internal("list orders by user", err)
	}
	return out, nil
}

func (c *Coordinator) FindAll(ctx context.Context) ([]Order, error) {
	out, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, Internal("list orders", err)
	}
	return out, nil
}

func createdEmail(to string, o Order) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s created for user %s\n\n", o.ID, o.UserID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %dx %s @ %s = %s\n", it.Qty, it.ProductName, it.UnitPrice, it.Subtotal)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", o.Total)
	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New order %s (%s)", o.ID, o.Total),
		Body:    b.String(),
	}
}

func statusEmail(to string, o Order) EmailMessage {
	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Order %s is now %s", o.ID, o.Status),
		Body:    fmt.Sprintf("Order %s for user %s moved to %s.\n", o.ID, o.UserID, o.Status),
	}
}
