// Package ledger is the relational stock ledger: per-product read,
// atomic conditional decrement, and add-back for compensation.
package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-order-saga.git/internal/orders"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, productID string) (orders.Product, error) {
	var p orders.Product
	err := r.DB.QueryRow(ctx, `SELECT id, name, stock, price, created_at, updated_at
	                           FROM products WHERE id=$1`, productID).
		Scan(&p.ID, &p.Name, &p.Stock, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.Product{}, orders.NotFoundf("product %s not found", productID)
	}
	if err != nil {
		return orders.Product{}, err
	}
	return p, nil
}

// Reserve decrements stock with a guard in the same statement. Two
// concurrent callers competing for the last unit serialize on the row;
// the loser sees zero rows affected, never negative stock.
func (r *Repo) Reserve(ctx context.Context, productID string, qty int) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at = now()
	                           WHERE id = $1 AND stock >= $2`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Guard rejected: missing product and short stock look the same here.
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return orders.NotFoundf("product %s not found", productID)
	}
	return orders.BusinessRulef("insufficient stock for product %s", productID)
}

// Restore adds a reserved quantity back. Plain addition keeps it safe to
// replay during compensation.
func (r *Repo) Restore(ctx context.Context, productID string, qty int) error {
	_, err := r.DB.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now()
	                          WHERE id = $1`, productID, qty)
	return err
}
