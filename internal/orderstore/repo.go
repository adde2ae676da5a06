// Package orderstore persists order documents in their own database,
// separate from the stock ledger. The item snapshots live in a single
// JSONB column; the ledger and this store never share a transaction —
// the coordinator compensates instead.
package orderstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-order-saga.git/internal/orders"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, items, total, status, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, o orders.Order) (orders.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orders.Order{}, fmt.Errorf("encode items: %w", err)
	}
	o.ID = uuid.NewString()
	_, err = r.DB.Exec(ctx, `INSERT INTO orders (id, user_id, items, total, status, created_at, updated_at)
	                         VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.UserID, items, o.Total, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return orders.Order{}, err
	}
	return o, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (orders.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.Order{}, orders.NotFoundf("order %s not found", id)
	}
	return o, err
}

func (r *Repo) GetByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) GetAll(ctx context.Context) ([]orders.Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, status orders.Status, updatedAt time.Time) (orders.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `UPDATE orders SET status=$2, updated_at=$3
	                                        WHERE id=$1 RETURNING `+orderCols, id, status, updatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.Order{}, orders.NotFoundf("order %s not found", id)
	}
	return o, err
}

func collect(rows pgx.Rows) ([]orders.Order, error) {
	defer rows.Close()
	var out []orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (orders.Order, error) {
	var (
		o     orders.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return orders.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return orders.Order{}, fmt.Errorf("decode items: %w", err)
	}
	return o, nil
}
