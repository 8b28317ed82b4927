package repository

import (
	"context"
	"encoding/json"

	"ecogrow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id::text, item_id::text, item_name, price, delivery_info, status, created_at, updated_at`

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return insertOrder(ctx, r.db, o)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// UpdateStatus sets any status; there is no transition check.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE orders SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+orderColumns,
		id, string(status),
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertOrder(ctx context.Context, q querier, o *domain.Order) error {
	deliveryJSON, err := json.Marshal(o.DeliveryInfo)
	if err != nil {
		return err
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	return mapErr(q.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, item_id, item_name, price, delivery_info, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.ItemID, o.ItemName, o.Price, deliveryJSON, string(o.Status),
	).Scan(&o.CreatedAt, &o.UpdatedAt))
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o            domain.Order
		deliveryJSON []byte
		status       string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.ItemID, &o.ItemName, &o.Price, &deliveryJSON, &status,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(deliveryJSON) > 0 {
		_ = json.Unmarshal(deliveryJSON, &o.DeliveryInfo)
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
