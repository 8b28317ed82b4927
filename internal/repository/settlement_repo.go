package repository

import (
	"context"
	"errors"

	"ecogrow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettlementRepository runs the buy flow as a single transaction. It locks
// the buyer and the item, debits and decrements with a floor at zero, and
// inserts the order; any failure rolls all three back.
type SettlementRepository struct {
	db *pgxpool.Pool
}

func NewSettlementRepository(db *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) SettleOrder(ctx context.Context, o *domain.Order) (*domain.Settlement, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock in a fixed order (profile, then item) to avoid deadlocks.
	var balance int64
	err = tx.QueryRow(ctx, `SELECT eco_coins FROM profiles WHERE id = $1 FOR UPDATE`, o.UserID).Scan(&balance)
	if err != nil {
		return nil, mapErr(err)
	}

	var (
		stock int64
		name  string
		price int64
	)
	err = tx.QueryRow(ctx,
		`SELECT stock, name, price_eco_coin FROM marketplace_items WHERE id = $1 FOR UPDATE`,
		o.ItemID,
	).Scan(&stock, &name, &price)
	if err != nil {
		return nil, mapErr(err)
	}

	// Snapshot from the locked row, not from what the client saw.
	o.ItemName = name
	o.Price = price

	if balance < price {
		return nil, ErrInsufficientFunds
	}
	if stock <= 0 {
		return nil, ErrOutOfStock
	}

	var newBalance int64
	err = tx.QueryRow(ctx,
		`UPDATE profiles SET eco_coins = eco_coins - $2, updated_at = now()
		 WHERE id = $1 AND eco_coins >= $2
		 RETURNING eco_coins`,
		o.UserID, price,
	).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}

	var newStock int64
	err = tx.QueryRow(ctx,
		`UPDATE marketplace_items SET stock = stock - 1, updated_at = now()
		 WHERE id = $1 AND stock > 0
		 RETURNING stock`,
		o.ItemID,
	).Scan(&newStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOutOfStock
	}
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatusPending
	if err := insertOrder(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.Settlement{Order: o, NewBalance: newBalance, NewStock: newStock}, nil
}
