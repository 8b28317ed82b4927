package repository

import (
	"context"

	"ecogrow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = `id::text, name, description, price_eco_coin, stock, created_at, updated_at`

type MarketplaceRepository struct {
	db *pgxpool.Pool
}

func NewMarketplaceRepository(db *pgxpool.Pool) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

func (r *MarketplaceRepository) GetByID(ctx context.Context, id string) (*domain.MarketplaceItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM marketplace_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return item, nil
}

// ListByName is the storefront ordering.
func (r *MarketplaceRepository) ListByName(ctx context.Context) ([]domain.MarketplaceItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM marketplace_items ORDER BY name`)
}

// ListNewest is the admin catalog ordering.
func (r *MarketplaceRepository) ListNewest(ctx context.Context) ([]domain.MarketplaceItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM marketplace_items ORDER BY created_at DESC`)
}

func (r *MarketplaceRepository) list(ctx context.Context, query string) ([]domain.MarketplaceItem, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MarketplaceItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *MarketplaceRepository) Create(ctx context.Context, item *domain.MarketplaceItem) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO marketplace_items (id, name, description, price_eco_coin, stock)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		item.ID, item.Name, item.Description, item.PriceEcoCoin, item.Stock,
	).Scan(&item.CreatedAt, &item.UpdatedAt))
}

// Delete removes the item without looking at orders that reference it.
func (r *MarketplaceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM marketplace_items WHERE id = $1`, id)
	return err
}

func (r *MarketplaceRepository) SetStock(ctx context.Context, id string, stock int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE marketplace_items SET stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.MarketplaceItem, error) {
	var item domain.MarketplaceItem
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.PriceEcoCoin, &item.Stock,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
