package domain

import "time"

// MarketplaceItem is a catalog entry. Stock is not clamped and may go negative.
type MarketplaceItem struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	PriceEcoCoin int64     `db:"price_eco_coin" json:"price_eco_coin"`
	Stock        int64     `db:"stock" json:"stock"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
