package repository

import (
	"context"

	"ecogrow/internal/domain"
)

// ProfileStore reads and writes rows of the profiles collection.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, id, fullName string, location *string) (*domain.Profile, error)

	// SetCoins overwrites the balance. It is a plain write, not an increment.
	SetCoins(ctx context.Context, id string, coins int64) error
	// IncrementCoins calls the increment_eco_coins procedure.
	IncrementCoins(ctx context.Context, id string, amount int64) error
	// GetRank calls the get_user_rank procedure. A nil rank means no row.
	GetRank(ctx context.Context, id string) (*domain.Rank, error)

	ListByCoins(ctx context.Context) ([]domain.Profile, error)
	ListNewest(ctx context.Context) ([]domain.Profile, error)
}

type TreeStore interface {
	Create(ctx context.Context, t *domain.Tree) error
	ListByUser(ctx context.Context, userID string) ([]domain.Tree, error)
}

type ItemStore interface {
	GetByID(ctx context.Context, id string) (*domain.MarketplaceItem, error)
	ListByName(ctx context.Context) ([]domain.MarketplaceItem, error)
	ListNewest(ctx context.Context) ([]domain.MarketplaceItem, error)
	Create(ctx context.Context, item *domain.MarketplaceItem) error
	Delete(ctx context.Context, id string) error
	SetStock(ctx context.Context, id string, stock int64) error
}

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus returns the updated row so callers can reach the buyer.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type RoleStore interface {
	// HasRole reports whether exactly one matching grant exists. More than
	// one match is ErrMultipleRows.
	HasRole(ctx context.Context, userID string, role domain.Role) (bool, error)
	Grant(ctx context.Context, userID string, role domain.Role) error
	Revoke(ctx context.Context, userID string, role domain.Role) error
	ListUserIDs(ctx context.Context, role domain.Role) ([]string, error)
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error)
	GetRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}

// Settler performs the whole buy flow inside one database transaction.
type Settler interface {
	SettleOrder(ctx context.Context, o *domain.Order) (*domain.Settlement, error)
}
