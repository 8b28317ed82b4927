package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"ecogrow/internal/domain"
	"ecogrow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	require.NoError(t, err, "read migrations")

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		require.NoError(t, err)
		_, err = db.Exec(context.Background(), string(b))
		require.NoError(t, err, "apply migration %s", name)
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func newProfile(t *testing.T, repo *repository.ProfileRepository, coins int64) *domain.Profile {
	t.Helper()
	p := &domain.Profile{ID: uuid.NewString(), FullName: "Grower", EcoCoins: coins}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func newItem(t *testing.T, repo *repository.MarketplaceRepository, price, stock int64) *domain.MarketplaceItem {
	t.Helper()
	item := &domain.MarketplaceItem{
		ID: uuid.NewString(), Name: "Seedling Kit", Description: "starter", PriceEcoCoin: price, Stock: stock,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestProfileRepository_Coins(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	repo := repository.NewProfileRepository(db)

	p := newProfile(t, repo, 10)

	require.NoError(t, repo.IncrementCoins(ctx, p.ID, 17))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 27, got.EcoCoins)

	require.NoError(t, repo.SetCoins(ctx, p.ID, 5))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.EcoCoins)

	rank, err := repo.GetRank(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, rank)
	assert.GreaterOrEqual(t, rank.TotalUsers, rank.Rank)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRoleRepository_GrantRevoke(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	roles := repository.NewRoleRepository(db)
	userID := uuid.NewString()

	ok, err := roles.HasRole(ctx, userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, roles.Grant(ctx, userID, domain.RoleAdmin))
	assert.ErrorIs(t, roles.Grant(ctx, userID, domain.RoleAdmin), repository.ErrDuplicate)

	ok, err = roles.HasRole(ctx, userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, roles.Revoke(ctx, userID, domain.RoleAdmin))
	ok, err = roles.HasRole(ctx, userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderRepository_DeliveryInfoRoundTrip(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	orders := repository.NewOrderRepository(db)
	userID := uuid.NewString()

	o := &domain.Order{
		ID: uuid.NewString(), UserID: userID, ItemID: uuid.NewString(), ItemName: "Seedling Kit", Price: 100,
		DeliveryInfo: domain.DeliveryInfo{FullName: "A", Phone: "1", WhatsApp: "1", Address: "X", City: "Y"},
	}
	require.NoError(t, orders.Create(ctx, o))
	assert.Equal(t, domain.OrderStatusPending, o.Status)

	updated, err := orders.UpdateStatus(ctx, o.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, userID, updated.UserID)

	list, err := orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o.DeliveryInfo, list[0].DeliveryInfo)
	assert.Equal(t, domain.OrderStatusDelivered, list[0].Status)
}

func TestSettlementRepository_NoOversell(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	profiles := repository.NewProfileRepository(db)
	items := repository.NewMarketplaceRepository(db)
	settler := repository.NewSettlementRepository(db)

	item := newItem(t, items, 30, 2)
	buyers := make([]*domain.Profile, 5)
	for i := range buyers {
		buyers[i] = newProfile(t, profiles, 100)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sold int
	)
	for _, b := range buyers {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := settler.SettleOrder(ctx, &domain.Order{ID: uuid.NewString(), UserID: userID, ItemID: item.ID})
			if err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, repository.ErrOutOfStock)
		}(b.ID)
	}
	wg.Wait()

	assert.Equal(t, 2, sold)
	got, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Stock)
}

func TestSettlementRepository_InsufficientFunds(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	profiles := repository.NewProfileRepository(db)
	items := repository.NewMarketplaceRepository(db)
	settler := repository.NewSettlementRepository(db)

	item := newItem(t, items, 30, 1)
	p := newProfile(t, profiles, 29)

	_, err := settler.SettleOrder(ctx, &domain.Order{ID: uuid.NewString(), UserID: p.ID, ItemID: item.ID})
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

	got, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Stock)
}
