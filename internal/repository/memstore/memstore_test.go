package memstore

import (
	"context"
	"testing"

	"ecogrow/internal/domain"
	"ecogrow/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailInjection(t *testing.T) {
	st := New()
	ctx := context.Background()
	st.PutProfile(domain.Profile{ID: "a", FullName: "A"})

	st.Fail(OpProfileGet, assert.AnError)
	_, err := st.Profiles().GetByID(ctx, "a")
	assert.ErrorIs(t, err, assert.AnError)

	st.Fail(OpProfileGet, nil)
	p, err := st.Profiles().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", p.FullName)
	assert.Equal(t, 2, st.Calls(OpProfileGet))
}

func TestRankTiesAndMissingProfile(t *testing.T) {
	st := New()
	ctx := context.Background()
	st.PutProfile(domain.Profile{ID: "a", EcoCoins: 50})
	st.PutProfile(domain.Profile{ID: "b", EcoCoins: 50})
	st.PutProfile(domain.Profile{ID: "c", EcoCoins: 10})

	r, err := st.Profiles().GetRank(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, &domain.Rank{Rank: 1, TotalUsers: 3}, r)

	r, err = st.Profiles().GetRank(ctx, "c")
	require.NoError(t, err)
	assert.EqualValues(t, 3, r.Rank)

	r, err = st.Profiles().GetRank(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestListByCoinsBreaksTiesByAge(t *testing.T) {
	st := New()
	st.PutProfile(domain.Profile{ID: "z-old", EcoCoins: 20})
	st.PutProfile(domain.Profile{ID: "a-new", EcoCoins: 20})
	st.PutProfile(domain.Profile{ID: "rich", EcoCoins: 99})

	list, err := st.Profiles().ListByCoins(context.Background())
	require.NoError(t, err)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"rich", "z-old", "a-new"}, ids)
}

func TestGrantUniqueness(t *testing.T) {
	st := New()
	ctx := context.Background()
	roles := st.Roles()

	require.NoError(t, roles.Grant(ctx, "a", domain.RoleAdmin))
	assert.ErrorIs(t, roles.Grant(ctx, "a", domain.RoleAdmin), repository.ErrDuplicate)

	st.PutGrant("b", domain.RoleAdmin)
	st.PutGrant("b", domain.RoleAdmin)
	_, err := roles.HasRole(ctx, "b", domain.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrMultipleRows)

	require.NoError(t, roles.Revoke(ctx, "b", domain.RoleAdmin))
	ok, err := roles.HasRole(ctx, "b", domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettlerChecks(t *testing.T) {
	st := New()
	ctx := context.Background()
	st.PutProfile(domain.Profile{ID: "a", EcoCoins: 40})
	st.PutItem(domain.MarketplaceItem{ID: "cup", Name: "Bamboo Cup", PriceEcoCoin: 40, Stock: 1})

	s, err := st.Settler().SettleOrder(ctx, &domain.Order{ID: "o1", UserID: "a", ItemID: "cup"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, s.NewBalance)
	assert.EqualValues(t, 0, s.NewStock)
	assert.Equal(t, "Bamboo Cup", s.Order.ItemName)

	st.PutProfile(domain.Profile{ID: "b", EcoCoins: 100})
	_, err = st.Settler().SettleOrder(ctx, &domain.Order{ID: "o2", UserID: "b", ItemID: "cup"})
	assert.ErrorIs(t, err, repository.ErrOutOfStock)

	_, err = st.Settler().SettleOrder(ctx, &domain.Order{ID: "o3", UserID: "a", ItemID: "cup"})
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

	assert.Len(t, st.AllOrders(), 1)
}

func TestOrdersNewestFirst(t *testing.T) {
	st := New()
	ctx := context.Background()
	orders := st.Orders()

	require.NoError(t, orders.Create(ctx, &domain.Order{ID: "1", UserID: "a"}))
	require.NoError(t, orders.Create(ctx, &domain.Order{ID: "2", UserID: "b"}))
	require.NoError(t, orders.Create(ctx, &domain.Order{ID: "3", UserID: "a"}))

	mine, err := orders.ListByUser(ctx, "a")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "3", mine[0].ID)
	assert.Equal(t, domain.OrderStatusPending, mine[0].Status)

	all, err := orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", all[0].ID)
	assert.Equal(t, "1", all[2].ID)

	_, err = orders.UpdateStatus(ctx, "missing", domain.OrderStatusApproved)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
