package service

import (
	"context"
	"errors"
	"testing"

	"ecogrow/internal/domain"
	"ecogrow/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRole(t *testing.T) {
	st := memstore.New()
	svc := NewProfileService(st.Profiles(), st.Roles())
	ctx := context.Background()

	assert.False(t, svc.CheckRole(ctx, aliceID, domain.RoleAdmin), "no grant")

	st.PutGrant(aliceID, domain.RoleAdmin)
	assert.True(t, svc.CheckRole(ctx, aliceID, domain.RoleAdmin), "one grant")

	st.PutGrant(aliceID, domain.RoleAdmin)
	assert.False(t, svc.CheckRole(ctx, aliceID, domain.RoleAdmin), "two grants")

	st.PutGrant(bobID, domain.RoleAdmin)
	st.Fail(memstore.OpRoleHas, errors.New("timeout"))
	assert.False(t, svc.CheckRole(ctx, bobID, domain.RoleAdmin), "lookup error")
}

func TestLoadProfile(t *testing.T) {
	st := memstore.New()
	svc := NewProfileService(st.Profiles(), st.Roles())
	seedProfile(st, aliceID, "Alice", 42)
	ctx := context.Background()

	p, err := svc.LoadProfile(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.EcoCoins)

	again, err := svc.LoadProfile(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, p, again)

	_, err = svc.LoadProfile(ctx, bobID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, 3, st.Calls(memstore.OpProfileGet))
}

func TestMe(t *testing.T) {
	st := memstore.New()
	svc := NewProfileService(st.Profiles(), st.Roles())
	seedProfile(st, aliceID, "Alice", 0)
	st.PutGrant(aliceID, domain.RoleAdmin)

	me, err := svc.Me(context.Background(), sessionFor(aliceID))
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Profile.FullName)
	assert.True(t, me.IsAdmin)

	_, err = svc.Me(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateProfile(t *testing.T) {
	st := memstore.New()
	svc := NewProfileService(st.Profiles(), st.Roles())
	seedProfile(st, aliceID, "Alice", 7)
	ctx := context.Background()

	loc := "  Nairobi "
	p, err := svc.UpdateProfile(ctx, sessionFor(aliceID), " Alice Green ", &loc)
	require.NoError(t, err)
	assert.Equal(t, "Alice Green", p.FullName)
	require.NotNil(t, p.Location)
	assert.Equal(t, "Nairobi", *p.Location)
	assert.Equal(t, int64(7), p.EcoCoins)

	blank := " "
	p, err = svc.UpdateProfile(ctx, sessionFor(aliceID), "Alice", &blank)
	require.NoError(t, err)
	assert.Nil(t, p.Location)

	_, err = svc.UpdateProfile(ctx, sessionFor(aliceID), "  ", nil)
	assert.ErrorIs(t, err, ErrFullNameRequired)

	_, err = svc.UpdateProfile(ctx, sessionFor(bobID), "Bob", nil)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
