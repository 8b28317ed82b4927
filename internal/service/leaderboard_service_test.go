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

func TestLeaderboardOrdering(t *testing.T) {
	st := memstore.New()
	svc := NewLeaderboardService(st.Profiles())
	seedProfile(st, aliceID, "Alice", 50)
	seedProfile(st, bobID, "Bob", 80)
	seedProfile(st, adminID, "Admin", 50)

	board := svc.Leaderboard(context.Background())
	require.Len(t, board, 3)
	assert.Equal(t, []string{bobID, aliceID, adminID}, []string{board[0].ID, board[1].ID, board[2].ID})

	again := svc.Leaderboard(context.Background())
	assert.Equal(t, board, again)
}

func TestRankSharesTies(t *testing.T) {
	st := memstore.New()
	svc := NewLeaderboardService(st.Profiles())
	seedProfile(st, aliceID, "Alice", 50)
	seedProfile(st, bobID, "Bob", 80)
	seedProfile(st, adminID, "Admin", 50)
	ctx := context.Background()

	assert.Equal(t, &domain.Rank{Rank: 1, TotalUsers: 3}, svc.Rank(ctx, bobID))
	assert.Equal(t, &domain.Rank{Rank: 2, TotalUsers: 3}, svc.Rank(ctx, aliceID))
	assert.Equal(t, &domain.Rank{Rank: 2, TotalUsers: 3}, svc.Rank(ctx, adminID))
	assert.Nil(t, svc.Rank(ctx, "ghost"))
}

func TestLeaderboardFailuresAreSilent(t *testing.T) {
	st := memstore.New()
	svc := NewLeaderboardService(st.Profiles())
	seedProfile(st, aliceID, "Alice", 50)
	st.Fail(memstore.OpProfileList, errors.New("boom"))
	st.Fail(memstore.OpProfileRank, errors.New("boom"))

	assert.Empty(t, svc.Leaderboard(context.Background()))
	assert.Nil(t, svc.Rank(context.Background(), aliceID))
}
