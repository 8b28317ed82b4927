package service

import (
	"context"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"
)

// LeaderboardService only reads; calling it twice without writes in between
// returns the same data.
type LeaderboardService struct {
	profiles repository.ProfileStore
}

func NewLeaderboardService(profiles repository.ProfileStore) *LeaderboardService {
	return &LeaderboardService{profiles: profiles}
}

// Leaderboard lists every profile by balance, oldest first on ties. A failed
// read is logged and yields an empty board.
func (s *LeaderboardService) Leaderboard(ctx context.Context) []domain.Profile {
	list, err := s.profiles.ListByCoins(ctx)
	if err != nil {
		logger.Error("failed to load leaderboard", "error", err)
		return []domain.Profile{}
	}
	return list
}

// Rank returns nil when the procedure fails or has no row for the user.
func (s *LeaderboardService) Rank(ctx context.Context, userID string) *domain.Rank {
	rank, err := s.profiles.GetRank(ctx, userID)
	if err != nil {
		logger.Error("failed to load rank", "user_id", userID, "error", err)
		return nil
	}
	return rank
}
