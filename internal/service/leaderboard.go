package service

import (
	"context"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/repository"
)

const (
	defaultLeaderboard = 50
	maxLeaderboard     = 100
)

type Leaderboard struct {
	Entries      []domain.LeaderboardEntry `json:"entries"`
	MyRank       int                       `json:"my_rank"`
	MyWchibi     int64                     `json:"my_wchibi"`
	TotalPlayers int                       `json:"total_players"`
}

type LeaderboardService struct {
	users repository.UserStore
}

func NewLeaderboardService(users repository.UserStore) *LeaderboardService {
	return &LeaderboardService{users: users}
}

// Get returns the top players by wCHIBI and where userID stands.
func (s *LeaderboardService) Get(ctx context.Context, userID int64, limit int) (*Leaderboard, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}
	entries, err := s.users.Top(ctx, min(limit, maxLeaderboard))
	if err != nil {
		return nil, err
	}
	rank, total, err := s.users.Rank(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Leaderboard{Entries: entries, MyRank: rank, MyWchibi: u.Wchibi, TotalPlayers: total}, nil
}
