package service

import (
	"context"
	"time"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/metrics"
)

// Profile is the player summary shown on the main screen.
type Profile struct {
	User        *domain.User     `json:"user"`
	TeamPower   int64            `json:"team_power"`
	TeamSize    int              `json:"team_size"`
	IncomePerHr int64            `json:"income_per_hour"`
	Chiblets    int              `json:"chiblets"`
	Stage       *game.StageInfo  `json:"stage,omitempty"`
	PendingIdle game.IdleOutcome `json:"pending_idle"`
}

type IdleClaim struct {
	Outcome game.IdleOutcome `json:"outcome"`
	Applied bool             `json:"applied"`
	Wchibi  int64            `json:"wchibi"`
}

type ProgressService struct {
	*Deps
}

func NewProgressService(d *Deps) *ProgressService {
	return &ProgressService{Deps: d}
}

// offlineHours is the claimable time since last-online, capped at the
// maximum. Zero when below the minimum.
func (s *ProgressService) offlineHours(u *domain.User, now time.Time) float64 {
	cfg := s.calc.Tables().Idle
	hours := min(now.Sub(u.LastOnline).Hours(), cfg.MaxOfflineHours)
	if hours < cfg.MinOfflineHours {
		return 0
	}
	return hours
}

func (s *ProgressService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	team, err := s.store.Chiblets.ActiveTeam(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	count, err := s.store.Chiblets.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &Profile{
		User:        u,
		TeamPower:   s.calc.TeamPower(team),
		TeamSize:    len(team),
		IncomePerHr: s.calc.PassiveIncome(team, 1),
		Chiblets:    count,
		PendingIdle: s.calc.IdleProjection(team, u.CurrentStage, s.offlineHours(u, now)),
	}
	if st := s.calc.StagePreview(u.CurrentStage, 1); len(st) == 1 {
		p.Stage = &st[0]
	}
	return p, nil
}

// ClaimIdle applies offline progress since the last visit. Below the
// minimum offline time nothing happens and the clock keeps running.
func (s *ProgressService) ClaimIdle(ctx context.Context, userID int64) (*IdleClaim, error) {
	var res IdleClaim
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()
		u, err := s.store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		res.Wchibi = u.Wchibi
		hours := s.offlineHours(u, now)
		if hours == 0 {
			res.Outcome = game.IdleOutcome{StartStage: u.CurrentStage, FinalStage: u.CurrentStage}
			return nil
		}

		team, err := s.store.Chiblets.ActiveTeam(ctx, userID, true)
		if err != nil {
			return err
		}
		out := s.calc.IdleProjection(team, u.CurrentStage, hours)
		res.Outcome = out

		u.LastOnline = now
		if out.StagesCleared > 0 {
			u.CurrentStage = out.FinalStage
			u.Experience += out.Experience
			meta := map[string]interface{}{"hours": out.Hours, "stages": out.StagesCleared}
			if err := s.ledger.Credit(ctx, u, out.Currency, domain.TxIdleReward, meta); err != nil {
				return err
			}
			share := out.Experience / int64(len(team))
			for i := range team {
				team[i].Experience += share
				if err := s.store.Chiblets.Update(ctx, &team[i]); err != nil {
					return err
				}
			}
			res.Applied = true
		}
		res.Wchibi = u.Wchibi
		return s.store.Users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	if res.Applied {
		metrics.IdleClaims.Inc()
		logger.Info("idle progress claimed", "user_id", userID, "hours", res.Outcome.Hours, "stages", res.Outcome.StagesCleared, "wchibi", res.Outcome.Currency)
		s.events.Publish(userID, EventIdleClaimed, res)
	}
	return &res, nil
}
