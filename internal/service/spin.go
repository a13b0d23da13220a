package service

import (
	"context"
	"time"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/metrics"
)

type SpinStatus struct {
	Remaining     int                `json:"remaining"`
	DailyLimit    int                `json:"daily_limit"`
	Slots         []domain.WheelSlot `json:"slots"`
	Probabilities map[int]float64    `json:"probabilities"`
}

type SpinResult struct {
	Slot      domain.WheelSlot `json:"slot"`
	Chiblet   *domain.Chiblet  `json:"chiblet,omitempty"`
	Remaining int              `json:"remaining"`
	Wchibi    int64            `json:"wchibi"`
}

type SpinService struct {
	*Deps
	wheel game.Wheel
}

func NewSpinService(d *Deps) *SpinService {
	return &SpinService{Deps: d, wheel: d.calc.NewWheel()}
}

// midnight is the start of the server-local day containing t.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *SpinService) Status(ctx context.Context, userID int64) (*SpinStatus, error) {
	used, err := s.store.Spins.CountSince(ctx, userID, midnight(s.now()))
	if err != nil {
		return nil, err
	}
	limit := s.calc.Tables().Spin.DailyLimit
	return &SpinStatus{
		Remaining:     max(0, limit-used),
		DailyLimit:    limit,
		Slots:         s.wheel.Slots,
		Probabilities: s.wheel.Probabilities(),
	}, nil
}

// Spin draws one wheel slot and grants its reward.
func (s *SpinService) Spin(ctx context.Context, userID int64) (*SpinResult, error) {
	var res SpinResult
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()
		u, err := s.store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		used, err := s.store.Spins.CountSince(ctx, userID, midnight(now))
		if err != nil {
			return err
		}
		limit := s.calc.Tables().Spin.DailyLimit
		if used >= limit {
			return game.ErrDailySpinLimit
		}

		rng := s.newRand()
		slot := s.wheel.Draw(rng)
		rec := &domain.SpinRecord{UserID: userID, SlotID: slot.ID, Reward: slot.Reward, CreatedAt: now}

		switch slot.Reward.Type {
		case domain.RewardWchibi:
			meta := map[string]interface{}{"slot": slot.ID}
			if err := s.ledger.Credit(ctx, u, slot.Reward.Amount, domain.TxSpinReward, meta); err != nil {
				return err
			}
			if err := s.store.Users.Update(ctx, u); err != nil {
				return err
			}
		case domain.RewardChiblet:
			ch, err := s.grantChiblet(ctx, userID, slot.Reward.Rarity, rng)
			if err != nil {
				return err
			}
			rec.ChibletID = &ch.ID
			res.Chiblet = ch
		}

		if err := s.store.Spins.Create(ctx, rec); err != nil {
			return err
		}
		res.Slot = slot
		res.Remaining = limit - used - 1
		res.Wchibi = u.Wchibi
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Spins.WithLabelValues(string(res.Slot.Reward.Type)).Inc()
	logger.Info("spin granted", "user_id", userID, "slot", res.Slot.ID, "reward", res.Slot.Reward.Type)
	s.events.Publish(userID, EventSpin, res)
	return &res, nil
}
