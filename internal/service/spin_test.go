package service

import (
	"errors"
	"testing"
	"time"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
)

func TestDailySpinLimit(t *testing.T) {
	e := newEnv(t)
	svc := NewSpinService(e.deps)
	u := e.player(0)

	for i := 0; i < 3; i++ {
		res, err := svc.Spin(e.ctx, u.ID)
		if err != nil {
			t.Fatalf("spin %d: %v", i+1, err)
		}
		if res.Remaining != 2-i {
			t.Fatalf("spin %d remaining = %d", i+1, res.Remaining)
		}
		switch res.Slot.Reward.Type {
		case domain.RewardWchibi:
			if res.Chiblet != nil {
				t.Fatalf("currency slot granted a chiblet")
			}
		case domain.RewardChiblet:
			if res.Chiblet == nil || res.Chiblet.Rarity != res.Slot.Reward.Rarity {
				t.Fatalf("chiblet slot result = %+v", res)
			}
		}
	}

	if _, err := svc.Spin(e.ctx, u.ID); !errors.Is(err, game.ErrDailySpinLimit) {
		t.Fatalf("fourth spin: err = %v", err)
	}
	if !errors.Is(game.ErrDailySpinLimit, game.ErrDomainRule) {
		t.Fatalf("spin limit must be a domain rule")
	}
	st, _ := svc.Status(e.ctx, u.ID)
	if st.Remaining != 0 || st.DailyLimit != 3 {
		t.Fatalf("status = %+v", st)
	}

	// 12:00 + 12h01m is just past local midnight
	e.advance(12*time.Hour + time.Minute)
	if _, err := svc.Spin(e.ctx, u.ID); err != nil {
		t.Fatalf("spin after midnight: %v", err)
	}
}

func TestSpinCreditsLedger(t *testing.T) {
	e := newEnv(t)
	svc := NewSpinService(e.deps)
	u := e.player(0)

	var total int64
	var granted int
	for i := 0; i < 3; i++ {
		res, err := svc.Spin(e.ctx, u.ID)
		if err != nil {
			t.Fatalf("spin: %v", err)
		}
		if res.Slot.Reward.Type == domain.RewardWchibi {
			total += res.Slot.Reward.Amount
		} else {
			granted++
		}
	}
	if e.user(u.ID).Wchibi != total {
		t.Fatalf("wchibi = %d; want %d", e.user(u.ID).Wchibi, total)
	}
	if n, _ := e.store.Chiblets.CountByUser(e.ctx, u.ID); n != granted {
		t.Fatalf("chiblets = %d; want %d", n, granted)
	}
	if !e.events.has(u.ID, EventSpin) {
		t.Fatalf("spin event not published")
	}
}

func TestMidnight(t *testing.T) {
	at := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	if got := midnight(at); !got.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("midnight = %v", got)
	}
}
