package game

import (
	"math"
	"time"

	"chiblets_lite/internal/domain"
)

type EnergyState struct {
	Current   int       `json:"current"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Regenerate applies elapsed-time regeneration. The timestamp only moves when
// at least one point was gained, so calling it twice with the same now is a
// no-op the second time.
func (c Calc) Regenerate(r domain.Rarity, s EnergyState, now time.Time) EnergyState {
	capacity := c.EnergyCapacity(r)
	if s.Current >= capacity {
		return s
	}
	elapsed := now.Sub(s.UpdatedAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	gained := int(math.Floor(elapsed * c.EnergyPerHour(r)))
	next := min(s.Current+gained, capacity)
	if next <= s.Current {
		return s
	}
	return EnergyState{Current: next, UpdatedAt: now}
}

// Spend removes amount, flooring at zero, and restarts the regen clock.
func Spend(s EnergyState, amount int, now time.Time) EnergyState {
	return EnergyState{Current: max(0, s.Current-amount), UpdatedAt: now}
}

// UntilNext is the wait until the next energy point, zero when full.
func (c Calc) UntilNext(r domain.Rarity, s EnergyState, now time.Time) time.Duration {
	perHour := c.EnergyPerHour(r)
	if s.Current >= c.EnergyCapacity(r) || perHour <= 0 {
		return 0
	}
	elapsed := now.Sub(s.UpdatedAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	nextAt := (math.Floor(elapsed*perHour) + 1) / perHour
	return time.Duration((nextAt - elapsed) * float64(time.Hour))
}

// RefreshEnergy regenerates ch in place and reports whether it changed.
func (c Calc) RefreshEnergy(ch *domain.Chiblet, now time.Time) bool {
	before := EnergyState{Current: ch.Energy, UpdatedAt: ch.EnergyUpdatedAt}
	after := c.Regenerate(ch.Rarity, before, now)
	if after.Current == before.Current && after.UpdatedAt.Equal(before.UpdatedAt) {
		return false
	}
	ch.Energy = after.Current
	ch.EnergyUpdatedAt = after.UpdatedAt
	return true
}

// SpendEnergy is Spend applied to a chiblet.
func SpendEnergy(ch *domain.Chiblet, amount int, now time.Time) {
	s := Spend(EnergyState{Current: ch.Energy, UpdatedAt: ch.EnergyUpdatedAt}, amount, now)
	ch.Energy = s.Current
	ch.EnergyUpdatedAt = s.UpdatedAt
}
