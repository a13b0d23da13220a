package game

import (
	"testing"
	"time"

	"chiblets_lite/internal/domain"
)

func TestRegenerate(t *testing.T) {
	c := defaultCalc()
	s := EnergyState{Current: 0, UpdatedAt: t0}

	got := c.Regenerate(domain.RarityCommon, s, t0.Add(30*time.Minute))
	if got != s {
		t.Fatalf("no point gained yet, state should be unchanged: %+v", got)
	}

	now := t0.Add(time.Hour)
	got = c.Regenerate(domain.RarityCommon, s, now)
	if got.Current != 1 || !got.UpdatedAt.Equal(now) {
		t.Fatalf("after 1h: %+v", got)
	}

	again := c.Regenerate(domain.RarityCommon, got, now)
	if again != got {
		t.Fatalf("regenerate must be idempotent for the same now")
	}
}

func TestRegenerateMonotonicAndCapped(t *testing.T) {
	c := defaultCalc()
	for _, r := range domain.Rarities {
		s := EnergyState{Current: 0, UpdatedAt: t0}
		prev := 0
		for m := 0; m <= 24*60; m += 10 {
			got := c.Regenerate(r, s, t0.Add(time.Duration(m)*time.Minute))
			if got.Current < prev {
				t.Fatalf("%s energy decreased at %dm: %d < %d", r, m, got.Current, prev)
			}
			if got.Current > c.EnergyCapacity(r) {
				t.Fatalf("%s energy above capacity: %d", r, got.Current)
			}
			prev = got.Current
		}
		if prev != c.EnergyCapacity(r) {
			t.Fatalf("%s should be full after a day, got %d", r, prev)
		}
	}
}

func TestRegenerateClockSkew(t *testing.T) {
	c := defaultCalc()
	s := EnergyState{Current: 1, UpdatedAt: t0}
	if got := c.Regenerate(domain.RarityRare, s, t0.Add(-time.Hour)); got != s {
		t.Fatalf("negative elapsed must not change state: %+v", got)
	}
}

func TestSpend(t *testing.T) {
	now := t0.Add(time.Minute)
	got := Spend(EnergyState{Current: 2, UpdatedAt: t0}, 5, now)
	if got.Current != 0 || !got.UpdatedAt.Equal(now) {
		t.Fatalf("Spend = %+v", got)
	}
	got = Spend(EnergyState{Current: 3, UpdatedAt: t0}, 1, now)
	if got.Current != 2 {
		t.Fatalf("Spend = %+v", got)
	}
}

func TestUntilNext(t *testing.T) {
	c := defaultCalc()
	d := c.UntilNext(domain.RarityCommon, EnergyState{Current: 0, UpdatedAt: t0}, t0)
	if d < 39*time.Minute+59*time.Second || d > 40*time.Minute {
		t.Fatalf("UntilNext = %v; want ~40m", d)
	}
	if c.UntilNext(domain.RarityCommon, EnergyState{Current: 3, UpdatedAt: t0}, t0) != 0 {
		t.Fatalf("full energy has nothing to wait for")
	}
}

func TestRefreshEnergy(t *testing.T) {
	c := defaultCalc()
	ch := member(1, domain.RarityEpic, 1, 2)
	if c.RefreshEnergy(&ch, t0.Add(10*time.Minute)) {
		t.Fatalf("no change expected")
	}
	if !c.RefreshEnergy(&ch, t0.Add(2*time.Hour)) {
		t.Fatalf("expected regen")
	}
	if ch.Energy != 5 {
		t.Fatalf("epic energy after 2h from 2 = %d; want 5", ch.Energy)
	}
}
