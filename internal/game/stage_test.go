package game

import (
	"errors"
	"math"
	"testing"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/domain"
)

func legendaryTeam(energies ...int) []domain.Chiblet {
	team := make([]domain.Chiblet, len(energies))
	for i, e := range energies {
		team[i] = member(int64(i+1), domain.RarityLegendary, 1, e)
	}
	return team
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestStageBattleWin(t *testing.T) {
	c := defaultCalc()
	team := legendaryTeam(8, 8, 8)

	out, err := c.StageBattle(team, 1)
	if err != nil {
		t.Fatalf("stage battle: %v", err)
	}
	if out.TeamPower != 450 || out.AttacksNeeded != 3 {
		t.Fatalf("power %d, attacks %d", out.TeamPower, out.AttacksNeeded)
	}
	if out.NewStage != 2 || out.Currency != 50 || out.Experience != 25 || out.ExpPerMember != 8 {
		t.Fatalf("outcome = %+v", out)
	}
	for i, e := range out.EnergySpent {
		if e != 1 {
			t.Fatalf("member %d spent %d; want 1", i, e)
		}
	}
	if team[0].Energy != 8 {
		t.Fatalf("team must not be modified")
	}
}

func TestStageBattleEnergySplit(t *testing.T) {
	c := defaultCalc()

	// 1500 / 600 needs 3, 4 members: remainder on the first three
	out, err := c.StageBattle(legendaryTeam(8, 8, 8, 8), 2)
	if err != nil {
		t.Fatalf("stage battle: %v", err)
	}
	if out.AttacksNeeded != 3 {
		t.Fatalf("attacks = %d", out.AttacksNeeded)
	}
	if got := out.EnergySpent; got[0] != 1 || got[1] != 1 || got[2] != 1 || got[3] != 0 {
		t.Fatalf("split = %v", got)
	}

	// 1000 / 300 needs 4; first member only has 1 so the second covers it
	out, err = c.StageBattle(legendaryTeam(1, 8), 1)
	if err != nil {
		t.Fatalf("stage battle: %v", err)
	}
	if out.AttacksNeeded != 4 {
		t.Fatalf("attacks = %d", out.AttacksNeeded)
	}
	if out.EnergySpent[0] != 1 || out.EnergySpent[1] != 3 {
		t.Fatalf("split = %v; want [1 3]", out.EnergySpent)
	}
	if sum(out.EnergySpent) != int(out.AttacksNeeded) {
		t.Fatalf("spent %d for %d attacks", sum(out.EnergySpent), out.AttacksNeeded)
	}
}

func TestStageBattleErrors(t *testing.T) {
	c := defaultCalc()
	if _, err := c.StageBattle(nil, 1); !errors.Is(err, ErrEmptyTeam) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrEmptyTeam, got %v", err)
	}
	if _, err := c.StageBattle(legendaryTeam(0, 0), 1); !errors.Is(err, ErrNoEnergy) {
		t.Fatalf("expected ErrNoEnergy, got %v", err)
	}
	// 150 power needs 7 attacks at stage 1
	if _, err := c.StageBattle(legendaryTeam(2), 1); !errors.Is(err, ErrTeamTooWeak) {
		t.Fatalf("expected ErrTeamTooWeak, got %v", err)
	}
	zero := []domain.Chiblet{{ID: 1, Rarity: "mythic", Level: 1, Energy: 5}}
	if _, err := c.StageBattle(zero, 1); !errors.Is(err, ErrTeamTooWeak) {
		t.Fatalf("zero power team: %v", err)
	}
	if _, err := c.StageBattle(legendaryTeam(8), c.Tables().Limits.MaxStage+1); !errors.Is(err, ErrMaxStageReached) {
		t.Fatalf("expected ErrMaxStageReached, got %v", err)
	}
}

func TestIdleProjectionZero(t *testing.T) {
	c := defaultCalc()
	team := legendaryTeam(8, 8, 8)
	if out := c.IdleProjection(team, 4, 0); out.StagesCleared != 0 || out.Currency != 0 || out.Experience != 0 {
		t.Fatalf("zero hours = %+v", out)
	}
	if out := c.IdleProjection(nil, 4, 10); out.StagesCleared != 0 || out.Currency != 0 || out.FinalStage != 4 {
		t.Fatalf("empty team = %+v", out)
	}
	// one cycle is 6h for legendaries
	if out := c.IdleProjection(team, 1, 5); out.StagesCleared != 0 || out.Energy != 0 {
		t.Fatalf("less than a cycle = %+v", out)
	}
}

func TestIdleProjection(t *testing.T) {
	c := defaultCalc()
	team := legendaryTeam(0, 0, 0)

	// two 6h cycles of 24 energy; stages 1..5 cost 3+4+5+8+12 = 32, stage 6 needs 17 more
	out := c.IdleProjection(team, 1, 12)
	if out.Energy != 48 {
		t.Fatalf("energy = %d; want 48", out.Energy)
	}
	if out.StagesCleared != 5 || out.FinalStage != 6 {
		t.Fatalf("cleared %d, final %d", out.StagesCleared, out.FinalStage)
	}

	var coins, exp int64
	for s := 1; s <= 5; s++ {
		r := c.StageReward(s)
		coins += r
		exp += int64(math.Floor(float64(r) * 0.5))
	}
	if want := int64(math.Floor(float64(coins) * 0.7)); out.Currency != want {
		t.Fatalf("currency = %d; want %d", out.Currency, want)
	}
	if want := int64(math.Floor(float64(exp) * 0.7)); out.Experience != want {
		t.Fatalf("experience = %d; want %d", out.Experience, want)
	}

	if again := c.IdleProjection(team, 1, 12); again != out {
		t.Fatalf("projection must be deterministic")
	}
}

func TestIdleProjectionStageCap(t *testing.T) {
	tbl := balance.Default()
	tbl.Stage.MonsterScaling = 1
	c := NewCalc(tbl)

	out := c.IdleProjection(legendaryTeam(0, 0, 0, 0, 0), 1, 1000)
	if out.StagesCleared != tbl.Idle.MaxIdleStages {
		t.Fatalf("cleared %d; want cap %d", out.StagesCleared, tbl.Idle.MaxIdleStages)
	}
	if out.FinalStage != 1+tbl.Idle.MaxIdleStages {
		t.Fatalf("final stage = %d", out.FinalStage)
	}
}

func TestStagePreview(t *testing.T) {
	c := defaultCalc()
	list := c.StagePreview(3, 5)
	if len(list) != 5 {
		t.Fatalf("len = %d", len(list))
	}
	first := list[0]
	if first.Stage != 3 || !first.Unlocked || first.Area != 1 || first.MonsterPower != 2250 || first.MonsterAttack != 1800 {
		t.Fatalf("first = %+v", first)
	}
	if list[1].Unlocked {
		t.Fatalf("only the current stage is unlocked")
	}
	if got := c.StagePreview(9, 3); got[2].Area != 2 {
		t.Fatalf("stage 11 area = %d; want 2", got[2].Area)
	}
	if c.StagePreview(1, 0) != nil {
		t.Fatalf("zero count returns nothing")
	}
}
