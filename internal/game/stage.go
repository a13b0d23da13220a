package game

import (
	"fmt"
	"math"

	"chiblets_lite/internal/domain"
)

type StageOutcome struct {
	Stage         int   `json:"stage"`
	NewStage      int   `json:"new_stage"`
	MonsterPower  int64 `json:"monster_power"`
	TeamPower     int64 `json:"team_power"`
	AttacksNeeded int64 `json:"attacks_needed"`
	Currency      int64 `json:"currency"`
	Experience    int64 `json:"experience"`
	ExpPerMember  int64 `json:"exp_per_member"`
	// EnergySpent is indexed like the team passed in.
	EnergySpent []int `json:"energy_spent"`
}

// StageBattle resolves a PvE stage against team. The team must already have
// regenerated energy; it is not modified.
func (c Calc) StageBattle(team []domain.Chiblet, stage int) (StageOutcome, error) {
	if len(team) == 0 {
		return StageOutcome{}, ErrEmptyTeam
	}
	if stage < 1 {
		stage = 1
	}
	if stage > c.t.Limits.MaxStage {
		return StageOutcome{}, ErrMaxStageReached
	}

	var totalEnergy int64
	for i := range team {
		totalEnergy += int64(team[i].Energy)
	}
	if totalEnergy <= 0 {
		return StageOutcome{}, ErrNoEnergy
	}

	out := StageOutcome{
		Stage:        stage,
		MonsterPower: c.MonsterPower(stage),
		TeamPower:    c.TeamPower(team),
	}
	out.AttacksNeeded = AttacksNeeded(out.TeamPower, out.MonsterPower)
	if out.TeamPower == 0 || out.AttacksNeeded > totalEnergy {
		return StageOutcome{}, ErrTeamTooWeak
	}

	out.EnergySpent = splitEnergy(team, int(out.AttacksNeeded))
	out.NewStage = stage + 1
	out.Currency = c.StageReward(stage)
	out.Experience = int64(math.Floor(float64(out.Currency) * c.t.Stage.ExpShare))
	out.ExpPerMember = out.Experience / int64(len(team))
	return out, nil
}

// splitEnergy spreads needed evenly with the remainder on the first
// members. A member that cannot pay its share passes the rest on to members
// that still have energy. Caller guarantees the team holds enough.
func splitEnergy(team []domain.Chiblet, needed int) []int {
	n := len(team)
	spent := make([]int, n)
	short := 0
	for i := range team {
		want := needed / n
		if i < needed%n {
			want++
		}
		spent[i] = min(want, team[i].Energy)
		short += want - spent[i]
	}
	for short > 0 {
		moved := false
		for i := range team {
			if short == 0 {
				break
			}
			if team[i].Energy > spent[i] {
				spent[i]++
				short--
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return spent
}

type IdleOutcome struct {
	Hours         float64 `json:"hours"`
	StartStage    int     `json:"start_stage"`
	FinalStage    int     `json:"final_stage"`
	StagesCleared int     `json:"stages_cleared"`
	Energy        int64   `json:"energy"`
	Currency      int64   `json:"currency"`
	Experience    int64   `json:"experience"`
}

// IdleProjection estimates offline progress. Regeneration is approximated
// with the team's average regen time, and totals are scaled by the offline
// efficiency. It has no side effects.
func (c Calc) IdleProjection(team []domain.Chiblet, startStage int, hours float64) IdleOutcome {
	out := IdleOutcome{Hours: hours, StartStage: startStage, FinalStage: startStage}
	if hours <= 0 || len(team) == 0 {
		return out
	}
	teamPower := c.TeamPower(team)
	if teamPower <= 0 {
		return out
	}

	var regenSum float64
	var capacity int64
	for i := range team {
		regenSum += c.RegenHours(team[i].Rarity)
		capacity += int64(c.EnergyCapacity(team[i].Rarity))
	}
	avgRegen := regenSum / float64(len(team))
	if avgRegen <= 0 {
		return out
	}
	cycles := int64(math.Floor(hours / avgRegen))
	energy := capacity * cycles
	out.Energy = energy

	stage := max(startStage, 1)
	var currency, exp int64
	for out.StagesCleared < c.t.Idle.MaxIdleStages && stage <= c.t.Limits.MaxStage {
		need := AttacksNeeded(teamPower, c.MonsterPower(stage))
		if need > energy {
			break
		}
		energy -= need
		reward := c.StageReward(stage)
		currency += reward
		exp += int64(math.Floor(float64(reward) * c.t.Stage.ExpShare))
		out.StagesCleared++
		stage++
	}
	if out.StagesCleared == 0 {
		return out
	}

	eff := c.t.Idle.OfflineEfficiency
	out.FinalStage = stage
	out.Currency = int64(math.Floor(float64(currency) * eff))
	out.Experience = int64(math.Floor(float64(exp) * eff))
	return out
}

type StageInfo struct {
	Stage         int    `json:"stage"`
	Area          int    `json:"area"`
	MonsterName   string `json:"monster_name"`
	MonsterPower  int64  `json:"monster_power"`
	MonsterAttack int64  `json:"monster_attack"`
	Reward        int64  `json:"reward"`
	Unlocked      bool   `json:"unlocked"`
}

// StagePreview lists count stages starting at current; only the first is
// unlocked.
func (c Calc) StagePreview(current, count int) []StageInfo {
	if count <= 0 {
		return nil
	}
	current = max(current, 1)
	res := make([]StageInfo, 0, count)
	for i := 0; i < count; i++ {
		stage := current + i
		if stage > c.t.Limits.MaxStage {
			break
		}
		power := c.MonsterPower(stage)
		per := max(c.t.Stage.StagesPerArea, 1)
		res = append(res, StageInfo{
			Stage:         stage,
			Area:          (stage + per - 1) / per,
			MonsterName:   fmt.Sprintf("Stage %d Boss", stage),
			MonsterPower:  power,
			MonsterAttack: int64(math.Floor(float64(power) * c.t.Stage.MonsterAttack)),
			Reward:        c.StageReward(stage),
			Unlocked:      i == 0,
		})
	}
	return res
}
