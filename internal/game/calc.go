package game

import (
	"math"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/domain"
)

const (
	// ExpUnreachable is the experience requirement past the level cap.
	ExpUnreachable = int64(math.MaxInt64)
	// AttacksUnbounded is returned by AttacksNeeded for a powerless team.
	AttacksUnbounded = int64(math.MaxInt64)
)

// Stats are the combat stats of a chiblet at a given level.
type Stats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Power   int `json:"power"`
}

// Calc evaluates every balance formula against one set of tables.
// Unknown rarities yield zero values.
type Calc struct {
	t *balance.Tables
}

func NewCalc(t *balance.Tables) Calc {
	if t == nil {
		t = balance.Default()
	}
	return Calc{t: t}
}

func (c Calc) Tables() *balance.Tables { return c.t }

func (c Calc) MaxLevel() int { return c.t.Limits.MaxLevel }

func curve(base int64, scaling float64, step int) int64 {
	if step < 0 {
		step = 0
	}
	v := math.Floor(float64(base) * math.Pow(scaling, float64(step)))
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Power is the rarity power curve at level.
func (c Calc) Power(r domain.Rarity, level int) int64 {
	s, ok := c.t.Rarity(r)
	if !ok || level < 1 {
		return 0
	}
	return curve(s.BasePower, s.PowerScaling, level-1)
}

// Income is the hourly wCHIBI income of one chiblet.
func (c Calc) Income(r domain.Rarity, level int) int64 {
	s, ok := c.t.Rarity(r)
	if !ok || level < 1 {
		return 0
	}
	return curve(s.BaseIncome, s.IncomeScaling, level-1)
}

func (c Calc) MonsterPower(stage int) int64 {
	if stage < 1 {
		stage = 1
	}
	return curve(c.t.Stage.BaseMonsterPower, c.t.Stage.MonsterScaling, stage-1)
}

func (c Calc) StageReward(stage int) int64 {
	if stage < 1 {
		stage = 1
	}
	return curve(c.t.Stage.BaseReward, c.t.Stage.RewardScaling, stage-1)
}

func (c Calc) TeamPower(team []domain.Chiblet) int64 {
	var total int64
	for i := range team {
		total += c.Power(team[i].Rarity, team[i].Level)
	}
	return total
}

// AttacksNeeded returns ceil(monster/team), or AttacksUnbounded when the
// team has no power.
func AttacksNeeded(teamPower, monsterPower int64) int64 {
	if teamPower <= 0 {
		return AttacksUnbounded
	}
	if monsterPower <= 0 {
		return 0
	}
	return (monsterPower + teamPower - 1) / teamPower
}

// PassiveIncome sums hourly income of the team over hours.
func (c Calc) PassiveIncome(team []domain.Chiblet, hours float64) int64 {
	if hours <= 0 {
		return 0
	}
	var perHour int64
	for i := range team {
		perHour += c.Income(team[i].Rarity, team[i].Level)
	}
	return int64(math.Floor(float64(perHour) * hours))
}

// ExpForLevel is the experience needed to advance from level-1 to level.
func (c Calc) ExpForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > c.t.Limits.MaxLevel {
		return ExpUnreachable
	}
	return c.t.Leveling.ExpBase * int64(level) * int64(level)
}

// TotalExpForLevel is the experience needed to go from level 1 to level.
func (c Calc) TotalExpForLevel(level int) int64 {
	if level > c.t.Limits.MaxLevel {
		return ExpUnreachable
	}
	var total int64
	for l := 2; l <= level; l++ {
		total += c.ExpForLevel(l)
	}
	return total
}

type LevelInfo struct {
	Level      int   `json:"level"`
	Experience int64 `json:"experience"`
	ExpForNext int64 `json:"exp_for_next"`
	ExpToNext  int64 `json:"exp_to_next"`
	CanLevelUp bool  `json:"can_level_up"`
	IsMaxLevel bool  `json:"is_max_level"`
}

func (c Calc) LevelInfo(level int, exp int64) LevelInfo {
	info := LevelInfo{Level: level, Experience: exp}
	if level >= c.t.Limits.MaxLevel {
		info.IsMaxLevel = true
		return info
	}
	need := c.ExpForLevel(level + 1)
	info.ExpForNext = need
	info.CanLevelUp = exp >= need
	if !info.CanLevelUp {
		info.ExpToNext = need - exp
	}
	return info
}

// StatsForLevel scales species base stats by the level multiplier.
func (c Calc) StatsForLevel(sp domain.Species, level int) Stats {
	if level < 1 {
		level = 1
	}
	mult := 1 + float64(level-1)*c.t.Leveling.StatGrowth
	s := Stats{
		HP:      int(math.Floor(float64(sp.BaseHP) * mult)),
		Attack:  int(math.Floor(float64(sp.BaseAttack) * mult)),
		Defense: int(math.Floor(float64(sp.BaseDefense) * mult)),
	}
	s.Power = (s.HP + s.Attack + s.Defense) / 3
	return s
}

// PowerStats derives stats from the rarity power curve. Used for chiblets
// created by fusion or rewards.
func (c Calc) PowerStats(r domain.Rarity, level int) Stats {
	p := int(c.Power(r, level))
	return Stats{
		HP:      p,
		Attack:  p,
		Defense: int(math.Floor(float64(p) * c.t.Leveling.FusedDefense)),
		Power:   p,
	}
}

// FusionRule returns the fusion target and cost for r.
func (c Calc) FusionRule(r domain.Rarity) (domain.Rarity, int64, bool) {
	s, ok := c.t.Rarity(r)
	if !ok || s.FusionTarget == "" {
		return "", 0, false
	}
	return s.FusionTarget, s.FusionCost, true
}

func (c Calc) EnergyCapacity(r domain.Rarity) int {
	s, ok := c.t.Rarity(r)
	if !ok {
		return 0
	}
	return s.EnergyCapacity
}

func (c Calc) RegenHours(r domain.Rarity) float64 {
	s, ok := c.t.Rarity(r)
	if !ok {
		return 0
	}
	return s.RegenHours
}

func (c Calc) EnergyPerHour(r domain.Rarity) float64 {
	s, ok := c.t.Rarity(r)
	if !ok || s.RegenHours <= 0 {
		return 0
	}
	return float64(s.EnergyCapacity) / s.RegenHours
}

// EnergyRegen is the energy regained over hours, capped at capacity.
func (c Calc) EnergyRegen(r domain.Rarity, hours float64) int {
	if hours <= 0 {
		return 0
	}
	gained := int(math.Floor(hours * c.EnergyPerHour(r)))
	return min(gained, c.EnergyCapacity(r))
}
