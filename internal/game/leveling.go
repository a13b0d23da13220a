package game

import (
	"time"

	"chiblets_lite/internal/domain"
)

type LevelUpResult struct {
	Chiblet  domain.Chiblet `json:"chiblet"`
	OldLevel int            `json:"old_level"`
	NewLevel int            `json:"new_level"`
	Gains    Stats          `json:"gains"`
}

// LevelUp advances ch by one level, consuming the experience required for
// that level. Stats are recomputed from the species and HP is refilled.
func (c Calc) LevelUp(ch domain.Chiblet, sp domain.Species) (LevelUpResult, error) {
	if ch.Level >= c.t.Limits.MaxLevel {
		return LevelUpResult{}, ErrMaxLevelReached
	}
	need := c.ExpForLevel(ch.Level + 1)
	if ch.Experience < need {
		return LevelUpResult{}, ErrInsufficientExperience
	}

	old := Stats{HP: ch.MaxHP, Attack: ch.Attack, Defense: ch.Defense}
	old.Power = (old.HP + old.Attack + old.Defense) / 3

	res := LevelUpResult{OldLevel: ch.Level}
	ch.Level++
	ch.Experience = max(0, ch.Experience-need)
	next := c.StatsForLevel(sp, ch.Level)
	ch.MaxHP = next.HP
	ch.HP = next.HP
	ch.Attack = next.Attack
	ch.Defense = next.Defense

	res.Chiblet = ch
	res.NewLevel = ch.Level
	res.Gains = Stats{
		HP:      next.HP - old.HP,
		Attack:  next.Attack - old.Attack,
		Defense: next.Defense - old.Defense,
		Power:   next.Power - old.Power,
	}
	return res, nil
}

// NewChiblet builds a level 1 chiblet at species base stats with full energy.
func (c Calc) NewChiblet(userID int64, sp domain.Species, now time.Time) domain.Chiblet {
	st := c.StatsForLevel(sp, 1)
	return domain.Chiblet{
		UserID:          userID,
		SpeciesID:       sp.ID,
		SpeciesName:     sp.Name,
		Rarity:          sp.Rarity,
		Level:           1,
		HP:              st.HP,
		MaxHP:           st.HP,
		Attack:          st.Attack,
		Defense:         st.Defense,
		Energy:          c.EnergyCapacity(sp.Rarity),
		EnergyUpdatedAt: now,
		CreatedAt:       now,
	}
}

// PoweredChiblet builds a chiblet whose stats follow the rarity power curve.
func (c Calc) PoweredChiblet(userID int64, sp domain.Species, level int, now time.Time) domain.Chiblet {
	if level < 1 {
		level = 1
	}
	st := c.PowerStats(sp.Rarity, level)
	return domain.Chiblet{
		UserID:          userID,
		SpeciesID:       sp.ID,
		SpeciesName:     sp.Name,
		Rarity:          sp.Rarity,
		Level:           level,
		HP:              st.HP,
		MaxHP:           st.HP,
		Attack:          st.Attack,
		Defense:         st.Defense,
		Energy:          c.EnergyCapacity(sp.Rarity),
		EnergyUpdatedAt: now,
		CreatedAt:       now,
	}
}
