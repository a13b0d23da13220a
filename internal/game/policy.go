package game

// Rand is the randomness a battle consumes. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Action string

const (
	ActionAttack  Action = "attack"
	ActionDefend  Action = "defend"
	ActionSpecial Action = "special"
)

// ActionPolicy picks the action of self for the next round.
type ActionPolicy interface {
	Choose(self, foe Combatant, rng Rand) Action
}

// AlwaysAttack never consumes randomness.
type AlwaysAttack struct{}

func (AlwaysAttack) Choose(Combatant, Combatant, Rand) Action { return ActionAttack }

// HeuristicPolicy defends sometimes when low on HP and otherwise mixes in
// special attacks.
type HeuristicPolicy struct {
	LowHPRatio    float64
	DefendChance  float64
	SpecialChance float64
}

func DefaultHeuristic() HeuristicPolicy {
	return HeuristicPolicy{LowHPRatio: 0.3, DefendChance: 0.4, SpecialChance: 0.2}
}

func (p HeuristicPolicy) Choose(self, _ Combatant, rng Rand) Action {
	if self.MaxHP > 0 && float64(self.HP)/float64(self.MaxHP) < p.LowHPRatio {
		if rng.Float64() < p.DefendChance {
			return ActionDefend
		}
	}
	if rng.Float64() < p.SpecialChance {
		return ActionSpecial
	}
	return ActionAttack
}
